package content

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tidewater/internal/store"
)

// State 是面板的生命周期状态。
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateLoadFailed State = "load_failed"
	StateSaving     State = "saving"
)

// Notice 是展示给编辑者的操作结果提示。
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	NoticeSuccess    = "success"
	NoticeError      = "error"
	NoticeValidation = "validation"
	NoticeInfo       = "info"
)

// Editor 是 Panel 的类型擦除视图，供 HTTP 层按分区名操作草稿。
type Editor interface {
	Title() string
	Sections() []string
	Load(ctx context.Context) error
	State() State
	Notice() Notice
	Snapshot() (any, bool)
	AssignRecord(section string, raw []byte) error
	Append(section string) (string, error)
	UpdateEntry(section, id string, raw []byte) error
	RemoveEntry(section, id string) error
	MoveEntry(section, id string, dir Direction) error
	ImportEntries(section string, raw []byte) (bool, error)
	Replace(doc store.Document) error
	Save(ctx context.Context) error
	Reset() error
}

// Panel 持有单文档内容类型的编辑草稿，所有修改都先作用于副本，成功后才替换草稿。
type Panel[T any] struct {
	mu     sync.Mutex
	schema *Schema[T]
	store  store.Store
	ids    IDSource
	state  State
	draft  *T
	notice Notice
}

var _ Editor = (*Panel[struct{}])(nil)

// NewPanel 构造处于 idle 状态的 Panel。
func NewPanel[T any](schema *Schema[T], st store.Store) *Panel[T] {
	return &Panel[T]{
		schema: schema,
		store:  st,
		ids:    ULIDs{},
		state:  StateIdle,
	}
}

// SetIDSource 替换新条目的标识生成器。
func (p *Panel[T]) SetIDSource(ids IDSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ids != nil {
		p.ids = ids
	}
}

func (p *Panel[T]) Title() string      { return p.schema.Title }
func (p *Panel[T]) Sections() []string { return p.schema.SectionNames() }

// State 返回当前状态。
func (p *Panel[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Notice 返回最近一次操作的提示。
func (p *Panel[T]) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

// Load 读取已保存文档作为草稿；文档不存在时使用默认内容。
func (p *Panel[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateSaving {
		p.mu.Unlock()
		return ErrBusy
	}
	p.state = StateLoading
	p.mu.Unlock()

	record, err := p.store.Get(ctx, p.schema.Collection, p.schema.DocumentID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if errors.Is(err, store.ErrNotFound) {
		fresh := p.schema.Default()
		p.draft = &fresh
		p.state = StateReady
		p.notice = Notice{}
		return nil
	}
	if err == nil {
		var loaded T
		if loaded, err = withDefaults(p.schema.Default(), record.Data); err == nil {
			p.draft = &loaded
			p.state = StateReady
			p.notice = Notice{}
			return nil
		}
	}

	p.draft = nil
	p.state = StateLoadFailed
	p.notice = Notice{Level: NoticeError, Message: "加载内容失败，请稍后重试"}
	return fmt.Errorf("load %s/%s: %w", p.schema.Collection, p.schema.DocumentID, err)
}

// Draft 返回草稿的深拷贝。
func (p *Panel[T]) Draft() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if p.draft == nil {
		return zero, false
	}
	out, err := cloneValue(*p.draft)
	if err != nil {
		return zero, false
	}
	return out, true
}

// Snapshot 实现 Editor。
func (p *Panel[T]) Snapshot() (any, bool) {
	d, ok := p.Draft()
	if !ok {
		return nil, false
	}
	return d, true
}

// Edit 在草稿副本上执行 fn，fn 返回错误时草稿保持不变。
func (p *Panel[T]) Edit(fn func(*T) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mutateLocked(fn)
}

// AssignRecord 将 JSON 对象中的字段写入记录型分区。
func (p *Panel[T]) AssignRecord(section string, raw []byte) error {
	r, err := p.schema.record(section)
	if err != nil {
		return err
	}
	return p.Edit(func(doc *T) error { return r.assign(doc, raw) })
}

// Append 在列表分区末尾追加默认条目，返回新条目的标识。
func (p *Panel[T]) Append(section string) (string, error) {
	l, err := p.schema.list(section)
	if err != nil {
		return "", err
	}
	var id string
	err = p.Edit(func(doc *T) error {
		id = l.appendEntry(doc, p.ids)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateEntry 按标识更新列表条目，未知标识时不做任何修改。
func (p *Panel[T]) UpdateEntry(section, id string, raw []byte) error {
	l, err := p.schema.list(section)
	if err != nil {
		return err
	}
	return p.Edit(func(doc *T) error { return l.updateEntry(doc, id, raw) })
}

// RemoveEntry 按标识删除列表条目，受分区最少条目数约束。
func (p *Panel[T]) RemoveEntry(section, id string) error {
	l, err := p.schema.list(section)
	if err != nil {
		return err
	}
	return p.Edit(func(doc *T) error { return l.removeEntry(doc, id) })
}

// MoveEntry 将条目上移或下移一位。
func (p *Panel[T]) MoveEntry(section, id string, dir Direction) error {
	l, err := p.schema.list(section)
	if err != nil {
		return err
	}
	return p.Edit(func(doc *T) error {
		l.moveEntry(doc, id, dir)
		return nil
	})
}

// ImportEntries 用 JSON 数组整体替换列表分区，无法解析时忽略并返回 false。
func (p *Panel[T]) ImportEntries(section string, raw []byte) (bool, error) {
	l, err := p.schema.list(section)
	if err != nil {
		return false, err
	}
	applied := false
	err = p.Edit(func(doc *T) error {
		applied = l.importEntries(doc, raw, p.ids)
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// Replace 以文档整体替换草稿。文档中缺失的顶层字段取默认值，已给出的顶层字段整体替换，不与默认值逐层合并。
func (p *Panel[T]) Replace(doc store.Document) error {
	return p.Edit(func(draft *T) error {
		next, err := withDefaults(p.schema.Default(), doc)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		*draft = next
		return nil
	})
}

// Save 校验后将整个草稿写入存储。保存失败时草稿保持不变。
func (p *Panel[T]) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateSaving {
		p.mu.Unlock()
		return ErrBusy
	}
	if p.state != StateReady || p.draft == nil {
		p.mu.Unlock()
		return ErrNotReady
	}
	snapshot, err := cloneValue(*p.draft)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if p.schema.Validate != nil {
		if err := p.schema.Validate(&snapshot); err != nil {
			p.notice = Notice{Level: NoticeValidation, Message: err.Error()}
			p.mu.Unlock()
			return err
		}
	}
	p.state = StateSaving
	p.mu.Unlock()

	doc, err := store.Encode(snapshot)
	if err == nil {
		err = p.store.Set(ctx, p.schema.Collection, p.schema.DocumentID, doc)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateReady
	if err != nil {
		p.notice = Notice{Level: NoticeError, Message: "保存失败，请稍后重试"}
		return fmt.Errorf("save %s/%s: %w", p.schema.Collection, p.schema.DocumentID, err)
	}
	p.notice = Notice{Level: NoticeSuccess, Message: fmt.Sprintf("%s已保存", p.schema.Title)}
	return nil
}

// Reset 用默认内容替换草稿，不写入存储。
func (p *Panel[T]) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateReady {
		return ErrNotReady
	}
	fresh := p.schema.Default()
	p.draft = &fresh
	p.notice = Notice{Level: NoticeInfo, Message: "已恢复默认内容，保存后生效"}
	return nil
}

func (p *Panel[T]) mutateLocked(fn func(*T) error) error {
	if p.draft == nil || (p.state != StateReady && p.state != StateSaving) {
		return ErrNotReady
	}
	next, err := cloneValue(*p.draft)
	if err != nil {
		return err
	}
	if err := fn(&next); err != nil {
		if errors.Is(err, ErrMinimumEntries) || errors.Is(err, ErrInvalidPayload) {
			p.notice = Notice{Level: NoticeValidation, Message: err.Error()}
		}
		return err
	}
	p.draft = &next
	return nil
}

// withDefaults 以文档的顶层字段覆盖默认内容。按字段整体替换，默认列表中的条目不会混入文档的条目。
func withDefaults[T any](def T, doc store.Document) (T, error) {
	var out T
	merged, err := store.Encode(def)
	if err != nil {
		return out, err
	}
	for key, value := range doc {
		merged[key] = value
	}
	if err := store.Decode(merged, &out); err != nil {
		return out, err
	}
	return out, nil
}
