package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidewater/internal/store"
)

// 由存储维护的元数据字段，提交时会被忽略。
var metaKeys = []string{"id", "createdAt", "updatedAt"}

// CollectionSchema 描述多记录集合：默认记录、派生字段与校验。
type CollectionSchema[T any] struct {
	Collection string
	Title      string
	Default    func() T
	// Prepare 在校验前计算派生字段，例如 slug。
	Prepare  func(*T)
	Validate func(*T) error
	// Lists 暴露记录内可逐项编辑的字符串列表。
	Lists map[string]func(*T) *[]string
	// Unique 列出在集合内取值不能重复的字段，键为 JSON 字段名，空值不参与比较。
	Unique map[string]func(*T) string
}

// CollectionEditor 是 CollectionPanel 的类型擦除视图。
type CollectionEditor interface {
	Title() string
	List(ctx context.Context) error
	Items() []any
	Notice() Notice
	StartCreate() any
	StartEdit(ctx context.Context, id string) (any, error)
	EditorDraft() (any, bool)
	EditDraft(raw []byte) error
	AppendListValue(field, value string) error
	RemoveListValue(field string, index int) error
	CloseEditor()
	Submit(ctx context.Context, raw []byte) (any, error)
	SubmitDraft(ctx context.Context) (any, error)
	Remove(ctx context.Context, id string, confirmed bool) error
}

// CollectionPanel 管理一个集合的列表视图与单条记录编辑器。
type CollectionPanel[T any] struct {
	mu     sync.Mutex
	schema *CollectionSchema[T]
	store  store.Store
	items  []T
	editor *T
	notice Notice
	busy   bool
}

var _ CollectionEditor = (*CollectionPanel[struct{}])(nil)

// NewCollectionPanel 构造 CollectionPanel。
func NewCollectionPanel[T any](schema *CollectionSchema[T], st store.Store) *CollectionPanel[T] {
	return &CollectionPanel[T]{schema: schema, store: st}
}

func (p *CollectionPanel[T]) Title() string { return p.schema.Title }

// Notice 返回最近一次操作的提示。
func (p *CollectionPanel[T]) Notice() Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

// List 从存储重新读取全部记录。读取失败时列表为空并设置错误提示。
func (p *CollectionPanel[T]) List(ctx context.Context) error {
	records, err := p.store.List(ctx, p.schema.Collection)
	var items []T
	if err == nil {
		items = make([]T, 0, len(records))
		for _, record := range records {
			item, decodeErr := p.decode(record)
			if decodeErr != nil {
				err = decodeErr
				break
			}
			items = append(items, item)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.items = nil
		p.notice = Notice{Level: NoticeError, Message: "加载列表失败，请稍后重试"}
		return fmt.Errorf("list %s: %w", p.schema.Collection, err)
	}
	p.items = items
	return nil
}

// Records 返回最近一次 List 的结果副本。
func (p *CollectionPanel[T]) Records() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Items 实现 CollectionEditor。
func (p *CollectionPanel[T]) Items() []any {
	records := p.Records()
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

// StartCreate 以默认记录打开编辑器。
func (p *CollectionPanel[T]) StartCreate() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	fresh := p.schema.Default()
	p.editor = &fresh
	return fresh
}

// StartEdit 以已有记录打开编辑器，优先使用最近一次列表中的记录。
func (p *CollectionPanel[T]) StartEdit(ctx context.Context, id string) (any, error) {
	item, ok := p.listed(id)
	if !ok {
		record, err := p.store.Get(ctx, p.schema.Collection, id)
		if err != nil {
			return nil, err
		}
		if item, err = p.decode(record); err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.editor = &item
	return item, nil
}

func (p *CollectionPanel[T]) listed(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if recordID(item) == id {
			out, err := cloneValue(item)
			return out, err == nil
		}
	}
	var zero T
	return zero, false
}

// EditorDraft 返回当前编辑器内容。
func (p *CollectionPanel[T]) EditorDraft() (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editor == nil {
		return nil, false
	}
	out, err := cloneValue(*p.editor)
	if err != nil {
		return nil, false
	}
	return out, true
}

// EditDraft 将字段合并到编辑器草稿，不访问存储。
func (p *CollectionPanel[T]) EditDraft(raw []byte) error {
	fields, err := decodeObject(raw)
	if err != nil {
		return err
	}
	stripMeta(fields)
	return p.editDraft(func(item *T) error { return mergeFields(item, fields) })
}

// AppendListValue 向编辑器草稿中的字符串列表追加一项。
func (p *CollectionPanel[T]) AppendListValue(field, value string) error {
	get, err := p.listField(field)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: value is empty", ErrInvalidPayload)
	}
	return p.editDraft(func(item *T) error {
		list := get(item)
		*list = AppendValue(*list, value)
		return nil
	})
}

// RemoveListValue 按下标移除编辑器草稿中字符串列表的一项。
func (p *CollectionPanel[T]) RemoveListValue(field string, index int) error {
	get, err := p.listField(field)
	if err != nil {
		return err
	}
	return p.editDraft(func(item *T) error {
		list := get(item)
		*list = RemoveValueAt(*list, index)
		return nil
	})
}

// CloseEditor 丢弃编辑器草稿。
func (p *CollectionPanel[T]) CloseEditor() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editor = nil
}

// SubmitDraft 提交当前编辑器草稿。
func (p *CollectionPanel[T]) SubmitDraft(ctx context.Context) (any, error) {
	p.mu.Lock()
	if p.editor == nil {
		p.mu.Unlock()
		return nil, ErrEditorClosed
	}
	doc, err := store.Encode(*p.editor)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	raw, err := encodeJSON(doc)
	if err != nil {
		return nil, err
	}
	return p.Submit(ctx, raw)
}

// Submit 保存一条记录：不带 id 时新建，带 id 时只更新提交的字段及派生字段。
// 成功后关闭编辑器并刷新列表；失败时编辑器保持打开。
func (p *CollectionPanel[T]) Submit(ctx context.Context, raw []byte) (any, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		p.setNotice(Notice{Level: NoticeValidation, Message: err.Error()})
		return nil, err
	}
	id, _ := fields["id"].(string)
	id = strings.TrimSpace(id)
	stripMeta(fields)

	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	if id == "" {
		id, err = p.create(ctx, fields)
	} else {
		err = p.update(ctx, id, fields)
	}
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.editor = nil
	p.mu.Unlock()

	listErr := p.List(ctx)
	saved, getErr := p.fetch(ctx, id)
	if listErr == nil {
		p.setNotice(Notice{Level: NoticeSuccess, Message: fmt.Sprintf("%s已保存", p.schema.Title)})
	}
	if getErr != nil {
		return store.Document{"id": id}, nil
	}
	return saved, nil
}

// Remove 删除记录，必须显式确认。
func (p *CollectionPanel[T]) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := p.acquire(); err != nil {
		return err
	}
	defer p.release()

	if err := p.store.Delete(ctx, p.schema.Collection, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.setNotice(Notice{Level: NoticeError, Message: "删除失败，请稍后重试"})
		}
		return err
	}
	if err := p.List(ctx); err != nil {
		return nil
	}
	p.setNotice(Notice{Level: NoticeSuccess, Message: fmt.Sprintf("%s已删除", p.schema.Title)})
	return nil
}

func (p *CollectionPanel[T]) create(ctx context.Context, fields map[string]any) (string, error) {
	item := p.schema.Default()
	if err := mergeFields(&item, fields); err != nil {
		p.setNotice(Notice{Level: NoticeValidation, Message: err.Error()})
		return "", err
	}
	if err := p.prepareAndValidate(&item); err != nil {
		return "", err
	}
	if err := p.checkUnique(ctx, "", &item); err != nil {
		return "", err
	}
	doc, err := store.Encode(item)
	if err != nil {
		return "", err
	}
	stripMeta(doc)

	id, err := p.store.Create(ctx, p.schema.Collection, doc)
	if err != nil {
		p.setNotice(Notice{Level: NoticeError, Message: "保存失败，请稍后重试"})
		return "", fmt.Errorf("create in %s: %w", p.schema.Collection, err)
	}
	return id, nil
}

func (p *CollectionPanel[T]) update(ctx context.Context, id string, fields map[string]any) error {
	record, err := p.store.Get(ctx, p.schema.Collection, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.setNotice(Notice{Level: NoticeError, Message: "保存失败，请稍后重试"})
		}
		return err
	}
	item, err := p.decode(record)
	if err != nil {
		return err
	}
	if err := mergeFields(&item, fields); err != nil {
		p.setNotice(Notice{Level: NoticeValidation, Message: err.Error()})
		return err
	}
	if err := p.prepareAndValidate(&item); err != nil {
		return err
	}
	if err := p.checkUnique(ctx, id, &item); err != nil {
		return err
	}

	full, err := store.Encode(item)
	if err != nil {
		return err
	}
	stripMeta(full)
	patch := store.Document{}
	for key, value := range full {
		if _, provided := fields[key]; provided {
			patch[key] = value
			continue
		}
		if stored, ok := record.Data[key]; !ok || !reflect.DeepEqual(stored, value) {
			patch[key] = value
		}
	}

	if err := p.store.Update(ctx, p.schema.Collection, id, patch); err != nil {
		p.setNotice(Notice{Level: NoticeError, Message: "保存失败，请稍后重试"})
		return fmt.Errorf("update %s/%s: %w", p.schema.Collection, id, err)
	}
	return nil
}

func (p *CollectionPanel[T]) prepareAndValidate(item *T) error {
	if p.schema.Prepare != nil {
		p.schema.Prepare(item)
	}
	if p.schema.Validate != nil {
		if err := p.schema.Validate(item); err != nil {
			p.setNotice(Notice{Level: NoticeValidation, Message: err.Error()})
			return err
		}
	}
	return nil
}

// checkUnique 确认 Unique 字段没有被集合内其他记录占用，selfID 为当前记录。
func (p *CollectionPanel[T]) checkUnique(ctx context.Context, selfID string, item *T) error {
	if len(p.schema.Unique) == 0 {
		return nil
	}
	records, err := p.store.List(ctx, p.schema.Collection)
	if err != nil {
		p.setNotice(Notice{Level: NoticeError, Message: "保存失败，请稍后重试"})
		return fmt.Errorf("list %s: %w", p.schema.Collection, err)
	}

	errs := validation.Errors{}
	for field, value := range p.schema.Unique {
		want := strings.TrimSpace(value(item))
		if want == "" {
			continue
		}
		for _, record := range records {
			if record.ID == selfID {
				continue
			}
			if other, _ := record.Data[field].(string); strings.EqualFold(strings.TrimSpace(other), want) {
				errs[field] = fmt.Errorf("%s 已被其他记录使用", want)
				break
			}
		}
	}
	if len(errs) > 0 {
		p.setNotice(Notice{Level: NoticeValidation, Message: errs.Error()})
		return errs
	}
	return nil
}

func (p *CollectionPanel[T]) fetch(ctx context.Context, id string) (T, error) {
	record, err := p.store.Get(ctx, p.schema.Collection, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.decode(record)
}

// decode 将存储元数据注入文档后解析为记录。
func (p *CollectionPanel[T]) decode(record store.Record) (T, error) {
	data := record.Data.Clone()
	if data == nil {
		data = store.Document{}
	}
	data["id"] = record.ID
	data["createdAt"] = record.CreatedAt
	data["updatedAt"] = record.UpdatedAt

	item := p.schema.Default()
	if err := store.Decode(data, &item); err != nil {
		return item, err
	}
	return item, nil
}

func (p *CollectionPanel[T]) editDraft(fn func(*T) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editor == nil {
		return ErrEditorClosed
	}
	next, err := cloneValue(*p.editor)
	if err != nil {
		return err
	}
	if err := fn(&next); err != nil {
		return err
	}
	p.editor = &next
	return nil
}

func (p *CollectionPanel[T]) listField(field string) (func(*T) *[]string, error) {
	get, ok := p.schema.Lists[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, field)
	}
	return get, nil
}

func (p *CollectionPanel[T]) acquire() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return ErrBusy
	}
	p.busy = true
	return nil
}

func (p *CollectionPanel[T]) release() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

func (p *CollectionPanel[T]) setNotice(n Notice) {
	p.mu.Lock()
	p.notice = n
	p.mu.Unlock()
}

func stripMeta(fields map[string]any) {
	for _, key := range metaKeys {
		delete(fields, key)
	}
}

func encodeJSON(doc store.Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return raw, nil
}

func recordID(item any) string {
	doc, err := store.Encode(item)
	if err != nil {
		return ""
	}
	id, _ := doc["id"].(string)
	return id
}
