package content

import (
	"encoding/json"
	"fmt"
)

// Schema 描述一个单文档内容类型：存储位置、默认内容以及可编辑的分区。
type Schema[T any] struct {
	Collection string
	DocumentID string
	Title      string
	Default    func() T
	Lists      []ListAccessor[T]
	Records    []RecordSection[T]
	Validate   func(*T) error
}

// SectionNames 返回全部分区名，列表分区在前。
func (s *Schema[T]) SectionNames() []string {
	names := make([]string, 0, len(s.Lists)+len(s.Records))
	for _, l := range s.Lists {
		names = append(names, l.SectionName())
	}
	for _, r := range s.Records {
		names = append(names, r.Key)
	}
	return names
}

func (s *Schema[T]) list(name string) (ListAccessor[T], error) {
	for _, l := range s.Lists {
		if l.SectionName() == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
}

func (s *Schema[T]) record(name string) (RecordSection[T], error) {
	for _, r := range s.Records {
		if r.Key == name {
			return r, nil
		}
	}
	return RecordSection[T]{}, fmt.Errorf("%w: %s", ErrUnknownSection, name)
}

// ListAccessor 将文档中的某个有序分区暴露给 Panel，由 ListSection 实现。
type ListAccessor[T any] interface {
	SectionName() string
	appendEntry(doc *T, ids IDSource) string
	updateEntry(doc *T, id string, raw []byte) error
	removeEntry(doc *T, id string) error
	moveEntry(doc *T, id string, dir Direction)
	importEntries(doc *T, raw []byte, ids IDSource) bool
}

// ListSection 绑定文档 T 中元素类型为 E 的有序分区。
type ListSection[T any, E Identified] struct {
	Key    string
	Prefix string
	Editor ListEditor[E]
	Items  func(*T) *[]E
	New    func(id string) E
}

// SectionName 实现 ListAccessor。
func (l ListSection[T, E]) SectionName() string { return l.Key }

func (l ListSection[T, E]) appendEntry(doc *T, ids IDSource) string {
	id := ids.NextID(l.prefix())
	items := l.Items(doc)
	*items = Append(*items, func() E { return l.New(id) })
	return id
}

func (l ListSection[T, E]) updateEntry(doc *T, id string, raw []byte) error {
	items := l.Items(doc)
	next, err := UpdateAtJSON(*items, id, raw)
	if err != nil {
		return err
	}
	*items = next
	return nil
}

func (l ListSection[T, E]) removeEntry(doc *T, id string) error {
	items := l.Items(doc)
	next, err := l.Editor.RemoveAt(*items, id)
	if err != nil {
		return err
	}
	*items = next
	return nil
}

func (l ListSection[T, E]) moveEntry(doc *T, id string, dir Direction) {
	items := l.Items(doc)
	*items = Move(*items, id, dir)
}

func (l ListSection[T, E]) importEntries(doc *T, raw []byte, ids IDSource) bool {
	next, ok := ImportJSON[E](raw, func() string { return ids.NextID(l.prefix()) })
	if !ok {
		return false
	}
	if len(next) < l.Editor.Min {
		return false
	}
	*l.Items(doc) = next
	return true
}

func (l ListSection[T, E]) prefix() string {
	if l.Prefix != "" {
		return l.Prefix
	}
	return l.Key
}

// RecordSection 绑定文档中按字段整体赋值的分区，例如 hero、seo。
type RecordSection[T any] struct {
	Key   string
	Field func(*T) any
}

func (r RecordSection[T]) assign(doc *T, raw []byte) error {
	fields, err := decodeObject(raw)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(encoded, r.Field(doc)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
