package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Identified 由可编辑序列中的条目实现，标识与位置无关。
type Identified interface {
	EntryID() string
}

// Direction 表示条目的移动方向。
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection 解析 up/down，大小写不敏感。
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	}
	return "", fmt.Errorf("%w: direction must be up or down", ErrInvalidPayload)
}

// Append 在序列末尾追加 makeDefault 生成的条目，makeDefault 负责分配新标识。
func Append[E any](seq []E, makeDefault func() E) []E {
	out := make([]E, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, makeDefault())
}

// UpdateAt 对标识为 id 的条目应用 patch，找不到时原样返回。
// patch 不应修改条目标识。
func UpdateAt[E Identified](seq []E, id string, patch func(*E)) []E {
	idx := indexOf(seq, id)
	if idx < 0 {
		return seq
	}
	out := make([]E, len(seq))
	copy(out, seq)
	patch(&out[idx])
	return out
}

// UpdateAtJSON 将 JSON 对象浅合并到标识为 id 的条目，patch 中的 id 字段会被忽略。
func UpdateAtJSON[E Identified](seq []E, id string, raw []byte) ([]E, error) {
	idx := indexOf(seq, id)
	if idx < 0 {
		return seq, nil
	}
	merged, err := MergeJSON(seq[idx], raw)
	if err != nil {
		return seq, err
	}
	out := make([]E, len(seq))
	copy(out, seq)
	out[idx] = merged
	return out, nil
}

// RemoveAt 移除标识为 id 的条目，其余条目标识不变。
func RemoveAt[E Identified](seq []E, id string) []E {
	idx := indexOf(seq, id)
	if idx < 0 {
		return seq
	}
	out := make([]E, 0, len(seq)-1)
	out = append(out, seq[:idx]...)
	return append(out, seq[idx+1:]...)
}

// Move 将条目与相邻条目交换，位于边界时不做处理。
func Move[E Identified](seq []E, id string, dir Direction) []E {
	idx := indexOf(seq, id)
	if idx < 0 {
		return seq
	}
	target := idx - 1
	if dir == Down {
		target = idx + 1
	}
	if target < 0 || target >= len(seq) {
		return seq
	}
	out := make([]E, len(seq))
	copy(out, seq)
	out[idx], out[target] = out[target], out[idx]
	return out
}

// ListEditor 为某个分区附加最少条目数约束。
type ListEditor[E Identified] struct {
	Min   int
	Label string
}

// RemoveAt 与包级 RemoveAt 相同，但拒绝使分区少于 Min 条。
func (l ListEditor[E]) RemoveAt(seq []E, id string) ([]E, error) {
	if indexOf(seq, id) < 0 {
		return seq, nil
	}
	if len(seq) <= l.Min {
		label := l.Label
		if label == "" {
			label = "条目"
		}
		return seq, fmt.Errorf("%w: 至少需要保留 %d 个%s", ErrMinimumEntries, l.Min, label)
	}
	return RemoveAt(seq, id), nil
}

// AppendValue 为条目内部的字符串列表等简单值追加元素。
func AppendValue[V any](list []V, value V) []V {
	out := make([]V, len(list), len(list)+1)
	copy(out, list)
	return append(out, value)
}

// RemoveValueAt 按下标移除简单值，越界时原样返回。
func RemoveValueAt[V any](list []V, index int) []V {
	if index < 0 || index >= len(list) {
		return list
	}
	out := make([]V, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

// MergeJSON 返回 entry 的副本，并将 JSON 对象中的字段覆盖上去。
func MergeJSON[E any](entry E, raw []byte) (E, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return entry, err
	}
	delete(fields, "id")

	merged, err := cloneValue(entry)
	if err != nil {
		return entry, err
	}
	if err := mergeFields(&merged, fields); err != nil {
		return entry, err
	}
	return merged, nil
}

// ImportJSON 解析 JSON 数组并整体替换序列。
// 解析失败或标识重复时返回 false，调用方应保留原序列；缺少标识的条目会分配新标识。
func ImportJSON[E Identified](raw []byte, nextID func() string) ([]E, bool) {
	var items []map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &items); err != nil || items == nil {
		return nil, false
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item == nil {
			return nil, false
		}
		id, _ := item["id"].(string)
		id = strings.TrimSpace(id)
		if id == "" {
			id = nextID()
		}
		if _, dup := seen[id]; dup {
			return nil, false
		}
		seen[id] = struct{}{}
		item["id"] = id
	}

	normalized, err := json.Marshal(items)
	if err != nil {
		return nil, false
	}
	var out []E
	if err := json.Unmarshal(normalized, &out); err != nil {
		return nil, false
	}
	return out, true
}

func indexOf[E Identified](seq []E, id string) int {
	for i := range seq {
		if seq[i].EntryID() == id {
			return i
		}
	}
	return -1
}

func decodeObject(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}
	var fields map[string]any
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return fields, nil
}

func mergeFields(dst any, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func cloneValue[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("clone: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("clone: %w", err)
	}
	return out, nil
}
