package content

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// IDSource 为新条目生成在所属序列内唯一的标识。
type IDSource interface {
	NextID(prefix string) string
}

// ULIDs 生成形如 faq-01hx... 的标识，同一进程内单调递增，删除后也不会复用。
type ULIDs struct{}

// NextID 实现 IDSource。
func (ULIDs) NextID(prefix string) string {
	id := strings.ToLower(ulid.Make().String())
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// Sequence 是基于计数器的 IDSource，输出可预测，主要用于测试。
type Sequence struct {
	mu   sync.Mutex
	next int
}

// NextID 实现 IDSource。
func (s *Sequence) NextID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	if prefix == "" {
		return fmt.Sprintf("%d", s.next)
	}
	return fmt.Sprintf("%s-%d", prefix, s.next)
}
