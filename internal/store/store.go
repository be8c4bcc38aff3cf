// Package store 提供按 (collection, id) 寻址的 JSON 文档存储。
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound 表示指定的文档不存在。
var ErrNotFound = errors.New("document not found")

// Document 是一条无模式的 JSON 文档。
type Document map[string]any

// Record 是带有存储元数据的文档。
type Record struct {
	ID        string
	Data      Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store 定义内容面板依赖的文档存储能力。
type Store interface {
	// Get 读取单个文档，不存在时返回 ErrNotFound。
	Get(ctx context.Context, collection, id string) (Record, error)
	// List 返回集合内全部文档，按创建时间倒序。
	List(ctx context.Context, collection string) ([]Record, error)
	// Set 整体覆盖文档，不存在时创建。
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update 浅合并顶层字段，不存在时返回 ErrNotFound。
	Update(ctx context.Context, collection, id string, patch Document) error
	// Create 由存储分配 id 并写入创建时间。
	Create(ctx context.Context, collection string, doc Document) (string, error)
	// Delete 删除文档，不存在时返回 ErrNotFound。
	Delete(ctx context.Context, collection, id string) error
}

// Encode 将任意可 JSON 序列化的值转换为 Document。
func Encode(value any) (Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if doc == nil {
		return nil, errors.New("encode document: value is not a JSON object")
	}
	return doc, nil
}

// Decode 将 Document 解析到 dst 指向的值。
func Decode(doc Document, dst any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Clone 返回文档的深拷贝。
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out, err := Encode(d)
	if err != nil {
		// Document 来源于 JSON，重新编码不会失败
		return Document{}
	}
	return out
}
