package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidewater/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 基于 gorm 的 documents 表实现 Store。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 构造 GormStore。
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

// Get 读取单个文档。
func (s *GormStore) Get(ctx context.Context, collection, id string) (Record, error) {
	row, err := s.find(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return Record{}, err
	}
	return toRecord(row)
}

// List 返回集合内全部文档，最新创建的在前。
func (s *GormStore) List(ctx context.Context, collection string) ([]Record, error) {
	var rows []db.Document
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at desc, id desc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Set 整体覆盖文档，不存在时创建。
func (s *GormStore) Set(ctx context.Context, collection, id string, doc Document) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("set document: id is required")
	}
	body, err := marshalBody(doc)
	if err != nil {
		return err
	}

	row := db.Document{Collection: collection, DocID: id, Body: body}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"body":       body,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error; err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update 将 patch 的顶层字段浅合并到已有文档。
func (s *GormStore) Update(ctx context.Context, collection, id string, patch Document) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, collection, id)
		if err != nil {
			return err
		}

		current, err := unmarshalBody(row.Body)
		if err != nil {
			return err
		}
		for key, value := range patch {
			current[key] = value
		}

		body, err := marshalBody(current)
		if err != nil {
			return err
		}
		if err := tx.Model(&db.Document{}).
			Where("id = ?", row.ID).
			Update("body", body).Error; err != nil {
			return fmt.Errorf("update %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

// Create 分配 UUID 并写入新文档。
func (s *GormStore) Create(ctx context.Context, collection string, doc Document) (string, error) {
	body, err := marshalBody(doc)
	if err != nil {
		return "", err
	}

	row := db.Document{Collection: collection, DocID: uuid.NewString(), Body: body}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	return row.DocID, nil
}

// Delete 删除文档。
func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&db.Document{})
	if result.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) find(tx *gorm.DB, collection, id string) (db.Document, error) {
	var row db.Document
	if err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Document{}, ErrNotFound
		}
		return db.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return row, nil
}

func toRecord(row db.Document) (Record, error) {
	data, err := unmarshalBody(row.Body)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:        row.DocID,
		Data:      data,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func marshalBody(doc Document) (string, error) {
	if doc == nil {
		doc = Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(raw), nil
}

func unmarshalBody(body string) (Document, error) {
	doc := Document{}
	if strings.TrimSpace(body) == "" {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}
