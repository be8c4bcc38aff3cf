package db

import "time"

// Document 以 JSON 文本保存一条内容文档，(collection, doc_id) 唯一。
type Document struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"size:100;not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string `gorm:"size:100;not null;uniqueIndex:idx_documents_collection_doc"`
	Body       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 指定自定义表名。
func (Document) TableName() string {
	return "documents"
}
