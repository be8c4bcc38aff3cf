package content

import "errors"

var (
	// ErrBusy 表示同一面板上已有保存或提交在进行中。
	ErrBusy = errors.New("operation already in progress")
	// ErrNotReady 表示面板尚未成功加载草稿。
	ErrNotReady = errors.New("draft is not loaded")
	// ErrUnknownSection 表示内容类型中不存在该分区。
	ErrUnknownSection = errors.New("unknown section")
	// ErrMinimumEntries 表示删除会使分区少于最少条目数。
	ErrMinimumEntries = errors.New("section minimum reached")
	// ErrConfirmationRequired 表示删除操作缺少确认。
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrEditorClosed 表示当前没有打开的条目编辑器。
	ErrEditorClosed = errors.New("editor is not open")
	// ErrInvalidPayload 表示提交的字段无法解析。
	ErrInvalidPayload = errors.New("invalid payload")
)
