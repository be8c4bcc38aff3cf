package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/content"
	"github.com/tidewater/internal/site"
	"github.com/tidewater/internal/store"
)

// ErrPageNotFound 表示页面 slug 未注册。
var ErrPageNotFound = errors.New("page not found")

// PageService 管理单文档落地页的草稿、发布内容与导入导出。
type PageService struct {
	store     store.Store
	workspace *Workspace
	pages     map[string]site.PageType
}

// NewPageService 构造 PageService。
func NewPageService(st store.Store, ws *Workspace) *PageService {
	return &PageService{store: st, workspace: ws, pages: site.Pages()}
}

// Types 返回按 slug 排序的页面类型。
func (s *PageService) Types() []site.PageType {
	out := make([]site.PageType, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Lookup 按 slug 查找页面类型。
func (s *PageService) Lookup(slug string) (site.PageType, error) {
	page, ok := s.pages[slug]
	if !ok {
		return site.PageType{}, fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}
	return page, nil
}

// Open 返回会话中该页面的草稿面板。
func (s *PageService) Open(ctx context.Context, draftKey, slug string) (content.Editor, error) {
	page, err := s.Lookup(slug)
	if err != nil {
		return nil, err
	}
	editor, err := s.workspace.Page(ctx, draftKey, page)
	if err != nil {
		log.Error().Err(err).Str("page", slug).Msg("load page draft failed")
	}
	return editor, err
}

// Discard 丢弃会话中该页面的草稿。
func (s *PageService) Discard(draftKey, slug string) {
	s.workspace.Discard(draftKey, slug)
}

// Save 保存草稿并记录结果。
func (s *PageService) Save(ctx context.Context, editor content.Editor, slug string) error {
	if err := editor.Save(ctx); err != nil {
		if !errors.Is(err, content.ErrBusy) {
			log.Warn().Err(err).Str("page", slug).Msg("save page failed")
		}
		return err
	}
	log.Info().Str("page", slug).Msg("page saved")
	return nil
}

// Published 返回已保存的页面内容，未保存过时返回默认内容。
func (s *PageService) Published(ctx context.Context, slug string) (any, error) {
	page, err := s.Lookup(slug)
	if err != nil {
		return nil, err
	}
	editor := page.NewEditor(s.store)
	if err := editor.Load(ctx); err != nil {
		return nil, err
	}
	snapshot, _ := editor.Snapshot()
	return snapshot, nil
}

// Export 以文档形式导出页面内容。
func (s *PageService) Export(ctx context.Context, slug string) (store.Document, error) {
	snapshot, err := s.Published(ctx, slug)
	if err != nil {
		return nil, err
	}
	return store.Encode(snapshot)
}

// Import 校验文档后整体写入页面，缺失的顶层字段取默认值。
func (s *PageService) Import(ctx context.Context, slug string, doc store.Document) error {
	page, err := s.Lookup(slug)
	if err != nil {
		return err
	}
	editor := page.NewEditor(s.store)
	if err := editor.Load(ctx); err != nil {
		return err
	}
	if err := editor.Replace(doc); err != nil {
		return err
	}
	if err := editor.Save(ctx); err != nil {
		return err
	}
	log.Info().Str("page", slug).Msg("page imported")
	return nil
}
