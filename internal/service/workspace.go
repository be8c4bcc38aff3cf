package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/content"
	"github.com/tidewater/internal/site"
	"github.com/tidewater/internal/store"
)

type pageEntry struct {
	editor   content.Editor
	lastUsed time.Time
}

type collectionEntry struct {
	editor   content.CollectionEditor
	lastUsed time.Time
}

// Workspace 保存每个后台会话的编辑面板，键为会话 draft_key 加页面 slug 或集合名。
type Workspace struct {
	mu          sync.Mutex
	store       store.Store
	now         func() time.Time
	pages       map[string]*pageEntry
	collections map[string]*collectionEntry
}

// NewWorkspace 构造 Workspace。
func NewWorkspace(st store.Store) *Workspace {
	return &Workspace{
		store:       st,
		now:         time.Now,
		pages:       make(map[string]*pageEntry),
		collections: make(map[string]*collectionEntry),
	}
}

func workspaceKey(draftKey, name string) string {
	return draftKey + "/" + name
}

// Page 返回会话的页面面板，首次打开或上次加载失败时会重新加载。
func (w *Workspace) Page(ctx context.Context, draftKey string, page site.PageType) (content.Editor, error) {
	key := workspaceKey(draftKey, page.Slug)

	w.mu.Lock()
	entry, ok := w.pages[key]
	if !ok {
		entry = &pageEntry{editor: page.NewEditor(w.store)}
		w.pages[key] = entry
	}
	entry.lastUsed = w.now()
	w.mu.Unlock()

	switch entry.editor.State() {
	case content.StateIdle, content.StateLoadFailed:
		if err := entry.editor.Load(ctx); err != nil {
			return entry.editor, err
		}
	}
	return entry.editor, nil
}

// Collection 返回会话的集合编辑面板。
func (w *Workspace) Collection(draftKey string, ct site.CollectionType) content.CollectionEditor {
	key := workspaceKey(draftKey, ct.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.collections[key]
	if !ok {
		entry = &collectionEntry{editor: ct.NewEditor(w.store)}
		w.collections[key] = entry
	}
	entry.lastUsed = w.now()
	return entry.editor
}

// Discard 丢弃会话中某个页面或集合的面板。
func (w *Workspace) Discard(draftKey, name string) {
	key := workspaceKey(draftKey, name)
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pages, key)
	delete(w.collections, key)
}

// DiscardSession 丢弃会话的全部面板，退出登录时调用。
func (w *Workspace) DiscardSession(draftKey string) {
	prefix := draftKey + "/"
	w.mu.Lock()
	defer w.mu.Unlock()
	for key := range w.pages {
		if strings.HasPrefix(key, prefix) {
			delete(w.pages, key)
		}
	}
	for key := range w.collections {
		if strings.HasPrefix(key, prefix) {
			delete(w.collections, key)
		}
	}
}

// Prune 清理超过 maxIdle 未使用的面板，返回清理数量。
func (w *Workspace) Prune(maxIdle time.Duration) int {
	cutoff := w.now().Add(-maxIdle)
	removed := 0

	w.mu.Lock()
	defer w.mu.Unlock()
	for key, entry := range w.pages {
		if entry.lastUsed.Before(cutoff) {
			delete(w.pages, key)
			removed++
		}
	}
	for key, entry := range w.collections {
		if entry.lastUsed.Before(cutoff) {
			delete(w.collections, key)
			removed++
		}
	}
	return removed
}

// RunPruner 周期性清理闲置面板，直到 ctx 结束。
func (w *Workspace) RunPruner(ctx context.Context, every, maxIdle time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := w.Prune(maxIdle); n > 0 {
				log.Info().Int("panels", n).Msg("pruned idle drafts")
			}
		}
	}
}
