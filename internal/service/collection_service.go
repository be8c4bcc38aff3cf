package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidewater/internal/content"
	"github.com/tidewater/internal/site"
	"github.com/tidewater/internal/store"
)

var (
	// ErrCollectionNotFound 表示集合名未注册。
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrPostNotFound 表示文章不存在或未发布。
	ErrPostNotFound = errors.New("post not found")
)

// CollectionService 提供集合内容的后台编辑与前台查询。
type CollectionService struct {
	store       store.Store
	workspace   *Workspace
	collections map[string]site.CollectionType
}

// NewCollectionService 构造 CollectionService。
func NewCollectionService(st store.Store, ws *Workspace) *CollectionService {
	return &CollectionService{store: st, workspace: ws, collections: site.Collections()}
}

// Types 返回按名称排序的集合类型。
func (s *CollectionService) Types() []site.CollectionType {
	out := make([]site.CollectionType, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup 按名称查找集合类型。
func (s *CollectionService) Lookup(name string) (site.CollectionType, error) {
	ct, ok := s.collections[name]
	if !ok {
		return site.CollectionType{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	return ct, nil
}

// Panel 为无状态接口构造一个新的集合面板。
func (s *CollectionService) Panel(name string) (content.CollectionEditor, error) {
	ct, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return ct.NewEditor(s.store), nil
}

// Editor 返回会话中该集合的编辑面板。
func (s *CollectionService) Editor(draftKey, name string) (content.CollectionEditor, error) {
	ct, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.workspace.Collection(draftKey, ct), nil
}

// DiscardEditor 丢弃会话中该集合的编辑面板。
func (s *CollectionService) DiscardEditor(draftKey, name string) {
	s.workspace.Discard(draftKey, name)
}

// PublishedPosts 返回已发布且匹配 query 的文章，最新的在前。
func (s *CollectionService) PublishedPosts(ctx context.Context, query string) ([]site.BlogPost, error) {
	panel := content.NewCollectionPanel(site.BlogPostSchema(), s.store)
	if err := panel.List(ctx); err != nil {
		return nil, err
	}

	posts := make([]site.BlogPost, 0)
	for _, post := range panel.Records() {
		if !post.Published() {
			continue
		}
		if !content.MatchesSearch(query, post.Title, post.Excerpt, post.Content, post.Category, strings.Join(post.Keywords, " ")) {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// PostBySlug 返回指定 slug 的已发布文章。
func (s *CollectionService) PostBySlug(ctx context.Context, slug string) (site.BlogPost, error) {
	posts, err := s.PublishedPosts(ctx, "")
	if err != nil {
		return site.BlogPost{}, err
	}
	for _, post := range posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return site.BlogPost{}, ErrPostNotFound
}

// EScooters 返回滑板车列表，onlyAvailable 为 true 时过滤不可租的车型。
func (s *CollectionService) EScooters(ctx context.Context, onlyAvailable bool) ([]site.EScooter, error) {
	panel := content.NewCollectionPanel(site.EScooterSchema(), s.store)
	if err := panel.List(ctx); err != nil {
		return nil, err
	}
	scooters := make([]site.EScooter, 0)
	for _, scooter := range panel.Records() {
		if onlyAvailable && !scooter.Available {
			continue
		}
		scooters = append(scooters, scooter)
	}
	return scooters, nil
}
