package site

import (
	"sort"

	"github.com/tidewater/internal/content"
	"github.com/tidewater/internal/store"
)

// PageType 是按 slug 注册的单文档页面类型。
type PageType struct {
	Slug  string
	Title string
	// NewEditor 为该页面构造一个尚未加载的面板。
	NewEditor func(st store.Store) content.Editor
}

// CollectionType 是按集合名注册的多记录内容类型。
type CollectionType struct {
	Name      string
	Title     string
	NewEditor func(st store.Store) content.CollectionEditor
}

func pageType[T any](schema func() *content.Schema[T]) PageType {
	s := schema()
	return PageType{
		Slug:  s.DocumentID,
		Title: s.Title,
		NewEditor: func(st store.Store) content.Editor {
			return content.NewPanel(schema(), st)
		},
	}
}

// Pages 返回全部页面类型，键为 slug。
func Pages() map[string]PageType {
	types := []PageType{
		pageType(islandGetawaysSchema),
		pageType(whaleWatchingSchema),
		pageType(seaCucumberSchema),
		pageType(trainJourneysSchema),
		pageType(luxuryStaysSchema),
	}
	out := make(map[string]PageType, len(types))
	for _, t := range types {
		out[t.Slug] = t
	}
	return out
}

// PageSlugs 返回排序后的页面 slug。
func PageSlugs() []string {
	pages := Pages()
	slugs := make([]string, 0, len(pages))
	for slug := range pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// EScooterSchema 返回滑板车集合的 schema。
func EScooterSchema() *content.CollectionSchema[EScooter] {
	return &content.CollectionSchema[EScooter]{
		Collection: EScootersCollection,
		Title:      "电动滑板车",
		Default:    DefaultEScooter,
		Prepare:    prepareEScooter,
		Validate:   validateEScooter,
		Lists: map[string]func(*EScooter) *[]string{
			"specialFeatures": func(s *EScooter) *[]string { return &s.SpecialFeatures },
		},
	}
}

// BlogPostSchema 返回博客文章集合的 schema。
func BlogPostSchema() *content.CollectionSchema[BlogPost] {
	return &content.CollectionSchema[BlogPost]{
		Collection: BlogPostsCollection,
		Title:      "文章",
		Default:    DefaultBlogPost,
		Prepare:    PrepareBlogPost,
		Validate:   validateBlogPost,
		Lists: map[string]func(*BlogPost) *[]string{
			"keywords": func(p *BlogPost) *[]string { return &p.Keywords },
		},
		Unique: map[string]func(*BlogPost) string{
			"slug": func(p *BlogPost) string { return p.Slug },
		},
	}
}

// Collections 返回可在后台编辑的集合，键为集合名。
func Collections() map[string]CollectionType {
	return map[string]CollectionType{
		EScootersCollection: {
			Name:  EScootersCollection,
			Title: "电动滑板车",
			NewEditor: func(st store.Store) content.CollectionEditor {
				return content.NewCollectionPanel(EScooterSchema(), st)
			},
		},
		BlogPostsCollection: {
			Name:  BlogPostsCollection,
			Title: "文章",
			NewEditor: func(st store.Store) content.CollectionEditor {
				return content.NewCollectionPanel(BlogPostSchema(), st)
			},
		},
	}
}
