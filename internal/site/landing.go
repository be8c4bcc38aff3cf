// Package site 定义旅行站点的内容类型、默认内容与注册表。
package site

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/tidewater/internal/content"
)

// Hero 是落地页首屏文案。
type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Badge    string `json:"badge"`
	CTALabel string `json:"ctaLabel"`
}

// Validate 实现 validation.Validatable。
func (h Hero) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&h.Subtitle, validation.Length(0, 240)),
	)
}

// Overview 是页面简介。
type Overview struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SEO 是页面元信息。
type SEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

// Validate 实现 validation.Validatable。
func (s SEO) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.MetaTitle, validation.Length(0, 70)),
		validation.Field(&s.MetaDescription, validation.Length(0, 160)),
	)
}

// Image 是图片条目。
type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

func (i Image) EntryID() string { return i.ID }

// Validate 实现 validation.Validatable。
func (i Image) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.URL, validation.Required, validation.By(imageURL)),
	)
}

// FAQ 是常见问题条目。
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (f FAQ) EntryID() string { return f.ID }

// Validate 实现 validation.Validatable。
func (f FAQ) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Question, validation.Required),
		validation.Field(&f.Answer, validation.Required),
	)
}

// Highlight 是带标题的卖点条目。
type Highlight struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (h Highlight) EntryID() string { return h.ID }

// Experience 是可预订的体验项目。
type Experience struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    string  `json:"duration"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

func (e Experience) EntryID() string { return e.ID }

// Validate 实现 validation.Validatable。
func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.Price, validation.Min(0.0)),
	)
}

// PricingTier 是价格方案。
type PricingTier struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Includes []string `json:"includes"`
}

func (p PricingTier) EntryID() string { return p.ID }

// Validate 实现 validation.Validatable。
func (p PricingTier) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.Currency, validation.Required, is.CurrencyCode),
	)
}

// Landing 是所有落地页共有的分区。
type Landing struct {
	Hero       Hero     `json:"hero"`
	HeroImages []Image  `json:"heroImages"`
	Overview   Overview `json:"overview"`
	Gallery    []Image  `json:"gallery"`
	FAQs       []FAQ    `json:"faqs"`
	SEO        SEO      `json:"seo"`
}

// Validate 实现 validation.Validatable。
func (l Landing) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Hero),
		validation.Field(&l.HeroImages, validation.Required.Error("至少需要一张首屏图片")),
		validation.Field(&l.Gallery),
		validation.Field(&l.FAQs),
		validation.Field(&l.SEO),
	)
}

// landingSections 为嵌入 Landing 的页面类型生成公共分区。
func landingSections[T any](landing func(*T) *Landing) ([]content.ListAccessor[T], []content.RecordSection[T]) {
	lists := []content.ListAccessor[T]{
		content.ListSection[T, Image]{
			Key:    "heroImages",
			Prefix: "hero",
			Editor: content.ListEditor[Image]{Min: 1, Label: "首屏图片"},
			Items:  func(p *T) *[]Image { return &landing(p).HeroImages },
			New:    func(id string) Image { return Image{ID: id} },
		},
		content.ListSection[T, Image]{
			Key:    "gallery",
			Prefix: "img",
			Items:  func(p *T) *[]Image { return &landing(p).Gallery },
			New:    func(id string) Image { return Image{ID: id} },
		},
		content.ListSection[T, FAQ]{
			Key:    "faqs",
			Prefix: "faq",
			Items:  func(p *T) *[]FAQ { return &landing(p).FAQs },
			New:    func(id string) FAQ { return FAQ{ID: id} },
		},
	}
	records := []content.RecordSection[T]{
		{Key: "hero", Field: func(p *T) any { return &landing(p).Hero }},
		{Key: "overview", Field: func(p *T) any { return &landing(p).Overview }},
		{Key: "seo", Field: func(p *T) any { return &landing(p).SEO }},
	}
	return lists, records
}

func imageURL(value any) error {
	s, _ := value.(string)
	if len(s) > 0 && s[0] == '/' {
		return nil
	}
	return is.URL.Validate(s)
}
