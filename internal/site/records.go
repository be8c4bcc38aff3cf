package site

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/tidewater/internal/content"
)

const (
	EScootersCollection = "escooters"
	BlogPostsCollection = "blog_posts"
	LeadsCollection     = "leads"
)

// 文章状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// EScooter 是一条电动滑板车租赁记录。
type EScooter struct {
	ID              string    `json:"id,omitempty"`
	Model           string    `json:"model"`
	Brand           string    `json:"brand"`
	Price           float64   `json:"price"`
	RangeKm         int       `json:"rangeKm"`
	MaxSpeedKmh     int       `json:"maxSpeedKmh"`
	ImageURL        string    `json:"imageUrl"`
	SpecialFeatures []string  `json:"specialFeatures"`
	Available       bool      `json:"available"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DefaultEScooter 返回新建滑板车时的默认值。
func DefaultEScooter() EScooter {
	return EScooter{SpecialFeatures: []string{}, Available: true}
}

func prepareEScooter(s *EScooter) {
	s.Model = strings.TrimSpace(s.Model)
	s.Brand = strings.TrimSpace(s.Brand)
	if s.SpecialFeatures == nil {
		s.SpecialFeatures = []string{}
	}
}

func validateEScooter(s *EScooter) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Model, validation.Required.Error("型号不能为空")),
		validation.Field(&s.Brand, validation.Required.Error("品牌不能为空")),
		validation.Field(&s.Price, validation.Min(0.0)),
		validation.Field(&s.RangeKm, validation.Min(0)),
		validation.Field(&s.MaxSpeedKmh, validation.Min(0), validation.Max(80)),
		validation.Field(&s.ImageURL, validation.By(optionalImageURL)),
	)
}

// BlogPost 是一篇博客文章。
type BlogPost struct {
	ID              string    `json:"id,omitempty"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt"`
	Category        string    `json:"category"`
	Keywords        []string  `json:"keywords"`
	MetaTitle       string    `json:"metaTitle"`
	MetaDescription string    `json:"metaDescription"`
	CoverImage      string    `json:"coverImage"`
	Status          string    `json:"status"`
	ReadingTime     int       `json:"readingTime"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Published 判断文章是否对外可见。
func (p BlogPost) Published() bool { return p.Status == PostStatusPublished }

// DefaultBlogPost 返回新建文章时的默认值。
func DefaultBlogPost() BlogPost {
	return BlogPost{Keywords: []string{}, Status: PostStatusDraft}
}

// PrepareBlogPost 计算 slug、阅读时长、摘要等派生字段。
func PrepareBlogPost(p *BlogPost) {
	p.Title = strings.TrimSpace(p.Title)
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = content.Slugify(p.Title)
	} else {
		p.Slug = content.Slugify(p.Slug)
	}
	p.ReadingTime = content.ReadingTime(p.Content)
	if strings.TrimSpace(p.Excerpt) == "" {
		p.Excerpt = content.Summarize(p.Content)
	}
	if strings.TrimSpace(p.MetaTitle) == "" {
		p.MetaTitle = p.Title
	}
	if strings.TrimSpace(p.MetaDescription) == "" {
		p.MetaDescription = p.Excerpt
	}
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
}

func validateBlogPost(p *BlogPost) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required.Error("标题不能为空"), validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.Required),
		validation.Field(&p.Status, validation.In(PostStatusDraft, PostStatusPublished)),
		validation.Field(&p.MetaDescription, validation.Length(0, 320)),
		validation.Field(&p.CoverImage, validation.By(optionalImageURL)),
	)
}

// 预订服务类型
var ServiceTypes = []string{
	"escooter",
	"whale-watching",
	"island-getaway",
	"sea-cucumber",
	"train-journey",
	"luxury-stay",
	"airport-transfer",
}

// Lead 是预订表单提交的线索。
type Lead struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ServiceType     string    `json:"serviceType"`
	PickupLocation  string    `json:"pickupLocation"`
	DropoffLocation string    `json:"dropoffLocation"`
	Dates           string    `json:"dates"`
	Passengers      int       `json:"passengers"`
	VehicleType     string    `json:"vehicleType"`
	ContactInfo     string    `json:"contactInfo"`
	SpecialRequests string    `json:"specialRequests"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate 实现 validation.Validatable。
func (l Lead) Validate() error {
	serviceTypes := make([]interface{}, len(ServiceTypes))
	for i, s := range ServiceTypes {
		serviceTypes[i] = s
	}
	return validation.ValidateStruct(&l,
		validation.Field(&l.Name, validation.Required.Error("请填写姓名"), validation.Length(1, 120)),
		validation.Field(&l.Email, validation.Required.Error("请填写邮箱"), is.EmailFormat),
		validation.Field(&l.Phone, validation.Length(0, 40)),
		validation.Field(&l.ServiceType, validation.Required, validation.In(serviceTypes...)),
		validation.Field(&l.Passengers, validation.Min(1), validation.Max(500)),
		validation.Field(&l.SpecialRequests, validation.Length(0, 2000)),
	)
}

func optionalImageURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	return imageURL(s)
}
