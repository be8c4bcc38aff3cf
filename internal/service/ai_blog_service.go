package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidewater/internal/content"
)

const (
	defaultOpenAIBlogModel   = "gpt-4o-mini"
	defaultDeepSeekBlogModel = "deepseek-chat"
	defaultBlogWordCount     = 800
	defaultBlogTemperature   = 0.7

	defaultBlogSystemPrompt = "You are a travel copywriter for a boutique travel agency. " +
		"Write accurate, vivid and practical articles. Reply with a single JSON object only."
)

// ErrInvalidGeneration 表示模型返回的内容无法解析为文章。
var ErrInvalidGeneration = errors.New("ai response is not a valid article")

// BlogGenerationInput 描述生成文章所需的参数。
type BlogGenerationInput struct {
	Topic           string   `json:"topic"`
	ContentType     string   `json:"contentType"`
	Tone            string   `json:"tone"`
	TargetWordCount int      `json:"targetWordCount"`
	Keywords        []string `json:"keywords"`
	Category        string   `json:"category"`
}

// Validate 实现 validation.Validatable。
func (in BlogGenerationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Topic, validation.Required.Error("请填写主题"), validation.Length(1, 300)),
		validation.Field(&in.TargetWordCount, validation.Min(100), validation.Max(5000)),
	)
}

// GeneratedPost 是模型生成的文章草稿。
type GeneratedPost struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

// BlogGenerator 定义文章生成能力。
type BlogGenerator interface {
	Generate(ctx context.Context, input BlogGenerationInput) (GeneratedPost, error)
}

// AIBlogService 调用大模型生成博客文章草稿。
type AIBlogService struct {
	settings *SystemSettingService
	client   *aiChatClient
}

// NewAIBlogService 构造 AIBlogService。
func NewAIBlogService(settings *SystemSettingService) *AIBlogService {
	return &AIBlogService{
		settings: settings,
		client:   newAIChatClient(defaultOpenAIBlogModel, defaultDeepSeekBlogModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIBlogService) SetHTTPClient(client httpDoer) { s.client.SetHTTPClient(client) }

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIBlogService) SetOpenAIBaseURL(base string) { s.client.SetOpenAIBaseURL(base) }

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIBlogService) SetDeepSeekBaseURL(base string) { s.client.SetDeepSeekBaseURL(base) }

// Generate 调用当前配置的 AI 平台生成文章。失败直接返回错误，不重试。
func (s *AIBlogService) Generate(ctx context.Context, input BlogGenerationInput) (GeneratedPost, error) {
	input.Topic = strings.TrimSpace(input.Topic)
	if input.TargetWordCount == 0 {
		input.TargetWordCount = defaultBlogWordCount
	}
	if err := input.Validate(); err != nil {
		return GeneratedPost{}, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return GeneratedPost{}, fmt.Errorf("读取系统设置失败: %w", err)
	}
	systemPrompt := strings.TrimSpace(settings.AIBlogPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultBlogSystemPrompt
	}

	userPrompt := buildBlogPrompt(input)
	logAIExchange("BLOG", "prompt", userPrompt)

	result, err := s.client.callWithSettings(ctx, settings, aiChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    input.TargetWordCount * 3,
		Temperature:  defaultBlogTemperature,
		JSONOutput:   true,
	})
	if err != nil {
		return GeneratedPost{}, err
	}
	logAIExchange("BLOG", "response", result.Content)

	post, err := parseGeneratedPost(result.Content)
	if err != nil {
		return GeneratedPost{}, err
	}
	if len(post.Keywords) == 0 {
		post.Keywords = append([]string{}, input.Keywords...)
	}
	return post, nil
}

func buildBlogPrompt(in BlogGenerationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(in.Topic))
	if ct := strings.TrimSpace(in.ContentType); ct != "" {
		fmt.Fprintf(&b, "Content type: %s\n", ct)
	}
	if tone := strings.TrimSpace(in.Tone); tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", tone)
	}
	if cat := strings.TrimSpace(in.Category); cat != "" {
		fmt.Fprintf(&b, "Category: %s\n", cat)
	}
	fmt.Fprintf(&b, "Target length: about %d words\n", in.TargetWordCount)
	if len(in.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords to include: %s\n", strings.Join(in.Keywords, ", "))
	}
	b.WriteString("\nReturn JSON with the keys title, slug, content (Markdown), excerpt, metaTitle, metaDescription and keywords (array of strings).")
	return b.String()
}

// parseGeneratedPost 宽松解析模型输出，允许外层包裹 Markdown 代码块。
func parseGeneratedPost(raw string) (GeneratedPost, error) {
	body := stripCodeFence(raw)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var post GeneratedPost
	if err := json.Unmarshal([]byte(body), &post); err != nil {
		return GeneratedPost{}, fmt.Errorf("%w: %v", ErrInvalidGeneration, err)
	}

	post.Title = strings.TrimSpace(post.Title)
	post.Content = strings.TrimSpace(post.Content)
	if post.Title == "" || post.Content == "" {
		return GeneratedPost{}, fmt.Errorf("%w: title and content are required", ErrInvalidGeneration)
	}
	if strings.TrimSpace(post.Slug) == "" {
		post.Slug = content.Slugify(post.Title)
	} else {
		post.Slug = content.Slugify(post.Slug)
	}
	if strings.TrimSpace(post.Excerpt) == "" {
		post.Excerpt = content.Summarize(post.Content)
	}
	if strings.TrimSpace(post.MetaTitle) == "" {
		post.MetaTitle = post.Title
	}
	if strings.TrimSpace(post.MetaDescription) == "" {
		post.MetaDescription = post.Excerpt
	}
	return post, nil
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), "```"))
}
