package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultPolishMaxTokens    = 4096
	defaultPolishTemperature  = 0.35
	maxPolishContentRuneCount = 16000

	polishSystemPrompt = "You are the senior editor of a travel agency blog. Polish the article without changing its facts.\n" +
		"1. Keep the Markdown structure: headings, lists, quotes and links.\n" +
		"2. Tighten wording and improve flow between paragraphs.\n" +
		"3. Keep every price, date, place name, link and image link exactly as written.\n" +
		"4. Reply with the polished Markdown body only, without a new title or any commentary."
)

// ErrPolishEmpty 表示模型未返回可用内容。
var ErrPolishEmpty = errors.New("ai polish returned empty content")

// PolishInput 描述润色文章所需的参数。
type PolishInput struct {
	Content   string `json:"content"`
	Tone      string `json:"tone"`
	MaxTokens int    `json:"maxTokens"`
}

// PolishResult 返回润色后的 Markdown 及用量信息。
type PolishResult struct {
	Content          string `json:"content"`
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`
}

// ContentPolisher 定义文章润色能力。
type ContentPolisher interface {
	Polish(ctx context.Context, input PolishInput) (PolishResult, error)
}

// AIRewriteService 调用大模型对博客正文进行整体润色。
type AIRewriteService struct {
	settings *SystemSettingService
	client   *aiChatClient
}

// NewAIRewriteService 构造 AIRewriteService。
func NewAIRewriteService(settings *SystemSettingService) *AIRewriteService {
	return &AIRewriteService{
		settings: settings,
		client:   newAIChatClient(defaultOpenAIBlogModel, defaultDeepSeekBlogModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIRewriteService) SetHTTPClient(client httpDoer) { s.client.SetHTTPClient(client) }

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIRewriteService) SetOpenAIBaseURL(base string) { s.client.SetOpenAIBaseURL(base) }

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIRewriteService) SetDeepSeekBaseURL(base string) { s.client.SetDeepSeekBaseURL(base) }

// Polish 润色 Markdown 正文。图片链接在发送前替换为短占位符，返回后还原。
func (s *AIRewriteService) Polish(ctx context.Context, input PolishInput) (PolishResult, error) {
	body := strings.TrimSpace(input.Content)
	if body == "" {
		return PolishResult{}, fmt.Errorf("%w: content is required", ErrInvalidGeneration)
	}

	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultPolishMaxTokens
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return PolishResult{}, fmt.Errorf("读取系统设置失败: %w", err)
	}

	compressed, images := compressMarkdownImageURLs(truncateRunes(body, maxPolishContentRuneCount))
	userPrompt := buildPolishPrompt(compressed, input.Tone)
	logAIExchange("POLISH", "prompt", userPrompt)

	result, err := s.client.callWithSettings(ctx, settings, aiChatRequest{
		SystemPrompt: polishSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    maxTokens,
		Temperature:  defaultPolishTemperature,
	})
	if err != nil {
		return PolishResult{}, err
	}
	logAIExchange("POLISH", "response", result.Content)

	polished := strings.TrimSpace(images.Restore(stripCodeFence(result.Content)))
	if polished == "" {
		return PolishResult{}, ErrPolishEmpty
	}

	return PolishResult{
		Content:          polished,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

func buildPolishPrompt(body, tone string) string {
	var b strings.Builder
	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n\n", tone)
	}
	b.WriteString("Article (Markdown):\n")
	b.WriteString(body)
	return b.String()
}

func truncateRunes(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}
