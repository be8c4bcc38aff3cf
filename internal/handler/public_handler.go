package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidewater/internal/service"
	"github.com/tidewater/internal/site"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = newContentSanitizer()
)

// renderMarkdown 将文章 Markdown 渲染为经过清洗的 HTML。
func renderMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(expandVideoLinks(markdown)), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

type publicPost struct {
	site.BlogPost
	HTML string `json:"html,omitempty"`
}

// GetPublishedPage 返回页面已发布的内容，未保存过时返回默认内容。
func (a *API) GetPublishedPage(c *gin.Context) {
	page, err := a.pages.Published(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// ListEScooters 返回滑板车列表，available=true 时只返回可租车型。
func (a *API) ListEScooters(c *gin.Context) {
	onlyAvailable, _ := strconv.ParseBool(c.Query("available"))
	scooters, err := a.collections.EScooters(c.Request.Context(), onlyAvailable)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"escooters": scooters})
}

// ListPublishedPosts 返回已发布文章，支持 q 关键字搜索。
func (a *API) ListPublishedPosts(c *gin.Context) {
	posts, err := a.collections.PublishedPosts(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPublishedPost 返回单篇已发布文章及渲染后的 HTML。
func (a *API) GetPublishedPost(c *gin.Context) {
	post, err := a.collections.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServiceError(c, err, nil)
		return
	}
	rendered, err := renderMarkdown(post.Content)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": publicPost{BlogPost: post, HTML: rendered}})
}

// SubmitBooking 接收前台预订表单。
func (a *API) SubmitBooking(c *gin.Context) {
	var payload service.LeadInput
	if !bindJSON(c, &payload, "请填写完整的预订信息") {
		return
	}
	lead, err := a.bookings.Submit(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "预订信息已提交，我们会尽快联系您",
		"id":      lead.ID,
		"status":  lead.Status,
	})
}

// ListLeads 返回后台的预订线索。
func (a *API) ListLeads(c *gin.Context) {
	leads, err := a.bookings.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}
