package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/content"
	"github.com/tidewater/internal/service"
	"github.com/tidewater/internal/storage"
	"github.com/tidewater/internal/store"
)

const maxJSONBody = 4 << 20

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// readBody 读取原始 JSON 请求体，交给面板按分区解析。
func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无法读取请求内容")
		return nil, false
	}
	return raw, true
}

// errorStatus 将业务错误映射为 HTTP 状态码与提示信息。
func errorStatus(err error) (int, string) {
	var verrs validation.Errors
	var verr validation.Error
	switch {
	case errors.As(err, &verrs), errors.As(err, &verr):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, content.ErrMinimumEntries), errors.Is(err, content.ErrInvalidPayload):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, content.ErrBusy):
		return http.StatusConflict, "正在保存，请稍候"
	case errors.Is(err, content.ErrNotReady):
		return http.StatusConflict, "内容尚未加载完成"
	case errors.Is(err, content.ErrEditorClosed):
		return http.StatusConflict, "编辑器未打开"
	case errors.Is(err, content.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, "删除前需要确认"
	case errors.Is(err, content.ErrUnknownSection):
		return http.StatusNotFound, "分区不存在"
	case errors.Is(err, service.ErrPageNotFound):
		return http.StatusNotFound, "页面不存在"
	case errors.Is(err, service.ErrCollectionNotFound):
		return http.StatusNotFound, "集合不存在"
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "内容不存在"
	case errors.Is(err, storage.ErrNotImage):
		return http.StatusUnsupportedMediaType, "只允许上传图片文件"
	case errors.Is(err, storage.ErrInvalidPath):
		return http.StatusBadRequest, "文件路径不合法"
	case errors.Is(err, service.ErrAIAPIKeyMissing):
		return http.StatusBadRequest, "请先在系统设置中填写 AI API Key"
	case errors.Is(err, service.ErrInvalidGeneration), errors.Is(err, service.ErrPolishEmpty):
		return http.StatusBadGateway, "AI 返回的内容无法使用，请重试"
	default:
		return http.StatusInternalServerError, "操作失败，请稍后重试"
	}
}

// respondServiceError 输出错误响应，extra 中的字段会一并返回。
func respondServiceError(c *gin.Context, err error, extra gin.H) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		c.Error(err)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	body := gin.H{"error": message}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body["fields"] = verrs
	}
	for key, value := range extra {
		body[key] = value
	}
	c.JSON(status, body)
}

// draftKey 返回当前后台会话的草稿键。
func draftKey(c *gin.Context) string {
	key, _ := sessions.Default(c).Get(sessionDraftKey).(string)
	return key
}
