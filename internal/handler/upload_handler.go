package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UploadImage 处理图片上传请求。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "无法读取上传的图片")
		return
	}
	defer src.Close()

	image, err := a.uploader.Upload(c.Request.Context(), src, file.Filename)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}

	log.Info().Str("path", image.Path).Int64("size", image.Size).Msg("image uploaded")
	c.JSON(http.StatusCreated, gin.H{
		"message": "上传成功",
		"image":   image,
	})
}
