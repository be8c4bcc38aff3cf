package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// ErrNotImage 表示上传内容不是图片。
var ErrNotImage = errors.New("file is not an image")

// 嗅探 MIME 时读取的字节数
const sniffLength = 3072

// UploadedImage 是上传成功后的图片信息。
type UploadedImage struct {
	URL    string `json:"url"`
	Path   string `json:"path"`
	MIME   string `json:"mime"`
	Size   int64  `json:"size"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ImageUploader 在上传前检查内容是否为图片，不限制大小也不压缩。
type ImageUploader struct {
	storage ObjectStorage
	now     func() time.Time
}

// NewImageUploader 构造 ImageUploader。
func NewImageUploader(st ObjectStorage) *ImageUploader {
	return &ImageUploader{storage: st, now: time.Now}
}

// Upload 嗅探 r 的类型，非图片返回 ErrNotImage 且不会调用存储。
func (u *ImageUploader) Upload(ctx context.Context, r io.Reader, originalName string) (UploadedImage, error) {
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return UploadedImage{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return UploadedImage{}, fmt.Errorf("%w: %s", ErrNotImage, mtype.String())
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(originalName))
	}
	name := fmt.Sprintf("%s-%s%s", u.now().Format("20060102"), uuid.NewString(), ext)

	// 边上传边解析尺寸，避免把整个文件读入内存
	pr, pw := io.Pipe()
	type dims struct{ w, h int }
	sized := make(chan dims, 1)
	go func() {
		cfg, _, err := image.DecodeConfig(pr)
		_, _ = io.Copy(io.Discard, pr)
		if err != nil {
			sized <- dims{}
			return
		}
		sized <- dims{cfg.Width, cfg.Height}
	}()

	body := io.TeeReader(io.MultiReader(bytes.NewReader(head), r), pw)
	handle, err := u.storage.Upload(ctx, body, name)
	_ = pw.CloseWithError(err)
	d := <-sized
	if err != nil {
		return UploadedImage{}, err
	}

	return UploadedImage{
		URL:    u.storage.PublicURL(handle),
		Path:   handle.Path,
		MIME:   mtype.String(),
		Size:   handle.Size,
		Width:  d.w,
		Height: d.h,
	}, nil
}
