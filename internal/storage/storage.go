// Package storage 提供上传文件的对象存储。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Handle 标识一个已上传的对象。
type Handle struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ObjectStorage 是上传文件的存储后端。
type ObjectStorage interface {
	Upload(ctx context.Context, r io.Reader, destinationPath string) (Handle, error)
	PublicURL(h Handle) string
}

// ErrInvalidPath 表示目标路径试图跳出存储根目录。
var ErrInvalidPath = errors.New("invalid destination path")

// LocalStorage 将对象写入本地目录，并通过静态路由对外提供。
type LocalStorage struct {
	root    string
	urlPath string
}

// NewLocalStorage 构造 LocalStorage。
func NewLocalStorage(root, urlPath string) *LocalStorage {
	if urlPath == "" {
		urlPath = "/uploads"
	}
	return &LocalStorage{root: root, urlPath: "/" + strings.Trim(urlPath, "/")}
}

// Root 返回存储根目录。
func (s *LocalStorage) Root() string { return s.root }

// URLPath 返回对外访问前缀。
func (s *LocalStorage) URLPath() string { return s.urlPath }

// Upload 将 r 的内容写入 destinationPath。
func (s *LocalStorage) Upload(ctx context.Context, r io.Reader, destinationPath string) (Handle, error) {
	rel, err := cleanPath(destinationPath)
	if err != nil {
		return Handle{}, err
	}
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return Handle{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return Handle{}, fmt.Errorf("create %s: %w", rel, err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(full)
		return Handle{}, fmt.Errorf("write %s: %w", rel, errors.Join(copyErr, closeErr))
	}
	return Handle{Path: rel, Size: n}, nil
}

// PublicURL 返回对象的访问路径。
func (s *LocalStorage) PublicURL(h Handle) string {
	return path.Join(s.urlPath, h.Path)
}

func cleanPath(p string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.Contains(p, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}
