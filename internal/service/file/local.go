package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxLocalTTL 本地签名 URL 的最长有效期
const maxLocalTTL = 5 * 365 * 24 * time.Hour

// LocalStorage 本地文件存储
type LocalStorage struct {
	basePath  string // 基础路径
	publicURL string // 签名下载地址前缀
	signer    *URLSigner
}

// NewLocalStorage 创建本地存储服务
func NewLocalStorage(basePath, publicURL string, signer *URLSigner) (*LocalStorage, error) {
	// 确保基础路径存在
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	return &LocalStorage{
		basePath:  abs,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		signer:    signer,
	}, nil
}

// Upload 写入文件，先写临时文件再重命名，保证覆盖是原子的
func (s *LocalStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	// 创建目录
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// 写入内容
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}

// Download 读取文件内容
func (s *LocalStorage) Download(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Open 打开文件用于流式下载
func (s *LocalStorage) Open(key string) (*os.File, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return f, err
}

// Remove 删除文件
func (s *LocalStorage) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		fullPath, err := s.resolve(key)
		if err != nil {
			return err
		}
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}

// SignedURL 生成带 JWT 令牌的下载地址
func (s *LocalStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token, err := s.signer.Sign(key, clampTTL(ttl, maxLocalTTL))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s?token=%s", s.publicURL, escapeKey(key), url.QueryEscape(token)), nil
}

// Verify 校验下载令牌
func (s *LocalStorage) Verify(key, token string) error {
	return s.signer.Verify(key, token)
}

// resolve 将 key 映射到 basePath 下的路径，拒绝越界访问
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.basePath, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return fullPath, nil
}

// escapeKey 逐段转义 key，保留分隔符
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
