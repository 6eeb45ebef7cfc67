package file

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("object not found")

// Storage 对象存储网关接口
type Storage interface {
	// Upload 写入对象，同名 key 直接覆盖（upsert）
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Download 读取完整对象内容
	Download(ctx context.Context, key string) ([]byte, error)
	// Remove 删除一个或多个对象，对象不存在不算错误
	Remove(ctx context.Context, keys ...string) error
	// SignedURL 生成限时可读的签名 URL，超出后端上限的 ttl 会被截断
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeMinIO StorageType = "minio"
	StorageTypeS3    StorageType = "s3"
)

// maxPresignTTL SigV4 预签名 URL 的最长有效期
const maxPresignTTL = 7 * 24 * time.Hour

// clampTTL 将 ttl 限制在 (0, max] 区间
func clampTTL(ttl, max time.Duration) time.Duration {
	if ttl <= 0 || ttl > max {
		return max
	}
	return ttl
}
