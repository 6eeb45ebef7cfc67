package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	ecomodel "github.com/cloudwego/eino/components/model"

	"github.com/ashwinyue/edu-ai/internal/config"
	"github.com/ashwinyue/edu-ai/internal/service/file"
)

// 各提供方的默认地址
var providerBaseURLs = map[string]string{
	"openai":     "https://api.openai.com/v1",
	"openrouter": "https://openrouter.ai/api/v1",
	"deepseek":   "https://api.deepseek.com/v1",
}

// newChatModel 创建 ChatModel
// 所有提供方都走 OpenAI 兼容接口，只有默认地址不同
func newChatModel(ctx context.Context, cfg *config.AIConfig) (ecomodel.BaseChatModel, error) {
	defaultURL, ok := providerBaseURLs[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", cfg.Provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})
}

// newStorage 根据配置创建对象存储
// 本地存储额外返回 *file.LocalStorage，用于挂载签名下载路由
func newStorage(ctx context.Context, cfg *config.StorageConfig) (file.Storage, *file.LocalStorage, error) {
	switch file.StorageType(cfg.Type) {
	case file.StorageTypeLocal:
		local, err := file.NewLocalStorage(cfg.Local.BasePath, cfg.Local.PublicURL, file.NewURLSigner(cfg.Local.SigningKey))
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	case file.StorageTypeMinIO:
		s, err := file.NewMinIOStorage(ctx, &file.MinIOConfig{
			Endpoint:   cfg.MinIO.Endpoint,
			AccessKey:  cfg.MinIO.AccessKey,
			SecretKey:  cfg.MinIO.SecretKey,
			BucketName: cfg.MinIO.Bucket,
			UseSSL:     cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case file.StorageTypeS3:
		s, err := file.NewS3Storage(ctx, &file.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			BucketName:      cfg.S3.Bucket,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		log.Printf("Warning: unknown storage type %q", cfg.Type)
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
