package service

import (
	"context"
	"fmt"
	"log"

	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/edu-ai/internal/config"
	"github.com/ashwinyue/edu-ai/internal/repository"
	"github.com/ashwinyue/edu-ai/internal/service/auth"
	"github.com/ashwinyue/edu-ai/internal/service/file"
	"github.com/ashwinyue/edu-ai/internal/service/generate"
)

// Services 服务集合
type Services struct {
	Files    *file.Service
	Generate *generate.Service
	Auth     *auth.Service

	// LocalStorage 仅在本地存储时非空，用于签名下载
	LocalStorage *file.LocalStorage

	Config *config.Config
}

// NewServices 创建所有服务
// redisClient 为 nil 时不启用生成结果缓存
func NewServices(ctx context.Context, repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	storage, local, err := newStorage(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	log.Printf("Storage initialized with type: %s", cfg.Storage.Type)

	chatModel, err := newChatModel(ctx, &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return NewServicesWith(ctx, repo, cfg, storage, local, chatModel, redisClient)
}

// NewServicesWith 使用已创建的存储和模型组装服务
func NewServicesWith(
	ctx context.Context,
	repo *repository.Repositories,
	cfg *config.Config,
	storage file.Storage,
	local *file.LocalStorage,
	chatModel ecomodel.BaseChatModel,
	redisClient *redis.Client,
) (*Services, error) {
	extractor, err := generate.NewPDFExtractor(ctx, cfg.Generation.MaxInputChars)
	if err != nil {
		return nil, err
	}

	var cache generate.ResultCache
	if redisClient != nil && cfg.Generation.CacheTTL > 0 {
		cache = generate.NewRedisCache(redisClient, cfg.Generation.CacheTTL)
		log.Printf("Generation cache enabled (ttl=%s)", cfg.Generation.CacheTTL)
	}

	files := file.NewService(repo.File, storage, file.Options{
		MaxFileSize:      cfg.Upload.MaxFileSize,
		MaxFilesPerUser:  cfg.Upload.MaxFilesPerUser,
		SignedURLTTL:     cfg.Upload.SignedURLTTL,
		LimitAsError:     cfg.Upload.LimitAsError,
		ConcurrentDelete: cfg.Deletion.Concurrent,
	})

	gen := generate.NewService(repo.File, repo.Generation, storage, chatModel, extractor, cache, generate.Options{
		Persist: cfg.Generation.Persist,
	})
	files.AddDeleteHook(gen)

	return &Services{
		Files:        files,
		Generate:     gen,
		Auth:         auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		LocalStorage: local,
		Config:       cfg,
	}, nil
}
