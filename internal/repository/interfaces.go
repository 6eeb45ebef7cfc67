// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"context"
	"errors"

	"github.com/ashwinyue/edu-ai/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// ========== FileRepository 接口 ==========

// FileRepository 文件记录数据访问接口
// 所有读取和删除操作都必须同时按 ownerID 过滤
type FileRepository interface {
	Create(ctx context.Context, file *model.FileRecord) error
	GetByOwnerAndID(ctx context.Context, ownerID, id string) (*model.FileRecord, error)
	// GetByOwnerAndName 同名文件存在多条时返回最新一条
	GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (*model.FileRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.FileRecord, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	// DeleteByOwnerAndID 返回删除的行数
	DeleteByOwnerAndID(ctx context.Context, ownerID, id string) (int64, error)
}

// ========== GenerationRepository 接口 ==========

// GenerationRepository 生成结果数据访问接口
type GenerationRepository interface {
	Create(ctx context.Context, gen *model.Generation) error
	ListByFile(ctx context.Context, ownerID, fileID string) ([]*model.Generation, error)
	DeleteByFile(ctx context.Context, fileID string) error
}

// 确保实现了接口
var (
	_ FileRepository       = (*fileRepositoryImpl)(nil)
	_ GenerationRepository = (*generationRepositoryImpl)(nil)
)
