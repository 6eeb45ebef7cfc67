package repository

import (
	"context"

	"github.com/ashwinyue/edu-ai/internal/model"
	"gorm.io/gorm"
)

// generationRepositoryImpl 生成结果仓库
type generationRepositoryImpl struct {
	db *gorm.DB
}

// NewGenerationRepository 创建生成结果仓库
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepositoryImpl{db: db}
}

// Create 保存生成结果
func (r *generationRepositoryImpl) Create(ctx context.Context, gen *model.Generation) error {
	return r.db.WithContext(ctx).Create(gen).Error
}

// ListByFile 列出文件的生成历史
func (r *generationRepositoryImpl) ListByFile(ctx context.Context, ownerID, fileID string) ([]*model.Generation, error) {
	var gens []*model.Generation
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND file_id = ?", ownerID, fileID).
		Order("created_at DESC").
		Find(&gens).Error
	return gens, err
}

// DeleteByFile 删除文件的所有生成结果
func (r *generationRepositoryImpl) DeleteByFile(ctx context.Context, fileID string) error {
	return r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&model.Generation{}).Error
}
