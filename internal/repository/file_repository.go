package repository

import (
	"context"
	"errors"

	"github.com/ashwinyue/edu-ai/internal/model"
	"gorm.io/gorm"
)

// fileRepositoryImpl 文件仓库
type fileRepositoryImpl struct {
	db *gorm.DB
}

// NewFileRepository 创建文件仓库
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepositoryImpl{db: db}
}

// Create 创建文件记录
func (r *fileRepositoryImpl) Create(ctx context.Context, file *model.FileRecord) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// GetByOwnerAndID 根据所有者和ID获取文件
func (r *fileRepositoryImpl) GetByOwnerAndID(ctx context.Context, ownerID, id string) (*model.FileRecord, error) {
	var file model.FileRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

// GetByOwnerAndName 根据所有者和文件名获取最新的文件
func (r *fileRepositoryImpl) GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (*model.FileRecord, error) {
	var file model.FileRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND file_name = ?", ownerID, fileName).
		Order("created_at DESC").
		First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

// ListByOwner 列出用户的所有文件
func (r *fileRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]*model.FileRecord, error) {
	var files []*model.FileRecord
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// CountByOwner 统计用户的文件数
func (r *fileRepositoryImpl) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FileRecord{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// DeleteByOwnerAndID 删除文件记录
func (r *fileRepositoryImpl) DeleteByOwnerAndID(ctx context.Context, ownerID, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model.FileRecord{})
	return result.RowsAffected, result.Error
}

// translate 将 gorm 的未找到错误转换为 ErrNotFound
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
