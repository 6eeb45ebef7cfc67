package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationKind 生成类型
type GenerationKind string

const (
	GenerationKindSummary GenerationKind = "summary"             // 摘要
	GenerationKindQA      GenerationKind = "question-and-answer" // 问答
)

// Valid 是否为支持的生成类型
func (k GenerationKind) Valid() bool {
	return k == GenerationKindSummary || k == GenerationKindQA
}

// Generation 持久化的生成结果（generation.persist 开启时写入）
type Generation struct {
	ID        string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	FileID    string         `json:"fileId" gorm:"type:varchar(36);index;not null"`
	File      *FileRecord    `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
	OwnerID   string         `json:"ownerId" gorm:"type:varchar(255);index;not null"`
	Kind      GenerationKind `json:"kind" gorm:"type:varchar(32);not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (Generation) TableName() string {
	return "generations"
}
