package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileRecord 上传文件的元数据，写入后不再更新
type FileRecord struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	OwnerID    string    `json:"ownerId" gorm:"type:varchar(255);index;not null"`
	FileName   string    `json:"fileName" gorm:"type:varchar(1024);not null"`
	StorageKey string    `json:"-" gorm:"type:varchar(2048);not null"` // 对象存储中的 key
	FileURL    string    `json:"fileUrl" gorm:"type:text;not null"`    // 长期有效的签名 URL
	FileSize   string    `json:"fileSize" gorm:"type:varchar(32);not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeCreate GORM 钩子，创建前生成 UUID
func (f *FileRecord) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName 指定表名
func (FileRecord) TableName() string {
	return "files"
}

// ObjectKey 生成对象存储 key: {ownerID}/{fileName}
// 同一用户重复上传同名文件会覆盖原对象
func ObjectKey(ownerID, fileName string) string {
	return ownerID + "/" + fileName
}
