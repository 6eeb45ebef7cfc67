// Package testutil 提供测试辅助工具
package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashwinyue/edu-ai/internal/model"
	"github.com/ashwinyue/edu-ai/internal/repository"
)

// PDF 返回以 PDF 魔数开头、总长度为 size 的字节
func PDF(size int) []byte {
	header := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	if size < len(header) {
		size = len(header)
	}
	buf := make([]byte, size)
	copy(buf, header)
	for i := len(header); i < size; i++ {
		buf[i] = ' '
	}
	return buf
}

// ========== MemoryFileRepository ==========

// MemoryFileRepository 内存版文件记录仓库
type MemoryFileRepository struct {
	mu      sync.Mutex
	records []*model.FileRecord
	clock   time.Time

	CreateErr error
	CountErr  error
	DeleteErr error
}

// NewMemoryFileRepository 创建内存仓库
func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Seed 直接写入记录，绕过注入的错误
func (r *MemoryFileRepository) Seed(recs ...*model.FileRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.insert(rec)
	}
}

func (r *MemoryFileRepository) insert(rec *model.FileRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		// 单调递增，保证按时间排序稳定
		r.clock = r.clock.Add(time.Second)
		rec.CreatedAt = r.clock
	}
	cp := *rec
	r.records = append(r.records, &cp)
}

func (r *MemoryFileRepository) Create(ctx context.Context, rec *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.insert(rec)
	rec.CreatedAt = r.records[len(r.records)-1].CreatedAt
	return nil
}

func (r *MemoryFileRepository) GetByOwnerAndID(ctx context.Context, ownerID, id string) (*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.OwnerID == ownerID && rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemoryFileRepository) GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *model.FileRecord
	for _, rec := range r.records {
		if rec.OwnerID == ownerID && rec.FileName == fileName {
			if found == nil || rec.CreatedAt.After(found.CreatedAt) {
				found = rec
			}
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *MemoryFileRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.FileRecord
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryFileRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if r.CountErr != nil {
		return 0, r.CountErr
	}
	recs, _ := r.ListByOwner(ctx, ownerID)
	return int64(len(recs)), nil
}

func (r *MemoryFileRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DeleteErr != nil {
		return 0, r.DeleteErr
	}
	for i, rec := range r.records {
		if rec.OwnerID == ownerID && rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// Len 返回记录总数
func (r *MemoryFileRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// ========== MemoryGenerationRepository ==========

// MemoryGenerationRepository 内存版生成结果仓库
type MemoryGenerationRepository struct {
	mu   sync.Mutex
	gens []*model.Generation
}

// NewMemoryGenerationRepository 创建内存仓库
func NewMemoryGenerationRepository() *MemoryGenerationRepository {
	return &MemoryGenerationRepository{}
}

func (r *MemoryGenerationRepository) Create(ctx context.Context, gen *model.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen.ID == "" {
		gen.ID = uuid.New().String()
	}
	cp := *gen
	r.gens = append(r.gens, &cp)
	return nil
}

func (r *MemoryGenerationRepository) ListByFile(ctx context.Context, ownerID, fileID string) ([]*model.Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Generation
	for _, g := range r.gens {
		if g.OwnerID == ownerID && g.FileID == fileID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryGenerationRepository) DeleteByFile(ctx context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.gens[:0]
	for _, g := range r.gens {
		if g.FileID != fileID {
			kept = append(kept, g)
		}
	}
	r.gens = kept
	return nil
}

// ========== MemoryStorage ==========

// ErrMissingObject 内存存储中对象不存在
var ErrMissingObject = errors.New("object not found")

// MemoryStorage 内存版对象存储
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	Uploads int

	UploadErr   error
	DownloadErr error
	RemoveErr   error
	SignErr     error
}

// NewMemoryStorage 创建内存存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return s.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	s.Uploads++
	return nil
}

func (s *MemoryStorage) Download(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DownloadErr != nil {
		return nil, s.DownloadErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, ErrMissingObject
	}
	return data, nil
}

func (s *MemoryStorage) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

func (s *MemoryStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.SignErr != nil {
		return "", s.SignErr
	}
	return fmt.Sprintf("https://storage.test/%s?ttl=%d", key, int64(ttl.Seconds())), nil
}

// Put 直接写入对象
func (s *MemoryStorage) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

// Has 判断对象是否存在
func (s *MemoryStorage) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}
