package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/ashwinyue/edu-ai/internal/metrics"
	"github.com/ashwinyue/edu-ai/internal/model"
	"github.com/ashwinyue/edu-ai/internal/repository"
	"github.com/ashwinyue/edu-ai/internal/service/types"
)

const pdfMIME = "application/pdf"

// Options 上传和删除策略
type Options struct {
	MaxFileSize      int64
	MaxFilesPerUser  int64
	SignedURLTTL     time.Duration
	LimitAsError     bool // 达到上限时返回 LimitExceededError
	ConcurrentDelete bool // 存储删除和记录删除并发发出
}

// DeleteHook 文件删除后的回调，用于清理生成结果和缓存
type DeleteHook interface {
	OnFileDeleted(ctx context.Context, file *model.FileRecord)
}

// Service 文件服务
type Service struct {
	files   repository.FileRepository
	storage Storage
	opts    Options
	hooks   []DeleteHook
}

// NewService 创建文件服务
func NewService(files repository.FileRepository, storage Storage, opts Options) *Service {
	return &Service{
		files:   files,
		storage: storage,
		opts:    opts,
	}
}

// requestSlack multipart 边界和表单字段的余量
const requestSlack = 1 << 20

// MaxRequestBytes 单次上传请求体的上限，超出时不再读取
func (s *Service) MaxRequestBytes() int64 {
	return s.opts.MaxFileSize*s.opts.MaxFilesPerUser + requestSlack
}

// AddDeleteHook 注册删除回调
func (s *Service) AddDeleteHook(h DeleteHook) {
	s.hooks = append(s.hooks, h)
}

// UploadFile 待上传的文件
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadResult 上传结果
type UploadResult struct {
	Files        []*model.FileRecord `json:"files"`
	Skipped      []string            `json:"skipped,omitempty"`
	LimitReached bool                `json:"limitReached"`
}

// Upload 校验并依次上传文件
// 任一文件校验失败则整批拒绝，不写入任何对象；上传阶段失败时之前的文件已提交
func (s *Service) Upload(ctx context.Context, ownerID string, files []UploadFile) (*UploadResult, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	if len(files) == 0 {
		return nil, types.NewValidationError("invalid form data")
	}

	names := make([]string, len(files))
	for i := range files {
		name, err := s.validate(&files[i])
		if err != nil {
			metrics.UploadsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			return nil, err
		}
		names[i] = name
	}

	count, err := s.files.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	result := &UploadResult{Files: make([]*model.FileRecord, 0, len(files))}
	remaining := s.opts.MaxFilesPerUser - count
	if remaining <= 0 {
		metrics.UploadsTotal.WithLabelValues(metrics.ResultLimitReached).Add(float64(len(files)))
		if s.opts.LimitAsError {
			return nil, &types.LimitExceededError{Limit: s.opts.MaxFilesPerUser}
		}
		log.Printf("[upload] owner=%s file limit %d reached, nothing uploaded", ownerID, s.opts.MaxFilesPerUser)
		result.LimitReached = true
		result.Skipped = names
		return result, nil
	}

	for i := range files {
		if int64(i) >= remaining {
			result.LimitReached = true
			result.Skipped = append(result.Skipped, names[i])
			metrics.UploadsTotal.WithLabelValues(metrics.ResultLimitReached).Inc()
			continue
		}

		rec, err := s.uploadOne(ctx, ownerID, names[i], &files[i])
		if err != nil {
			metrics.UploadsTotal.WithLabelValues(metrics.ResultError).Inc()
			return result, err
		}
		metrics.UploadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		metrics.UploadBytes.Observe(float64(files[i].Size))
		result.Files = append(result.Files, rec)
	}

	return result, nil
}

// validate 校验文件名、大小和类型，返回清理后的文件名
func (s *Service) validate(f *UploadFile) (string, error) {
	name := sanitizeName(f.Name)
	if name == "" {
		return "", types.NewValidationError("invalid file name %q", f.Name)
	}
	if f.Size > s.opts.MaxFileSize {
		return "", types.NewValidationError("file %s is larger than %s", name, humanize.IBytes(uint64(s.opts.MaxFileSize)))
	}
	if f.Size == 0 {
		return "", types.NewValidationError("file %s is empty", name)
	}

	r, err := f.Open()
	if err != nil {
		return "", types.NewValidationError("failed to read file %s", name)
	}
	defer r.Close()

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", types.NewValidationError("failed to read file %s", name)
	}
	if !mt.Is(pdfMIME) {
		return "", types.NewValidationError("file %s is not a PDF (%s)", name, mt.String())
	}
	return name, nil
}

// uploadOne 写入对象、生成签名地址并保存记录
func (s *Service) uploadOne(ctx context.Context, ownerID, name string, f *UploadFile) (*model.FileRecord, error) {
	key := model.ObjectKey(ownerID, name)

	// 同名对象已存在时不能在失败时回滚删除，否则会破坏旧记录
	_, lookupErr := s.files.GetByOwnerAndName(ctx, ownerID, name)
	existed := lookupErr == nil

	r, err := f.Open()
	if err != nil {
		return nil, types.NewUpstreamError("upload", fmt.Sprintf("failed to upload file %s", name), err)
	}
	defer r.Close()

	if err := s.storage.Upload(ctx, key, r, f.Size, pdfMIME); err != nil {
		return nil, types.NewUpstreamError("storage.upload", fmt.Sprintf("failed to upload file %s", name), err)
	}

	signedURL, err := s.storage.SignedURL(ctx, key, s.opts.SignedURLTTL)
	if err != nil {
		s.compensate(ctx, key, existed)
		return nil, types.NewUpstreamError("storage.sign", fmt.Sprintf("failed to create signed url for %s", name), err)
	}

	rec := &model.FileRecord{
		OwnerID:    ownerID,
		FileName:   name,
		StorageKey: key,
		FileURL:    signedURL,
		FileSize:   humanize.Bytes(uint64(f.Size)),
	}
	if err := s.files.Create(ctx, rec); err != nil {
		s.compensate(ctx, key, existed)
		return nil, fmt.Errorf("failed to save file record %s: %w", name, err)
	}

	log.Printf("[upload] owner=%s file=%s id=%s size=%s", ownerID, name, rec.ID, rec.FileSize)
	return rec, nil
}

// compensate 回滚刚写入的对象
func (s *Service) compensate(ctx context.Context, key string, existed bool) {
	if existed {
		return
	}
	if err := s.storage.Remove(ctx, key); err != nil {
		log.Printf("reconcile: failed to remove orphan object %s: %v", key, err)
	}
}

// List 列出用户的文件
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.FileRecord, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	files, err := s.files.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if files == nil {
		files = []*model.FileRecord{}
	}
	return files, nil
}

// Get 获取用户的单个文件
func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.FileRecord, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	rec, err := s.files.GetByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return rec, nil
}

// GetByName 按文件名获取用户的文件，仅作为 ID 的辅助索引
func (s *Service) GetByName(ctx context.Context, ownerID, fileName string) (*model.FileRecord, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	rec, err := s.files.GetByOwnerAndName(ctx, ownerID, fileName)
	if err != nil {
		return nil, lookupError(err)
	}
	return rec, nil
}

// DeleteByID 按 ID 删除文件
func (s *Service) DeleteByID(ctx context.Context, ownerID, id string) (*model.FileRecord, error) {
	rec, err := s.Get(ctx, ownerID, id)
	if err != nil {
		countDeletion(err)
		return nil, err
	}
	return rec, s.delete(ctx, rec)
}

// DeleteByName 按文件名删除文件
func (s *Service) DeleteByName(ctx context.Context, ownerID, fileName string) (*model.FileRecord, error) {
	rec, err := s.GetByName(ctx, ownerID, fileName)
	if err != nil {
		countDeletion(err)
		return nil, err
	}
	return rec, s.delete(ctx, rec)
}

// delete 删除对象和记录
// 顺序模式下存储删除失败时保留记录；并发模式下只根据存储删除结果判断成败
func (s *Service) delete(ctx context.Context, rec *model.FileRecord) error {
	shared, err := s.keyShared(ctx, rec)
	if err != nil {
		metrics.DeletionsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	var storageErr error
	switch {
	case shared:
		// 同名的其他记录仍引用该对象，只删除记录
		s.deleteRecord(ctx, rec)
	case s.opts.ConcurrentDelete:
		var g errgroup.Group
		g.Go(func() error {
			return s.storage.Remove(ctx, rec.StorageKey)
		})
		g.Go(func() error {
			s.deleteRecord(ctx, rec)
			return nil
		})
		storageErr = g.Wait()
	default:
		storageErr = s.storage.Remove(ctx, rec.StorageKey)
		if storageErr == nil {
			s.deleteRecord(ctx, rec)
		}
	}

	if storageErr != nil {
		metrics.DeletionsTotal.WithLabelValues(metrics.ResultError).Inc()
		return types.NewUpstreamError("storage.remove",
			fmt.Sprintf("failed to delete file from storage: %s", rec.FileName), storageErr)
	}

	for _, h := range s.hooks {
		h.OnFileDeleted(ctx, rec)
	}
	metrics.DeletionsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Printf("[delete] owner=%s file=%s id=%s", rec.OwnerID, rec.FileName, rec.ID)
	return nil
}

// keyShared 判断用户的其他记录是否引用同一个对象
func (s *Service) keyShared(ctx context.Context, rec *model.FileRecord) (bool, error) {
	recs, err := s.files.ListByOwner(ctx, rec.OwnerID)
	if err != nil {
		return false, fmt.Errorf("failed to list files: %w", err)
	}
	for _, other := range recs {
		if other.ID != rec.ID && other.StorageKey == rec.StorageKey {
			return true, nil
		}
	}
	return false, nil
}

// deleteRecord 删除记录，失败只记录日志供对账
func (s *Service) deleteRecord(ctx context.Context, rec *model.FileRecord) {
	n, err := s.files.DeleteByOwnerAndID(ctx, rec.OwnerID, rec.ID)
	if err != nil {
		log.Printf("reconcile: object %s removed but record %s not deleted: %v", rec.StorageKey, rec.ID, err)
		return
	}
	if n == 0 {
		log.Printf("reconcile: record %s already gone", rec.ID)
	}
}

// lookupError 统一未找到错误，不区分不存在和无权访问
func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return types.ErrNotFound
	}
	return fmt.Errorf("failed to find file: %w", err)
}

func countDeletion(err error) {
	if errors.Is(err, types.ErrNotFound) {
		metrics.DeletionsTotal.WithLabelValues(metrics.ResultNotFound).Inc()
		return
	}
	metrics.DeletionsTotal.WithLabelValues(metrics.ResultError).Inc()
}

// sanitizeName 去掉客户端传入的路径部分
func sanitizeName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
