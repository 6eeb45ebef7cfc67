// Package generate 根据用户上传的 PDF 调用远程模型生成摘要或问答
package generate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	ecomodel "github.com/cloudwego/eino/components/model"

	"github.com/ashwinyue/edu-ai/internal/metrics"
	"github.com/ashwinyue/edu-ai/internal/model"
	"github.com/ashwinyue/edu-ai/internal/repository"
	"github.com/ashwinyue/edu-ai/internal/service/file"
	"github.com/ashwinyue/edu-ai/internal/service/types"
)

// Downloader 读取对象内容
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Options 生成配置
type Options struct {
	Persist bool // 是否保存生成结果
}

// Result 一次生成的结果
type Result struct {
	FileID   string               `json:"fileId"`
	FileName string               `json:"fileName"`
	Kind     model.GenerationKind `json:"kind"`
	Content  string               `json:"content"`
	Cached   bool                 `json:"cached"`
}

// Service 生成服务
type Service struct {
	files       repository.FileRepository
	generations repository.GenerationRepository
	storage     Downloader
	chatModel   ecomodel.BaseChatModel
	extractor   Extractor
	cache       ResultCache
	opts        Options
}

// NewService 创建生成服务
// generations 和 cache 可以为 nil
func NewService(
	files repository.FileRepository,
	generations repository.GenerationRepository,
	storage Downloader,
	chatModel ecomodel.BaseChatModel,
	extractor Extractor,
	cache ResultCache,
	opts Options,
) *Service {
	return &Service{
		files:       files,
		generations: generations,
		storage:     storage,
		chatModel:   chatModel,
		extractor:   extractor,
		cache:       cache,
		opts:        opts,
	}
}

// Generate 按文件 ID 生成
func (s *Service) Generate(ctx context.Context, ownerID, fileID string, kind model.GenerationKind) (*Result, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	rec, err := s.files.GetByOwnerAndID(ctx, ownerID, fileID)
	if err != nil {
		return nil, s.lookupError(kind, err)
	}
	return s.generate(ctx, rec, kind)
}

// GenerateByName 按文件名生成，同名文件取最新一条
func (s *Service) GenerateByName(ctx context.Context, ownerID, fileName string, kind model.GenerationKind) (*Result, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	rec, err := s.files.GetByOwnerAndName(ctx, ownerID, fileName)
	if err != nil {
		return nil, s.lookupError(kind, err)
	}
	return s.generate(ctx, rec, kind)
}

func (s *Service) lookupError(kind model.GenerationKind, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		metrics.GenerationsTotal.WithLabelValues(string(kind), metrics.ResultNotFound).Inc()
		return types.ErrNotFound
	}
	metrics.GenerationsTotal.WithLabelValues(string(kind), metrics.ResultError).Inc()
	return fmt.Errorf("failed to find file: %w", err)
}

func (s *Service) generate(ctx context.Context, rec *model.FileRecord, kind model.GenerationKind) (*Result, error) {
	if !kind.Valid() {
		return nil, types.NewValidationError("unknown generation kind: %s", kind)
	}

	result := &Result{FileID: rec.ID, FileName: rec.FileName, Kind: kind}

	if s.cache != nil {
		content, ok, err := s.cache.Get(ctx, rec.ID, kind)
		if err != nil {
			log.Printf("[generate] Warning: cache read failed: %v", err)
		}
		if ok {
			metrics.GenerationsTotal.WithLabelValues(string(kind), metrics.ResultCached).Inc()
			result.Content = content
			result.Cached = true
			return result, nil
		}
	}

	content, err := s.run(ctx, rec, kind)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(string(kind), metrics.ResultError).Inc()
		return nil, err
	}
	metrics.GenerationsTotal.WithLabelValues(string(kind), metrics.ResultSuccess).Inc()
	result.Content = content

	if s.cache != nil {
		if err := s.cache.Set(ctx, rec.ID, kind, content); err != nil {
			log.Printf("[generate] Warning: cache write failed: %v", err)
		}
	}
	if s.opts.Persist && s.generations != nil {
		gen := &model.Generation{FileID: rec.ID, OwnerID: rec.OwnerID, Kind: kind, Content: content}
		if err := s.generations.Create(ctx, gen); err != nil {
			log.Printf("[generate] Warning: failed to save generation for %s: %v", rec.ID, err)
		}
	}
	return result, nil
}

// run 下载、提取文本并调用模型
func (s *Service) run(ctx context.Context, rec *model.FileRecord, kind model.GenerationKind) (string, error) {
	data, err := s.storage.Download(ctx, rec.StorageKey)
	if err != nil {
		return "", types.NewUpstreamError("storage.download", "failed to download the file", err)
	}
	if len(data) == 0 {
		return "", types.NewUpstreamError("storage.download", "invalid file", nil)
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		return "", &types.ValidationError{
			Message: fmt.Sprintf("failed to read text from %s", rec.FileName),
			Status:  http.StatusUnprocessableEntity,
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", &types.ValidationError{
			Message: fmt.Sprintf("no extractable text in %s", rec.FileName),
			Status:  http.StatusUnprocessableEntity,
		}
	}

	messages, err := buildMessages(kind, rec.FileName, text)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := s.chatModel.Generate(ctx, messages)
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", modelError(err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", types.NewUpstreamError("model.generate", "empty result", nil)
	}

	log.Printf("[generate] owner=%s file=%s kind=%s input=%d output=%d",
		rec.OwnerID, rec.ID, kind, len(text), len(resp.Content))
	return resp.Content, nil
}

// History 返回文件已保存的生成结果，未开启保存时为空
func (s *Service) History(ctx context.Context, ownerID, fileID string) ([]*model.Generation, error) {
	if ownerID == "" {
		return nil, types.ErrUnauthenticated
	}
	if _, err := s.files.GetByOwnerAndID(ctx, ownerID, fileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	if s.generations == nil {
		return []*model.Generation{}, nil
	}
	gens, err := s.generations.ListByFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	if gens == nil {
		gens = []*model.Generation{}
	}
	return gens, nil
}

// OnFileDeleted 清理已删除文件的缓存和生成记录
func (s *Service) OnFileDeleted(ctx context.Context, rec *model.FileRecord) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, rec.ID); err != nil {
			log.Printf("[generate] Warning: %v", err)
		}
	}
	if s.generations != nil {
		if err := s.generations.DeleteByFile(ctx, rec.ID); err != nil {
			log.Printf("reconcile: generations of %s not deleted: %v", rec.ID, err)
		}
	}
}

var _ file.DeleteHook = (*Service)(nil)
