package generate

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/edu-ai/internal/model"
	"github.com/ashwinyue/edu-ai/internal/service/types"
	"github.com/ashwinyue/edu-ai/internal/testutil"
)

// ========== mockChatModel ==========

type mockChatModel struct {
	content  string
	err      error
	calls    int
	messages []*schema.Message
}

func (m *mockChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...ecomodel.Option) (*schema.Message, error) {
	m.calls++
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{Role: schema.Assistant, Content: m.content}, nil
}

func (m *mockChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...ecomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

// ========== mockExtractor ==========

type mockExtractor struct {
	text string
	err  error
}

func (e *mockExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return e.text, e.err
}

// ========== mockCache ==========

type mockCache struct {
	entries map[string]string
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (c *mockCache) Get(ctx context.Context, fileID string, kind model.GenerationKind) (string, bool, error) {
	v, ok := c.entries[cacheKey(fileID, kind)]
	return v, ok, nil
}

func (c *mockCache) Set(ctx context.Context, fileID string, kind model.GenerationKind, content string) error {
	c.entries[cacheKey(fileID, kind)] = content
	return nil
}

func (c *mockCache) Delete(ctx context.Context, fileID string) error {
	c.deleted = append(c.deleted, fileID)
	return nil
}

// ========== fixture ==========

type fixture struct {
	svc   *Service
	files *testutil.MemoryFileRepository
	gens  *testutil.MemoryGenerationRepository
	store *testutil.MemoryStorage
	chat  *mockChatModel
	ext   *mockExtractor
	rec   *model.FileRecord
}

func newFixture(t *testing.T, cache ResultCache, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		files: testutil.NewMemoryFileRepository(),
		gens:  testutil.NewMemoryGenerationRepository(),
		store: testutil.NewMemoryStorage(),
		chat:  &mockChatModel{content: "## Overview\nA short summary."},
		ext:   &mockExtractor{text: "Photosynthesis converts light into chemical energy."},
	}
	f.rec = &model.FileRecord{ID: "file-1", OwnerID: "U2", FileName: "bio.pdf", StorageKey: "U2/bio.pdf"}
	f.files.Seed(f.rec)
	f.store.Put("U2/bio.pdf", testutil.PDF(256))
	f.svc = NewService(f.files, f.gens, f.store, f.chat, f.ext, cache, opts)
	return f
}

// ========== Generate 测试 ==========

func TestGenerate_Summary(t *testing.T) {
	f := newFixture(t, nil, Options{})

	res, err := f.svc.Generate(context.Background(), "U2", "file-1", model.GenerationKindSummary)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if res.Content != "## Overview\nA short summary." || res.FileName != "bio.pdf" || res.Cached {
		t.Errorf("Generate() = %+v", res)
	}
	if f.chat.calls != 1 {
		t.Fatalf("model calls = %d, want 1", f.chat.calls)
	}
	if len(f.chat.messages) != 2 || f.chat.messages[0].Role != schema.System {
		t.Fatalf("messages = %+v, want system and user", f.chat.messages)
	}
	if !strings.Contains(f.chat.messages[0].Content, "Overview") {
		t.Error("system prompt is not the summary prompt")
	}
	if !strings.Contains(f.chat.messages[1].Content, "Photosynthesis") {
		t.Error("user message does not contain document text")
	}
}

func TestGenerate_QuestionAndAnswer(t *testing.T) {
	f := newFixture(t, nil, Options{})

	if _, err := f.svc.Generate(context.Background(), "U2", "file-1", model.GenerationKindQA); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if !strings.Contains(f.chat.messages[0].Content, "### Q<number>") {
		t.Error("system prompt is not the question and answer prompt")
	}
}

func TestGenerate_NotOwned(t *testing.T) {
	f := newFixture(t, nil, Options{})

	res, err := f.svc.Generate(context.Background(), "U1", "file-1", model.GenerationKindSummary)
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Generate() error = %v, want ErrNotFound", err)
	}
	if res != nil {
		t.Errorf("Generate() returned content for another owner: %+v", res)
	}
	if f.chat.calls != 0 {
		t.Errorf("model calls = %d, want 0", f.chat.calls)
	}
}

func TestGenerateByName(t *testing.T) {
	f := newFixture(t, nil, Options{})

	if _, err := f.svc.GenerateByName(context.Background(), "U2", "bio.pdf", model.GenerationKindSummary); err != nil {
		t.Fatalf("GenerateByName() unexpected error: %v", err)
	}
	if _, err := f.svc.GenerateByName(context.Background(), "U1", "bio.pdf", model.GenerationKindSummary); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("GenerateByName(U1) error = %v, want ErrNotFound", err)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *fixture)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "download failure",
			setup:      func(f *fixture) { f.store.DownloadErr = errors.New("gone") },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "failed to download the file",
		},
		{
			name:       "empty object",
			setup:      func(f *fixture) { f.store.Put("U2/bio.pdf", nil) },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "invalid file",
		},
		{
			name:       "no text",
			setup:      func(f *fixture) { f.ext.text = "  \n" },
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "no extractable text",
		},
		{
			name:       "unreadable pdf",
			setup:      func(f *fixture) { f.ext.err = errors.New("corrupt") },
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "failed to read text",
		},
		{
			name:       "model unavailable",
			setup:      func(f *fixture) { f.chat.err = errors.New("error, status code: 503, status: 503 Service Unavailable") },
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "model API request failed",
		},
		{
			name:       "model transport error",
			setup:      func(f *fixture) { f.chat.err = errors.New("dial tcp: connection refused") },
			wantStatus: http.StatusBadGateway,
			wantMsg:    "model API request failed",
		},
		{
			name:       "model timeout",
			setup:      func(f *fixture) { f.chat.err = context.DeadlineExceeded },
			wantStatus: http.StatusGatewayTimeout,
			wantMsg:    "model API request failed",
		},
		{
			name:       "empty result",
			setup:      func(f *fixture) { f.chat.content = "" },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "empty result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, Options{})
			tt.setup(f)

			_, err := f.svc.Generate(context.Background(), "U2", "file-1", model.GenerationKindSummary)
			status, msg := statusOf(t, err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d (err=%v)", status, tt.wantStatus, err)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func statusOf(t *testing.T, err error) (int, string) {
	t.Helper()
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return verr.StatusCode(), verr.Message
	}
	var uerr *types.UpstreamError
	if errors.As(err, &uerr) {
		return uerr.StatusCode(), uerr.Message
	}
	t.Fatalf("unexpected error type %T: %v", err, err)
	return 0, ""
}

func TestGenerate_CacheAndPersist(t *testing.T) {
	ctx := context.Background()
	cache := newMockCache()
	f := newFixture(t, cache, Options{Persist: true})

	first, err := f.svc.Generate(ctx, "U2", "file-1", model.GenerationKindSummary)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	second, err := f.svc.Generate(ctx, "U2", "file-1", model.GenerationKindSummary)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if f.chat.calls != 1 {
		t.Errorf("model calls = %d, want 1", f.chat.calls)
	}
	if first.Cached || !second.Cached || second.Content != first.Content {
		t.Errorf("first = %+v, second = %+v", first, second)
	}

	history, err := f.svc.History(ctx, "U2", "file-1")
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Kind != model.GenerationKindSummary {
		t.Errorf("History() = %+v, want one summary", history)
	}
	if _, err := f.svc.History(ctx, "U1", "file-1"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("History(U1) error = %v, want ErrNotFound", err)
	}

	f.svc.OnFileDeleted(ctx, f.rec)
	if len(cache.deleted) != 1 || cache.deleted[0] != "file-1" {
		t.Errorf("cache deletes = %v, want [file-1]", cache.deleted)
	}
	history, _ = f.svc.History(ctx, "U2", "file-1")
	if len(history) != 0 {
		t.Errorf("History() after delete = %d entries, want 0", len(history))
	}
}

func TestGenerate_NoPersistByDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, Options{})

	_, _ = f.svc.Generate(ctx, "U2", "file-1", model.GenerationKindQA)
	history, err := f.svc.History(ctx, "U2", "file-1")
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History() = %d entries, want 0", len(history))
	}
}

// ========== OpenAI 兼容接口测试 ==========

func newOpenAIModel(t *testing.T, cs *testutil.ChatServer) ecomodel.BaseChatModel {
	t.Helper()
	cm, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:     "test-key",
		BaseURL:    cs.URL,
		Model:      "test-model",
		HTTPClient: testutil.NewTestClient(cs.Server),
	})
	if err != nil {
		t.Fatalf("NewChatModel() unexpected error: %v", err)
	}
	return cm
}

func TestGenerate_RemoteStatusPassthrough(t *testing.T) {
	cs := testutil.NewChatServer(t, http.StatusServiceUnavailable, "")
	f := newFixture(t, nil, Options{})
	f.svc.chatModel = newOpenAIModel(t, cs)

	_, err := f.svc.Generate(context.Background(), "U2", "file-1", model.GenerationKindSummary)
	status, msg := statusOf(t, err)
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 (err=%v)", status, err)
	}
	if msg != "model API request failed" {
		t.Errorf("message = %q", msg)
	}
	if cs.Calls() != 1 {
		t.Errorf("remote calls = %d, want 1", cs.Calls())
	}
}

func TestGenerate_RemoteSuccess(t *testing.T) {
	cs := testutil.NewChatServer(t, http.StatusOK, "### Q1: What is photosynthesis?\n> A process.\n---")
	f := newFixture(t, nil, Options{})
	f.svc.chatModel = newOpenAIModel(t, cs)

	res, err := f.svc.Generate(context.Background(), "U2", "file-1", model.GenerationKindQA)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.Content, "### Q1:") {
		t.Errorf("Content = %q", res.Content)
	}
}

// ========== 辅助函数测试 ==========

func TestUpstreamStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New("failed to create chat completion: error, status code: 429, status: 429 Too Many Requests"), 429},
		{errors.New("error, status code: 503, message: overloaded"), 503},
		{errors.New("status code: 200"), 0},
		{errors.New("connection reset"), 0},
	}
	for _, tt := range tests {
		if got := upstreamStatus(tt.err); got != tt.want {
			t.Errorf("upstreamStatus(%q) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestBuildMessages_UnknownKind(t *testing.T) {
	if _, err := buildMessages("poem", "a.pdf", "text"); err == nil {
		t.Error("buildMessages() expected error for unknown kind")
	}
}

func TestCacheKey(t *testing.T) {
	if got, want := cacheKey("f1", model.GenerationKindQA), "edu-ai:generation:f1:question-and-answer"; got != want {
		t.Errorf("cacheKey() = %q, want %q", got, want)
	}
}
