package generate

import (
	"context"
	"strings"
	"testing"
)

func TestPDFExtractor_RejectsGarbage(t *testing.T) {
	ext, err := NewPDFExtractor(context.Background(), 1000)
	if err != nil {
		t.Fatalf("NewPDFExtractor() unexpected error: %v", err)
	}
	if _, err := ext.Extract(context.Background(), []byte("definitely not a pdf")); err == nil {
		t.Error("Extract() expected error for non-pdf input")
	}
}

func TestPDFExtractor_Truncate(t *testing.T) {
	ctx := context.Background()
	ext, err := NewPDFExtractor(ctx, 120)
	if err != nil {
		t.Fatalf("NewPDFExtractor() unexpected error: %v", err)
	}

	text := strings.Repeat("Cells divide by mitosis. ", 40)
	got, err := ext.truncate(ctx, text)
	if err != nil {
		t.Fatalf("truncate() unexpected error: %v", err)
	}
	if got == "" || len(got) > 120 {
		t.Errorf("truncate() length = %d, want 1..120", len(got))
	}
	if !strings.Contains(got, "Cells divide") {
		t.Errorf("truncate() = %q, want leading text", got)
	}
}

func TestPDFExtractor_TruncateSingleLongWord(t *testing.T) {
	ctx := context.Background()
	ext, err := NewPDFExtractor(ctx, 10)
	if err != nil {
		t.Fatalf("NewPDFExtractor() unexpected error: %v", err)
	}

	got, err := ext.truncate(ctx, "日本語のテキストです日本語のテキストです")
	if err != nil {
		t.Fatalf("truncate() unexpected error: %v", err)
	}
	if len(got) > 10 || !strings.HasPrefix("日本語のテキストです日本語のテキストです", got) {
		t.Errorf("truncate() = %q", got)
	}
}
