package generate

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
)

// Extractor 从文件内容中提取发送给模型的文本
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDFExtractor 使用 eino-ext PDF 解析器提取文本，并按字符预算截断
type PDFExtractor struct {
	parser   einoparser.Parser
	splitter document.Transformer
	maxChars int
}

// NewPDFExtractor 创建 PDF 提取器，maxChars <= 0 表示不限制
func NewPDFExtractor(ctx context.Context, maxChars int) (*PDFExtractor, error) {
	parser, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf parser: %w", err)
	}

	chunkSize := 2000
	if maxChars > 0 && maxChars < chunkSize {
		chunkSize = maxChars
	}
	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   chunkSize,
		OverlapSize: 0,
		Separators:  []string{"\n\n", "\n", ". ", " ", ""},
		KeepType:    recursive.KeepTypeEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	return &PDFExtractor{
		parser:   parser,
		splitter: splitter,
		maxChars: maxChars,
	}, nil
}

// Extract 解析 PDF 并返回正文
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	docs, err := e.parser.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parser failed: %w", err)
	}

	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if s := strings.TrimSpace(d.Content); s != "" {
			parts = append(parts, s)
		}
	}
	text := strings.Join(parts, "\n\n")
	if e.maxChars <= 0 || len(text) <= e.maxChars {
		return text, nil
	}

	return e.truncate(ctx, text)
}

// truncate 按块截断，只保留完整的块
func (e *PDFExtractor) truncate(ctx context.Context, text string) (string, error) {
	chunks, err := e.splitter.Transform(ctx, []*schema.Document{{Content: text}})
	if err != nil {
		return "", fmt.Errorf("splitter failed: %w", err)
	}

	var b strings.Builder
	for _, c := range chunks {
		if b.Len()+len(c.Content) > e.maxChars {
			break
		}
		b.WriteString(c.Content)
	}
	if b.Len() == 0 {
		// 第一个块就超出预算
		return strings.ToValidUTF8(text[:e.maxChars], ""), nil
	}
	return b.String(), nil
}
