package generate

import (
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/edu-ai/internal/model"
)

const summaryPrompt = `Create a highly concise executive summary of the document provided by the user.

Requirements:
- 150 to 200 words at most
- Cover only the core concepts and the main arguments
- Leave out examples, anecdotes and minor details
- Use clear and direct language
- Structure the summary as Overview, then Key Points, then Conclusion`

const qaPrompt = `You write high-quality study questions with answers. Analyse the document provided by the user and produce between 10 and 20 question and answer pairs.

Requirements:
1. Focus on the most important concepts, principles and relationships in the document.
2. Questions should test understanding (analysis, application, implication) rather than verbatim recall.
3. Every answer must be accurate and supported by the document.
4. Cover different parts of the material.
5. Use exactly this format for each pair and nothing else:

### Q<number>: <question>?
> <answer>.
---`

// systemPrompt 返回生成类型对应的系统提示词
func systemPrompt(kind model.GenerationKind) (string, error) {
	switch kind {
	case model.GenerationKindSummary:
		return summaryPrompt, nil
	case model.GenerationKindQA:
		return qaPrompt, nil
	default:
		return "", fmt.Errorf("unknown generation kind: %s", kind)
	}
}

// buildMessages 构造一次生成请求的消息
func buildMessages(kind model.GenerationKind, fileName, text string) ([]*schema.Message, error) {
	prompt, err := systemPrompt(kind)
	if err != nil {
		return nil, err
	}
	return []*schema.Message{
		schema.SystemMessage(prompt),
		schema.UserMessage(fmt.Sprintf("Document: %s\n\n%s", fileName, text)),
	}, nil
}
