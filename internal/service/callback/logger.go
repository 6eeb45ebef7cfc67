// Package callback 提供 Eino 组件的日志回调
package callback

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/callbacks"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type startKey struct{}

// Logger 日志回调处理器
// 只记录消息数量、耗时和 token 用量，不输出文档原文
type Logger struct {
	EnableDebug bool
	now         func() time.Time
}

// NewLogger 创建日志回调处理器
func NewLogger(enableDebug bool) *Logger {
	return &Logger{EnableDebug: enableDebug, now: time.Now}
}

// OnStart 组件开始执行
func (l *Logger) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if l.EnableDebug {
		log.Printf("[Eino] start %s", l.describeInput(info, input))
	}
	return context.WithValue(ctx, startKey{}, l.now())
}

// OnEnd 组件执行成功
func (l *Logger) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	log.Printf("[Eino] end %s elapsed=%s%s", runName(info), l.elapsed(ctx), describeOutput(output))
	return ctx
}

// OnError 组件执行出错
func (l *Logger) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	log.Printf("[Eino] Error: %s elapsed=%s error=%v", runName(info), l.elapsed(ctx), err)
	return ctx
}

// OnStartWithStreamInput 流式输入开始
func (l *Logger) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return context.WithValue(ctx, startKey{}, l.now())
}

// OnEndWithStreamOutput 流式输出结束
func (l *Logger) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	if l.EnableDebug {
		log.Printf("[Eino] stream %s elapsed=%s", runName(info), l.elapsed(ctx))
	}
	return ctx
}

func (l *Logger) elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startKey{}).(time.Time)
	if !ok {
		return 0
	}
	return l.now().Sub(start).Round(time.Millisecond)
}

func (l *Logger) describeInput(info *callbacks.RunInfo, input callbacks.CallbackInput) string {
	in := ecomodel.ConvCallbackInput(input)
	if in == nil {
		return runName(info)
	}
	chars := 0
	for _, m := range in.Messages {
		if m != nil {
			chars += len(m.Content)
		}
	}
	return fmt.Sprintf("%s messages=%d chars=%d", runName(info), len(in.Messages), chars)
}

func describeOutput(output callbacks.CallbackOutput) string {
	out := ecomodel.ConvCallbackOutput(output)
	if out == nil || out.TokenUsage == nil {
		return ""
	}
	return fmt.Sprintf(" prompt_tokens=%d completion_tokens=%d",
		out.TokenUsage.PromptTokens, out.TokenUsage.CompletionTokens)
}

func runName(info *callbacks.RunInfo) string {
	if info == nil {
		return "unknown"
	}
	return fmt.Sprintf("name=%s type=%s component=%s", info.Name, info.Type, info.Component)
}

// SetupGlobalCallbacks 注册全局回调
func SetupGlobalCallbacks(enableDebug bool) {
	callbacks.AppendGlobalHandlers(NewLogger(enableDebug))
	log.Printf("[Eino] Global callbacks registered (debug=%v)", enableDebug)
}
