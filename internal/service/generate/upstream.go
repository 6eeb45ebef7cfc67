package generate

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/ashwinyue/edu-ai/internal/service/types"
)

// statusPattern 匹配 OpenAI 兼容客户端错误中的 HTTP 状态码
var statusPattern = regexp.MustCompile(`status code: (\d{3})`)

// upstreamStatus 从模型调用错误中提取 HTTP 状态码，提取不到返回 0
func upstreamStatus(err error) int {
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	if code < 400 || code > 599 {
		return 0
	}
	return code
}

// modelError 将模型调用错误转换为 UpstreamError
// 带状态码的错误原样透传状态码，其他错误返回 502，超时返回 504
func modelError(err error) *types.UpstreamError {
	e := types.NewUpstreamError("model.generate", "model API request failed", err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.Status = http.StatusGatewayTimeout
	default:
		e.Status = upstreamStatus(err)
		if e.Status == 0 {
			e.Status = http.StatusBadGateway
		}
	}
	return e
}
