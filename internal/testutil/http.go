package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"
)

// HTTPRoundTripper 重写 HTTP 请求到测试服务器
// 用于将真实 API 请求重定向到 mock 服务器
type HTTPRoundTripper struct {
	base *url.URL          // 测试服务器 URL
	next http.RoundTripper // 下一个 Transport
}

// RoundTrip 实现 http.RoundTripper 接口
func (t *HTTPRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.URL.Scheme = t.base.Scheme
	cloned.URL.Host = t.base.Host
	cloned.Host = t.base.Host
	return t.next.RoundTrip(cloned)
}

// NewTestClient 创建测试用 HTTP 客户端
// 自动将请求重定向到测试服务器
func NewTestClient(ts *httptest.Server) *http.Client {
	u, _ := url.Parse(ts.URL)
	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &HTTPRoundTripper{
			base: u,
			next: http.DefaultTransport,
		},
	}
}

// ChatServer 模拟 OpenAI 兼容的 /chat/completions 接口
type ChatServer struct {
	*httptest.Server
	Status  int    // 非 200 时返回错误响应
	Content string // 200 时返回的内容
	calls   atomic.Int32
}

// NewChatServer 启动模拟服务器，测试结束时自动关闭
func NewChatServer(t interface{ Cleanup(func()) }, status int, content string) *ChatServer {
	cs := &ChatServer{Status: status, Content: content}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(cs.Close)
	return cs
}

// Calls 返回收到的请求数
func (cs *ChatServer) Calls() int {
	return int(cs.calls.Load())
}

func (cs *ChatServer) handle(w http.ResponseWriter, r *http.Request) {
	cs.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")

	if cs.Status != http.StatusOK {
		w.WriteHeader(cs.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": http.StatusText(cs.Status),
				"type":    "server_error",
			},
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": cs.Content,
				},
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     1,
			"completion_tokens": 1,
			"total_tokens":      2,
		},
	})
}
