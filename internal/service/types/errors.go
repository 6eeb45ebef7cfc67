// Package types 定义服务层共享的错误类型
// handler 层通过 errors.Is / errors.As 将其映射为 HTTP 状态码
package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated 请求未携带身份
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrNotFound 记录不存在或不属于当前用户，两种情况不做区分
	ErrNotFound = errors.New("file not found")
)

// ValidationError 请求参数错误
type ValidationError struct {
	Message string
	Status  int // 为 0 时使用 400
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusCode 返回 HTTP 状态码
func (e *ValidationError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

// NewValidationError 创建参数错误
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// LimitExceededError 用户文件数达到上限
type LimitExceededError struct {
	Limit int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("file limit of %d reached", e.Limit)
}

// UpstreamError 存储或模型调用失败
// Message 是可以返回给客户端的文案，Err 只用于日志
type UpstreamError struct {
	Op      string
	Status  int // 为 0 时使用 500
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode 返回 HTTP 状态码
func (e *UpstreamError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// NewUpstreamError 创建上游错误
func NewUpstreamError(op, message string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Message: message, Err: err}
}
