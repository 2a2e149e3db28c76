package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	// ErrInvalidRequest 客户端输入不满足前置条件 (HTTP 400)
	ErrInvalidRequest = errors.New("请求参数无效")
)

// InvalidRequestError 带说明的请求校验错误
type InvalidRequestError struct {
	Detail string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, e.Detail)
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// NewInvalidRequestError 构造请求校验错误
func NewInvalidRequestError(format string, args ...interface{}) error {
	return &InvalidRequestError{Detail: fmt.Sprintf(format, args...)}
}
