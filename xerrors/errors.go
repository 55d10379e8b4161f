// Package xerrors 提供增强型错误类型，携带错误大类、业务码、堆栈与上下文，并能映射为 HTTP/gRPC 状态码。
package xerrors

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"runtime"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorType 错误的大类
type ErrorType uint

const (
	ErrUnknown ErrorType = iota
	ErrInternal
	ErrInvalidArg
	ErrNotFound
	ErrUnavailable
	ErrLimitExceeded
	ErrTooLarge
	ErrDeadlineExceeded
)

// typeInfo 描述一个错误大类在各协议下的表示。
type typeInfo struct {
	name string
	http int
	grpc codes.Code
}

var types = [...]typeInfo{
	ErrUnknown:          {"Unknown", http.StatusInternalServerError, codes.Unknown},
	ErrInternal:         {"Internal", http.StatusInternalServerError, codes.Internal},
	ErrInvalidArg:       {"InvalidArg", http.StatusBadRequest, codes.InvalidArgument},
	ErrNotFound:         {"NotFound", http.StatusNotFound, codes.NotFound},
	ErrUnavailable:      {"Unavailable", http.StatusServiceUnavailable, codes.Unavailable},
	ErrLimitExceeded:    {"LimitExceeded", http.StatusTooManyRequests, codes.ResourceExhausted},
	ErrTooLarge:         {"TooLarge", http.StatusRequestEntityTooLarge, codes.ResourceExhausted},
	ErrDeadlineExceeded: {"DeadlineExceeded", http.StatusGatewayTimeout, codes.DeadlineExceeded},
}

func (t ErrorType) info() typeInfo {
	if int(t) >= len(types) {
		return types[ErrUnknown]
	}
	return types[t]
}

func (t ErrorType) String() string {
	return t.info().name
}

// Error 增强型错误结构
type Error struct {
	Type    ErrorType      `json:"type"`
	Code    int            `json:"code"`    // 业务自定义错误码
	Message string         `json:"message"` // 对外展示的友好消息
	Detail  string         `json:"detail"`  // 对内调试的详细信息
	Cause   error          `json:"-"`       // 原始错误
	Stack   []string       `json:"stack"`   // 堆栈追踪
	Context map[string]any `json:"context"` // 上下文数据
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %d: %s (Cause: %v)", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %d: %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 让 errors.Is 按大类与业务码匹配，目录中的哨兵错误克隆后仍可识别。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// New 创建新错误并捕获堆栈
func New(errType ErrorType, code int, message string, detail string, cause error) *Error {
	e := &Error{
		Type:    errType,
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
		Context: make(map[string]any),
	}
	e.captureStack()
	return e
}

// stackDepth 是捕获的最大帧数。
const stackDepth = 10

func (e *Error) captureStack() {
	var pcs [stackDepth]uintptr
	// 跳过 runtime.Callers、captureStack 与 New/Clone
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	e.Stack = make([]string, 0, n)
	for {
		frame, more := frames.Next()
		e.Stack = append(e.Stack, fmt.Sprintf("%s:%d (%s)", frame.File, frame.Line, frame.Function))
		if !more {
			return
		}
	}
}

// Clone 复制一个错误并在调用点重新捕获堆栈。
// 目录中的哨兵错误是全局共享的，附加上下文前必须先 Clone。
func (e *Error) Clone() *Error {
	c := *e
	c.Context = maps.Clone(e.Context)
	if c.Context == nil {
		c.Context = make(map[string]any)
	}
	c.captureStack()
	return &c
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

func Internal(msg string, cause error) *Error {
	return New(ErrInternal, http.StatusInternalServerError, msg, "", cause)
}

func InvalidArg(msg string) *Error {
	return New(ErrInvalidArg, http.StatusBadRequest, msg, "", nil)
}

func NotFound(msg string) *Error {
	return New(ErrNotFound, http.StatusNotFound, msg, "", nil)
}

// Wrap 包装现有错误。err 链中已有 *Error 时保留其大类与业务码，只替换消息。
func Wrap(err error, errType ErrorType, msg string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := FromError(err); ok {
		c := e.Clone()
		c.Cause = err
		c.Message = msg
		return c
	}
	return New(errType, errType.info().http, msg, "", err)
}

// WrapInternal 快速包装内部服务器错误
func WrapInternal(err error, msg string) *Error {
	return Wrap(err, ErrInternal, msg)
}

// HTTPStatus 返回对应的 HTTP 状态码
func (e *Error) HTTPStatus() int {
	return e.Type.info().http
}

// GRPCCode 返回对应的 gRPC 状态码
func (e *Error) GRPCCode() codes.Code {
	return e.Type.info().grpc
}

// ToGRPCStatus 将 Error 转换为 gRPC Status
func (e *Error) ToGRPCStatus() *status.Status {
	return status.New(e.GRPCCode(), e.Message)
}

// FromError 在错误链中查找 *Error。
func FromError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
