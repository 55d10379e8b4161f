// Package response 提供了统一的 HTTP 响应封装 {code, msg, data}，支持业务错误码映射及 gRPC 状态码转换。
package response

import (
	"errors"
	"net/http"

	"github.com/wyfcoding/geodesic/xerrors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HTTPStatusProvider 定义了能够提供 HTTP 状态码的错误接口。
type HTTPStatusProvider interface {
	HTTPStatus() int // 返回对应的 HTTP 标准状态码
}

// Body 是统一响应体。
type Body struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Success 发送一个标准的成功响应：HTTP 200，业务码 0，消息 "success"。
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Code: 0, Msg: "success", Data: data})
}

// SuccessWithRawData 发送原始数据的成功响应 (不包装 code 和 msg)，用于健康检查等系统接口。
func SuccessWithRawData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error 发送错误响应。
// *xerrors.Error 使用其业务码与映射的 HTTP 状态；参数校验失败返回 400；
// gRPC Status 按标准映射；其他错误兜底返回 500。
func Error(c *gin.Context, err error) {
	if err == nil {
		Success(c, nil)
		return
	}

	var (
		xe *xerrors.Error
		ve validator.ValidationErrors
	)
	switch {
	case errors.As(err, &xe):
		c.JSON(xe.HTTPStatus(), Body{Code: xe.Code, Msg: xe.Message, Detail: xe.Detail})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, Body{Code: http.StatusBadRequest, Msg: "invalid request", Detail: ve.Error()})
	default:
		statusCode := http.StatusInternalServerError
		msg := err.Error()
		if e, ok := err.(HTTPStatusProvider); ok {
			statusCode = e.HTTPStatus()
		} else if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
			statusCode = grpcCodeToHTTP(st.Code())
			msg = st.Message()
		}
		c.JSON(statusCode, Body{Code: statusCode, Msg: msg})
	}
}

// ErrorWithStatus 发送一个带有指定 HTTP 状态码、消息和详情的错误响应。
func ErrorWithStatus(c *gin.Context, status int, msg string, detail string) {
	c.JSON(status, Body{Code: status, Msg: msg, Detail: detail})
}

// grpcCodeToHTTP 执行 gRPC 到 HTTP 的标准协议映射。
func grpcCodeToHTTP(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.Canceled:
		return 499 // Client Closed Request
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
