// Package contextx 在 context.Context 中携带请求级元数据，供日志与错误响应使用。
package contextx

import (
	"context"
	"log/slog"
)

type metaKey struct{}

// Meta 是一次 HTTP 请求的元数据。
type Meta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// WithMeta 返回携带 m 的子 Context。
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// MetaFrom 取出请求元数据。
func MetaFrom(ctx context.Context) (Meta, bool) {
	m, ok := ctx.Value(metaKey{}).(Meta)
	return m, ok
}

// GetRequestID 返回请求 ID，不存在时返回空串。
func GetRequestID(ctx context.Context) string {
	m, _ := MetaFrom(ctx)
	return m.RequestID
}

// LogAttrs 返回非空的元数据字段，直接作为 slog 的 args 使用。
func LogAttrs(ctx context.Context) []any {
	m, ok := MetaFrom(ctx)
	if !ok {
		return nil
	}
	attrs := make([]any, 0, 3)
	for _, a := range []slog.Attr{
		slog.String("request_id", m.RequestID),
		slog.String("client_ip", m.ClientIP),
		slog.String("user_agent", m.UserAgent),
	} {
		if a.Value.String() != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}
