// Package logging 提供了统一的结构化日志（slog）封装，支持 OpenTelemetry 追踪上下文注入、日志文件切割与运行时调整级别。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace" // OpenTelemetry追踪
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// defaultLogger 是全局默认的Logger实例，采用单例模式。
	defaultLogger *Logger
	// once 确保 InitLogger 只执行一次。
	once sync.Once
	mu   sync.RWMutex
)

// Config 定义日志配置
type Config struct {
	Service    string
	Module     string
	Level      string
	File       string // 日志文件路径，为空则只输出到 stdout
	Console    bool   // 配置了 File 时是否仍同时输出到 stdout
	MaxSize    int    // 每个日志文件最大尺寸 (MB)
	MaxBackups int    // 保留旧日志文件的最大个数
	MaxAge     int    // 保留旧日志文件的最大天数
	Compress   bool   // 是否压缩旧日志
}

// Logger 封装了原生的 `*slog.Logger`，并添加了服务名和模块名，方便在日志中区分来源。
type Logger struct {
	*slog.Logger
	Service string // 服务名称
	Module  string // 模块名称

	level  *slog.LevelVar
	closer io.Closer
}

// TraceHandler 是一个 `slog.Handler` 装饰器，从 `context.Context` 中提取 `trace_id` 和 `span_id` 注入日志记录。
type TraceHandler struct {
	slog.Handler
}

// Handle 在 SpanContext 有效时追加 trace_id 与 span_id，再交给被装饰的 Handler。
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs 保持装饰关系，避免 Logger.With 之后丢失追踪字段。
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLevel 将 debug/info/warn/error 解析为 slog.Level，未知值按 info 处理。
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewFromConfig 创建一个新的Logger实例。
// 配置了 File 时使用 lumberjack 按大小切割日志。
func NewFromConfig(cfg Config) *Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg Config, stdout io.Writer) *Logger {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level))

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	}

	var (
		handlers []slog.Handler
		closer   io.Closer
	)
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
		closer = fileWriter
		handlers = append(handlers, slog.NewJSONHandler(fileWriter, opts))
	}
	if cfg.File == "" || cfg.Console {
		handlers = append(handlers, slog.NewJSONHandler(stdout, opts))
	}

	logger := slog.New(&TraceHandler{Handler: newFanoutHandler(handlers...)}).With(
		slog.String("service", cfg.Service),
		slog.String("module", cfg.Module),
	)

	return &Logger{
		Logger:  logger,
		Service: cfg.Service,
		Module:  cfg.Module,
		level:   level,
		closer:  closer,
	}
}

// NewLogger 是创建一个带有简单参数的 logger 的兼容别名。
func NewLogger(service, module string, level ...string) *Logger {
	lvl := "info"
	if len(level) > 0 {
		lvl = level[0]
	}
	return NewFromConfig(Config{
		Service: service,
		Module:  module,
		Level:   lvl,
	})
}

// SetLevel 在运行时调整日志级别，配置热更新时调用。
func (l *Logger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

// Level 返回当前日志级别。
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close 关闭日志文件（如有）。
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// InitLogger 初始化全局默认日志记录器，只有第一次调用生效。
func InitLogger(cfg Config) *Logger {
	once.Do(func() {
		SetDefault(NewFromConfig(cfg))
	})
	return Default()
}

// SetDefault 替换全局默认日志记录器，并同步设置 slog 的默认 Logger。
func SetDefault(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	slog.SetDefault(l.Logger)
}

// Default 返回默认日志记录器实例，尚未初始化时返回 info 级别的 stdout 日志。
func Default() *Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	return InitLogger(Config{Service: "default", Module: "default", Level: "info"})
}

// Info 记录 Info 级别日志
func Info(ctx context.Context, msg string, args ...any) {
	Default().InfoContext(ctx, msg, args...)
}

// Warn 记录 Warn 级别日志
func Warn(ctx context.Context, msg string, args ...any) {
	Default().WarnContext(ctx, msg, args...)
}

// Error 记录 Error 级别日志
func Error(ctx context.Context, msg string, args ...any) {
	Default().ErrorContext(ctx, msg, args...)
}

// Debug 记录 Debug 级别日志
func Debug(ctx context.Context, msg string, args ...any) {
	Default().DebugContext(ctx, msg, args...)
}

// LogDuration 记录操作耗时，用法：defer logging.LogDuration(ctx, "split")()
func LogDuration(ctx context.Context, operation string, args ...any) func() {
	start := time.Now()
	return func() {
		logArgs := append(args, "duration", time.Since(start))
		Debug(ctx, fmt.Sprintf("%s finished", operation), logArgs...)
	}
}
