// Package bootstrap 负责进程启动阶段的通用初始化：解析命令行、加载配置、日志、链路追踪与 ID 生成器。
package bootstrap

import (
	"context"
	"flag"

	"github.com/wyfcoding/geodesic/config"
	"github.com/wyfcoding/geodesic/idgen"
	"github.com/wyfcoding/geodesic/logging"
	"github.com/wyfcoding/geodesic/tracing"
)

// Bootstrapper 处理通用基础设施的初始化
type Bootstrapper struct {
	ServiceName string
	Version     string
	Logger      *logging.Logger
}

// New 创建一个新的引导器实例
func New(serviceName, version string) *Bootstrapper {
	return &Bootstrapper{
		ServiceName: serviceName,
		Version:     version,
	}
}

// Initialize 解析命令行参数、加载配置文件，并按配置重建全局日志。
func (b *Bootstrapper) Initialize(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet(b.ServiceName, flag.ContinueOnError)
	configPath := fs.String("config", "configs/config.toml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 配置加载前先使用 stdout 日志记录过程中的错误
	b.Logger = logging.NewLogger(b.ServiceName, "bootstrap")
	logging.SetDefault(b.Logger)

	if err := config.Load(*configPath, cfg); err != nil {
		b.Logger.Error("failed to load config", "path", *configPath, "error", err)
		return err
	}
	if cfg.Version == "" {
		cfg.Version = b.Version
	}

	b.Logger = logging.NewFromConfig(LogConfig(b.ServiceName, cfg.Log))
	logging.SetDefault(b.Logger)
	config.PrintWithMask(cfg)
	return nil
}

// LogConfig 把配置文件中的日志段转换为 logging.Config。
func LogConfig(service string, c config.LogConfig) logging.Config {
	return logging.Config{
		Service:    service,
		Module:     "server",
		Level:      c.Level,
		File:       c.File,
		Console:    c.Console,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}

// SetupTracing 初始化 OpenTelemetry 追踪器，返回的函数在退出时刷新剩余数据。
func (b *Bootstrapper) SetupTracing(ctx context.Context, cfg config.TracingConfig) func() {
	if cfg.ServiceName == "" {
		cfg.ServiceName = b.ServiceName
	}
	shutdown, err := tracing.InitTracer(ctx, cfg)
	if err != nil {
		b.Logger.Error("failed to init tracer", "error", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			b.Logger.Error("failed to shutdown tracer", "error", err)
		}
	}
}

// SetupIDGenerator 初始化请求 ID 使用的全局生成器。
func (b *Bootstrapper) SetupIDGenerator(cfg config.SnowflakeConfig) error {
	if err := idgen.Init(cfg); err != nil {
		b.Logger.Error("failed to init id generator", "type", cfg.Type, "error", err)
		return err
	}
	return nil
}
