// Package app 管理进程生命周期：启动服务器、等待退出信号、优雅关闭并执行清理。
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// shutdownTimeout 是等待服务器优雅关闭的最长时间。
const shutdownTimeout = 10 * time.Second

// App 是应用程序的核心容器。
type App struct {
	name   string
	logger *slog.Logger
	opts   options
}

// New 创建一个新的应用程序实例。
func New(name string, logger *slog.Logger, opts ...Option) *App {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &App{name: name, logger: logger, opts: o}
}

// Run 启动所有服务器并阻塞，直到收到 SIGINT/SIGTERM 或任一服务器退出。
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext 与 Run 相同，但由 ctx 控制退出。
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Info("application starting", "name", a.name, "pid", os.Getpid())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := pool.New().WithErrors().WithContext(ctx)
	for _, srv := range a.opts.servers {
		p.Go(func(ctx context.Context) error {
			err := srv.Start(ctx)
			if err != nil {
				a.logger.Error("server exited with error", "error", err)
			}
			// 任一服务器退出都触发整体关闭
			cancel()
			return err
		})
	}

	<-ctx.Done()
	a.logger.Info("shutting down application", "name", a.name)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	for _, srv := range a.opts.servers {
		if err := srv.Stop(shutdownCtx); err != nil {
			a.logger.Error("server failed to stop", "error", err)
			errs = append(errs, err)
		}
	}
	if err := p.Wait(); err != nil {
		errs = append(errs, err)
	}

	for _, cleanup := range slices.Backward(a.opts.cleanups) {
		cleanup()
	}

	a.logger.Info("application shut down", "name", a.name)
	return errors.Join(errs...)
}
