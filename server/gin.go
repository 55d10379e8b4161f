// Package server 提供了启动和管理 HTTP 服务器的封装。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/geodesic/config"
)

// GinServer 封装了标准的 `http.Server`，专门用于运行 Gin 引擎，并提供了优雅的启动和关闭功能。
type GinServer struct {
	server *http.Server
	addr   string
	logger *slog.Logger
}

// NewGinServer 创建一个新的Gin服务器实例，超时参数取自 cfg，零值表示不限制。
func NewGinServer(engine *gin.Engine, addr string, cfg config.HTTPConfig, logger *slog.Logger) *GinServer {
	return &GinServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		addr:   addr,
		logger: logger,
	}
}

// Start 启动Gin HTTP服务器。
// 这是一个阻塞操作，ctx 取消或监听失败时返回；关闭由 Stop 负责。
func (s *GinServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve 在给定的 listener 上提供服务，测试中可传入 127.0.0.1:0。
func (s *GinServer) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting gin server", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

// Stop 优雅地停止Gin服务器，等待现有请求在 ctx 截止前完成。
func (s *GinServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping gin server gracefully", "addr", s.addr)
	return s.server.Shutdown(ctx)
}
