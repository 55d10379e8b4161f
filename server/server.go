package server

import "context"

// Server 接口定义了一个通用的服务器行为契约，由 app 统一管理生命周期。
type Server interface {
	// Start 启动服务器并阻塞，直到 ctx 被取消或服务器异常退出。
	Start(ctx context.Context) error
	// Stop 优雅地停止服务器，ctx 控制等待在途请求的时长。
	Stop(ctx context.Context) error
}
