package app

import "github.com/wyfcoding/geodesic/server"

// Option 配置应用程序选项。
type Option func(*options)

type options struct {
	servers  []server.Server // 应用程序管理的服务器列表。
	cleanups []func()        // 关闭时按注册的逆序执行的清理函数。
}

// WithServer 向应用程序添加一个或多个 `server.Server` 实例。
func WithServer(servers ...server.Server) Option {
	return func(o *options) {
		o.servers = append(o.servers, servers...)
	}
}

// WithCleanup 添加一个清理函数，如关闭缓存、刷新链路追踪数据。
func WithCleanup(cleanup func()) Option {
	return func(o *options) {
		o.cleanups = append(o.cleanups, cleanup)
	}
}
