package server

import (
	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/geodesic/config"
)

// NewDefaultGinEngine 创建一个新的 Gin 引擎实例。
// 引擎不带默认中间件，顺序与集合由调用方决定。
func NewDefaultGinEngine(cfg config.ServerConfig, middlewares ...gin.HandlerFunc) (*gin.Engine, error) {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	engine.Use(middlewares...)
	return engine, nil
}
