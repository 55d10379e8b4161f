// Command geodesicd 以 HTTP 服务的形式提供测地线加密、反子午线切分与测地圆计算。
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wyfcoding/geodesic/api"
	"github.com/wyfcoding/geodesic/app"
	"github.com/wyfcoding/geodesic/bootstrap"
	"github.com/wyfcoding/geodesic/cache"
	"github.com/wyfcoding/geodesic/config"
	"github.com/wyfcoding/geodesic/health"
	"github.com/wyfcoding/geodesic/metrics"
	"github.com/wyfcoding/geodesic/server"
)

const serviceName = "geodesicd"

// version 在构建时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	boot := bootstrap.New(serviceName, version)
	var cfg config.Config
	if err := boot.Initialize(args, &cfg); err != nil {
		return err
	}
	logger := boot.Logger.Logger

	if err := boot.SetupIDGenerator(cfg.Snowflake); err != nil {
		return err
	}
	shutdownTracing := boot.SetupTracing(context.Background(), cfg.Tracing)

	m := metrics.NewMetrics(cfg.Server.Name)
	m.RegisterBuildInfo(cfg.Server.Name, cfg.Version)

	checks := health.NewRegistry(2 * time.Second)
	opts := []api.Option{api.WithLogger(logger), api.WithMetrics(m)}
	cleanups := []app.Option{app.WithCleanup(shutdownTracing)}

	if cfg.Cache.Enabled {
		store, err := cache.NewBigCache(cfg.Cache)
		if err != nil {
			return err
		}
		opts = append(opts, api.WithCache(store, cfg.Cache.LifeWindow))
		checks.Register("cache", func(ctx context.Context) error {
			_, err := store.Exists(ctx, "healthz")
			return err
		})
		cleanups = append(cleanups, app.WithCleanup(func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close cache", "error", err)
			}
		}))
	}

	handler, err := api.New(cfg.Geodesic, opts...)
	if err != nil {
		return err
	}
	config.RegisterReloadHook(func(c *config.Config) {
		if err := handler.Reload(c.Geodesic); err != nil {
			logger.Error("failed to reload geodesic parameters", "error", err)
		}
	})

	engine, err := api.NewRouter(&cfg, handler, m, checks, logger)
	if err != nil {
		return err
	}
	srv := server.NewGinServer(engine, cfg.GetHTTPAddr(), cfg.Server.HTTP, logger)

	cleanups = append(cleanups, app.WithCleanup(func() { _ = boot.Logger.Close() }))
	return app.New(cfg.Server.Name, logger, append([]app.Option{app.WithServer(srv)}, cleanups...)...).Run()
}
