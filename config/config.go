// Package config 提供了统一的配置加载与管理能力.
// 配置文件为 toml 格式，环境变量以 APP_ 为前缀覆盖同名配置项（层级以下划线连接），
// 文件变更时自动热加载并触发已注册的回调。
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/wyfcoding/geodesic/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局顶级配置结构.
type Config struct {
	Version   string          `mapstructure:"version"   toml:"version"`
	Server    ServerConfig    `mapstructure:"server"    toml:"server"`
	Log       LogConfig       `mapstructure:"log"       toml:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   toml:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"   toml:"tracing"`
	Geodesic  GeodesicConfig  `mapstructure:"geodesic"  toml:"geodesic"`
	Cache     CacheConfig     `mapstructure:"cache"     toml:"cache"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake" toml:"snowflake"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" toml:"ratelimit"`
}

// ServerConfig 定义服务器运行时的基础网络与环境参数.
type ServerConfig struct {
	Name        string     `mapstructure:"name"        toml:"name"        validate:"required"`
	Environment string     `mapstructure:"environment" toml:"environment" validate:"oneof=dev test prod"`
	HTTP        HTTPConfig `mapstructure:"http"        toml:"http"`
}

// HTTPConfig 定义 HTTP 监听与超时参数.
type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"             toml:"addr"`
	Port           int           `mapstructure:"port"             toml:"port"             validate:"required,min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"     toml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"    toml:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"     toml:"idle_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"   toml:"max_body_bytes"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"  toml:"trusted_proxies"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level         string        `mapstructure:"level"          toml:"level"          validate:"omitempty,oneof=debug info warn error"`
	File          string        `mapstructure:"file"           toml:"file"`           // 日志文件路径。
	Console       bool          `mapstructure:"console"        toml:"console"`        // 写文件时是否同时输出到 stdout。
	MaxSize       int           `mapstructure:"max_size"       toml:"max_size"`       // 单个文件最大大小 (MB)。
	MaxBackups    int           `mapstructure:"max_backups"    toml:"max_backups"`    // 最大备份数。
	MaxAge        int           `mapstructure:"max_age"        toml:"max_age"`        // 最大保留天数。
	Compress      bool          `mapstructure:"compress"       toml:"compress"`       // 是否启用压缩。
	SlowThreshold time.Duration `mapstructure:"slow_threshold" toml:"slow_threshold"` // HTTP 慢请求阈值。
}

// MetricsConfig 普罗米修斯监控指标暴露配置.
type MetricsConfig struct {
	Path    string `mapstructure:"path"    toml:"path"`
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
}

// TracingConfig 分布式链路追踪（OpenTelemetry OTLP）配置.
type TracingConfig struct {
	ServiceName  string  `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" toml:"otlp_endpoint" validate:"required_if=Enabled true"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" toml:"sampler_ratio" validate:"min=0,max=1"`
	Enabled      bool    `mapstructure:"enabled"       toml:"enabled"`
}

// GeodesicConfig 定义测地线生成参数与单次请求的资源上限.
type GeodesicConfig struct {
	Steps          int  `mapstructure:"steps"           toml:"steps"           validate:"min=0,max=8"`
	CircleVertices int  `mapstructure:"circle_vertices" toml:"circle_vertices" validate:"min=3"`
	Split          bool `mapstructure:"split"           toml:"split"`       // 默认是否切分反子午线。
	MaxPoints      int  `mapstructure:"max_points"      toml:"max_points"      validate:"min=1"` // 单次响应的最大点数。
	MaxDepth       int  `mapstructure:"max_depth"       toml:"max_depth"       validate:"min=0,max=16"`
	Workers        int  `mapstructure:"workers"         toml:"workers"         validate:"min=0"` // 批量请求的并发度，0 表示 GOMAXPROCS。
}

// CacheConfig 定义 BigCache 结果缓存参数.
type CacheConfig struct {
	Enabled          bool          `mapstructure:"enabled"             toml:"enabled"`
	Shards           int           `mapstructure:"shards"              toml:"shards"`
	LifeWindow       time.Duration `mapstructure:"life_window"         toml:"life_window"`
	CleanWindow      time.Duration `mapstructure:"clean_window"        toml:"clean_window"`
	MaxEntrySize     int           `mapstructure:"max_entry_size"      toml:"max_entry_size"`
	HardMaxCacheSize int           `mapstructure:"hard_max_cache_size" toml:"hard_max_cache_size"` // MB
}

// SnowflakeConfig 分布式 ID 生成器参数，用于生成请求 ID.
type SnowflakeConfig struct {
	StartTime string `mapstructure:"start_time" toml:"start_time"`
	Type      string `mapstructure:"type"       toml:"type"       validate:"omitempty,oneof=snowflake sonyflake"`
	MachineID int64  `mapstructure:"machine_id" toml:"machine_id" validate:"min=0,max=1023"`
}

// RateLimitConfig 定义令牌桶限流参数.
type RateLimitConfig struct {
	Rate    int  `mapstructure:"rate"    toml:"rate"`
	Burst   int  `mapstructure:"burst"   toml:"burst"`
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// GetHTTPAddr 返回 HTTP 监听地址。
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.HTTP.Addr, c.Server.HTTP.Port)
}

var (
	vInstance = viper.New()
	hooksMu   sync.Mutex
	onReload  []func(*Config)
)

// RegisterReloadHook 注册配置热更新回调。
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	hooksMu.Lock()
	onReload = append(onReload, hook)
	hooksMu.Unlock()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "geodesicd")
	v.SetDefault("server.environment", "dev")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", 5*time.Second)
	v.SetDefault("server.http.write_timeout", 10*time.Second)
	v.SetDefault("server.http.idle_timeout", 60*time.Second)
	v.SetDefault("server.http.max_body_bytes", 4<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.slow_threshold", 500*time.Millisecond)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.service_name", "geodesicd")
	v.SetDefault("tracing.sampler_ratio", 1.0)
	v.SetDefault("geodesic.steps", 3)
	v.SetDefault("geodesic.circle_vertices", 24)
	v.SetDefault("geodesic.split", true)
	v.SetDefault("geodesic.max_points", 1<<20)
	v.SetDefault("geodesic.max_depth", 12)
	v.SetDefault("cache.shards", 64)
	v.SetDefault("cache.life_window", 10*time.Minute)
	v.SetDefault("cache.clean_window", time.Minute)
	v.SetDefault("cache.max_entry_size", 4096)
	v.SetDefault("cache.hard_max_cache_size", 256)
	v.SetDefault("snowflake.type", "snowflake")
	v.SetDefault("ratelimit.rate", 200)
	v.SetDefault("ratelimit.burst", 400)
}

// Load 加载配置文件、环境变量覆盖并校验，随后监听文件变更.
func Load(path string, conf any) error {
	if err := load(vInstance, path, conf); err != nil {
		return err
	}
	watch(vInstance, conf)
	return nil
}

func load(v *viper.Viper, path string, conf any) error {
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}

	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	if err := validator.New().Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func watch(v *viper.Viper, conf any) {
	validate := validator.New()
	v.WatchConfig()
	v.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		if unmarshalErr := v.Unmarshal(conf); unmarshalErr != nil {
			slog.Error("reload config unmarshal failed", "error", unmarshalErr)
			return
		}
		if validateErr := validate.Struct(conf); validateErr != nil {
			slog.Error("reload config validation failed", "error", validateErr)
			return
		}

		if level, ok := logLevelOf(conf); ok {
			logging.Default().SetLevel(level)
		}
		slog.Info("config hot-reloaded and validated successfully")

		if cfg, ok := conf.(*Config); ok {
			hooksMu.Lock()
			hooks := append([]func(*Config){}, onReload...)
			hooksMu.Unlock()
			for _, hook := range hooks {
				hook(cfg)
			}
		}
	})
}

// logLevelOf 读取 conf.Log.Level，兼容嵌入了 LogConfig 的自定义配置结构。
func logLevelOf(conf any) (string, bool) {
	if c, ok := conf.(*Config); ok {
		return c.Log.Level, c.Log.Level != ""
	}
	val := reflect.ValueOf(conf)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return "", false
	}
	logField := val.FieldByName("Log")
	if !logField.IsValid() || logField.Kind() != reflect.Struct {
		return "", false
	}
	levelField := logField.FieldByName("Level")
	if !levelField.IsValid() || levelField.Kind() != reflect.String {
		return "", false
	}
	return levelField.String(), levelField.String() != ""
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)
		return
	}

	var configMap map[string]any
	if unmarshalErr := json.Unmarshal(data, &configMap); unmarshalErr != nil {
		slog.Error("failed to unmarshal config for masking", "error", unmarshalErr)
		return
	}

	mask(configMap)

	maskedJSON, marshalErr := json.MarshalIndent(configMap, "  ", "  ")
	if marshalErr != nil {
		slog.Error("failed to marshal masked config", "error", marshalErr)
		return
	}

	slog.Info("Current effective configuration", "config", string(maskedJSON))
}

var sensitiveKeys = []string{"password", "secret", "dsn", "key", "token"}

func mask(configMap map[string]any) {
	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}

		if slice, ok := val.([]any); ok {
			for _, item := range slice {
				if itemMap, ok := item.(map[string]any); ok {
					mask(itemMap)
				}
			}
			continue
		}

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}

// GetViper 返回底层的 Viper 实例.
func GetViper() *viper.Viper {
	return vInstance
}
