package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

const sample = `
version = "1.0.0"

[server]
name = "geodesicd"
environment = "test"

[server.http]
port = 9090
read_timeout = "2s"

[log]
level = "debug"

[geodesic]
steps = 4
circle_vertices = 32

[cache]
enabled = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	var cfg Config
	if err := load(viper.New(), writeConfig(t, sample), &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.HTTP.Port != 9090 || cfg.Server.HTTP.ReadTimeout != 2*time.Second {
		t.Errorf("unexpected http config: %+v", cfg.Server.HTTP)
	}
	if cfg.Geodesic.Steps != 4 || cfg.Geodesic.CircleVertices != 32 {
		t.Errorf("unexpected geodesic config: %+v", cfg.Geodesic)
	}
	// 未出现在文件中的字段取默认值
	if !cfg.Geodesic.Split || cfg.Geodesic.MaxPoints != 1<<20 {
		t.Errorf("defaults not applied: %+v", cfg.Geodesic)
	}
	if cfg.Cache.Shards != 64 || cfg.Cache.LifeWindow != 10*time.Minute {
		t.Errorf("cache defaults not applied: %+v", cfg.Cache)
	}
	if cfg.GetHTTPAddr() != ":9090" {
		t.Errorf("unexpected addr %q", cfg.GetHTTPAddr())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_GEODESIC_STEPS", "6")
	var cfg Config
	if err := load(viper.New(), writeConfig(t, sample), &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Geodesic.Steps != 6 {
		t.Errorf("expected env override 6, got %d", cfg.Geodesic.Steps)
	}
}

func TestLoadValidation(t *testing.T) {
	bad := `
[server]
name = "geodesicd"
environment = "staging"

[server.http]
port = 8080
`
	var cfg Config
	if err := load(viper.New(), writeConfig(t, bad), &cfg); err == nil {
		t.Fatal("expected validation error for unknown environment")
	}

	var cfg2 Config
	tooDeep := `
[server]
name = "geodesicd"

[server.http]
port = 8080

[geodesic]
steps = 9
`
	if err := load(viper.New(), writeConfig(t, tooDeep), &cfg2); err == nil {
		t.Fatal("expected validation error for steps > 8")
	}

	if err := load(viper.New(), filepath.Join(t.TempDir(), "missing.toml"), &cfg2); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMask(t *testing.T) {
	m := map[string]any{
		"name": "geodesicd",
		"auth": map[string]any{"api_key": "abc", "Token": "def"},
		"list": []any{map[string]any{"password": "x"}},
	}
	mask(m)
	auth := m["auth"].(map[string]any)
	if auth["api_key"] != "******" || auth["Token"] != "******" {
		t.Errorf("expected masked values: %v", auth)
	}
	if m["list"].([]any)[0].(map[string]any)["password"] != "******" {
		t.Error("expected masked slice item")
	}
	if m["name"] != "geodesicd" {
		t.Error("non-sensitive key must not be masked")
	}
}

func TestLogLevelOf(t *testing.T) {
	if lvl, ok := logLevelOf(&Config{Log: LogConfig{Level: "warn"}}); !ok || lvl != "warn" {
		t.Errorf("expected warn, got %q", lvl)
	}
	custom := &struct{ Log LogConfig }{Log: LogConfig{Level: "error"}}
	if lvl, ok := logLevelOf(custom); !ok || lvl != "error" {
		t.Errorf("expected error, got %q", lvl)
	}
	if _, ok := logLevelOf(&struct{ Name string }{}); ok {
		t.Error("expected no level")
	}
}
