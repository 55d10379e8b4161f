package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wyfcoding/geodesic/config"
)

func TestInitialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
name = "geodesicd"
environment = "test"

[server.http]
port = 9090

[log]
level = "warn"

[geodesic]
steps = 2
circle_vertices = 12
max_points = 5000
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	b := New("geodesicd", "v1.2.3")
	var cfg config.Config
	if err := b.Initialize([]string{"-config", path}, &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != "v1.2.3" {
		t.Errorf("expected build version, got %q", cfg.Version)
	}
	if cfg.Geodesic.Steps != 2 || cfg.Server.HTTP.Port != 9090 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if b.Logger == nil || b.Logger.Level().String() != "WARN" {
		t.Errorf("logger not rebuilt from config")
	}
}

func TestInitializeBadFlag(t *testing.T) {
	b := New("geodesicd", "dev")
	var cfg config.Config
	if err := b.Initialize([]string{"-unknown"}, &cfg); err == nil {
		t.Error("expected flag parse error")
	}
}

func TestLogConfig(t *testing.T) {
	got := LogConfig("geodesicd", config.LogConfig{Level: "debug", File: "/tmp/x.log", MaxSize: 10, Compress: true})
	if got.Service != "geodesicd" || got.Level != "debug" || got.File != "/tmp/x.log" || got.MaxSize != 10 || !got.Compress {
		t.Errorf("unexpected mapping %+v", got)
	}
}
