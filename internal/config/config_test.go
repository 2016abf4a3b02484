package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "TLS_ENABLED", "DATA_PATH", "DB_PATH",
		"TRANSITION_TIMEOUT", "STATS_INTERVAL", "ENGINE_FPS", "MDNS_ENABLED", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	a := assert.New(t)

	cfg := LoadConfig()

	a.Equal("0.0.0.0", cfg.Server.Host)
	a.Equal("8040", cfg.Server.Port)
	a.False(cfg.TLS.Enabled)
	a.Equal("1.2", cfg.TLS.MinVersion)
	a.Equal("./data", cfg.Data.Path)
	a.Equal(filepath.Join("./data", "slidecast.db"), cfg.Data.DBPath)
	a.Equal(2*time.Second, cfg.Engine.TransitionTimeout)
	a.Equal(time.Second, cfg.Engine.StatsInterval)
	a.Equal(30, cfg.Engine.FPS)
	a.True(cfg.Discovery.Enabled)
	a.Equal("info", cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("DATA_PATH", "/var/lib/slidecast")
	t.Setenv("DB_PATH", "")
	t.Setenv("TRANSITION_TIMEOUT", "750ms")
	t.Setenv("ENGINE_FPS", "60")
	t.Setenv("MDNS_ENABLED", "false")
	a := assert.New(t)

	cfg := LoadConfig()

	a.Equal("9000", cfg.Server.Port)
	a.True(cfg.TLS.Enabled)
	a.Equal(filepath.Join("/var/lib/slidecast", "slidecast.db"), cfg.Data.DBPath)
	a.Equal(750*time.Millisecond, cfg.Engine.TransitionTimeout)
	a.Equal(60, cfg.Engine.FPS)
	a.False(cfg.Discovery.Enabled)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TLS_ENABLED", "maybe")
	t.Setenv("STATS_INTERVAL", "-1s")
	t.Setenv("ENGINE_FPS", "zero")
	a := assert.New(t)

	cfg := LoadConfig()

	a.False(cfg.TLS.Enabled)
	a.Equal(time.Second, cfg.Engine.StatsInterval)
	a.Equal(30, cfg.Engine.FPS)
}
