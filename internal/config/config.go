package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host string
	Port string
}

// TLSConfig holds optional TLS settings for the gateway
type TLSConfig struct {
	Enabled    bool
	CertFile   string
	KeyFile    string
	MinVersion string
}

// DataConfig holds on-disk locations
type DataConfig struct {
	Path   string
	DBPath string
}

// EngineConfig holds compositing engine settings
type EngineConfig struct {
	// TransitionTimeout is how long a scheduled transition waits for the
	// source_loaded signal before switching anyway.
	TransitionTimeout time.Duration
	StatsInterval     time.Duration
	FPS               int
}

// DiscoveryConfig holds mDNS advertisement settings
type DiscoveryConfig struct {
	Enabled  bool
	Instance string
}

// Config is the full service configuration
type Config struct {
	Server    ServerConfig
	TLS       TLSConfig
	Data      DataConfig
	Engine    EngineConfig
	Discovery DiscoveryConfig
	LogLevel  string
}

// LoadConfig reads configuration from environment variables, falling back to defaults
func LoadConfig() *Config {
	dataPath := getEnv("DATA_PATH", "./data")

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8040"),
		},
		TLS: TLSConfig{
			Enabled:    getEnvBool("TLS_ENABLED", false),
			CertFile:   getEnv("TLS_CERT_FILE", "./certs/server.crt"),
			KeyFile:    getEnv("TLS_KEY_FILE", "./certs/server.key"),
			MinVersion: getEnv("TLS_MIN_VERSION", "1.2"),
		},
		Data: DataConfig{
			Path:   dataPath,
			DBPath: getEnv("DB_PATH", filepath.Join(dataPath, "slidecast.db")),
		},
		Engine: EngineConfig{
			TransitionTimeout: getEnvDuration("TRANSITION_TIMEOUT", 2*time.Second),
			StatsInterval:     getEnvDuration("STATS_INTERVAL", time.Second),
			FPS:               getEnvInt("ENGINE_FPS", 30),
		},
		Discovery: DiscoveryConfig{
			Enabled:  getEnvBool("MDNS_ENABLED", true),
			Instance: getEnv("MDNS_INSTANCE", hostname()),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "slidecast"
	}
	return name
}
