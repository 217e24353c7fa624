package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"TACTICSHUB_HTTP_ADDR" envDefault:":8080"`
	TCPAddr  string `env:"TACTICSHUB_TCP_ADDR" envDefault:":7070"`

	// browser origins allowed to call the API; empty disables CORS
	CORSOrigins []string `env:"TACTICSHUB_CORS_ORIGINS" envSeparator:","`
}

type AuthConfig struct {
	JWTSecret   string        `env:"TACTICSHUB_JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer   string        `env:"TACTICSHUB_JWT_ISSUER" envDefault:"tacticshub"`
	JWTDuration time.Duration `env:"TACTICSHUB_JWT_TTL" envDefault:"24h"`

	// optional admin seed; skipped unless email and password are both set
	AdminUsername string `env:"TACTICSHUB_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"TACTICSHUB_ADMIN_EMAIL"`
	AdminPassword string `env:"TACTICSHUB_ADMIN_PASSWORD"`
}

type ClientConfig struct {
	APIURL      string        `env:"TACTICSHUB_API_URL" envDefault:"http://localhost:8080"`
	SyncAddr    string        `env:"TACTICSHUB_SYNC_ADDR" envDefault:"127.0.0.1:7070"`
	CacheDir    string        `env:"TACTICSHUB_CACHE_DIR"`
	CacheTTL    time.Duration `env:"TACTICSHUB_CACHE_TTL" envDefault:"1h"`
	TokenPath   string        `env:"TACTICSHUB_TOKEN_PATH"`
	HTTPTimeout time.Duration `env:"TACTICSHUB_HTTP_TIMEOUT" envDefault:"15s"`
}

func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse server env: %w", err)
	}
	return cfg, nil
}

func LoadAuthConfig() (AuthConfig, error) {
	var cfg AuthConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse auth env: %w", err)
	}
	if cfg.JWTDuration <= 0 {
		cfg.JWTDuration = 24 * time.Hour
	}
	return cfg, nil
}

func LoadClientConfig() (ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse client env: %w", err)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(HomeDir(), ".tacticshub", "cache")
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = filepath.Join(HomeDir(), ".tacticshub", "token.json")
	}
	return cfg, nil
}

// HomeDir falls back to the working directory when no home is set.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}
