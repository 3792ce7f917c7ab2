// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 是服務啟動需要的全部環境設定。
// JWT_SECRET 不在這裡，發 token 時才由 service 讀取
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`

	BcryptCost        int `env:"BCRYPT_COST" envDefault:"12"`
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
	MaxNameLength     int `env:"MAX_NAME_LENGTH" envDefault:"50"`
	MaxEmailLength    int `env:"MAX_EMAIL_LENGTH" envDefault:"254"`

	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	WorkerCount int           `env:"WORKER_COUNT" envDefault:"1"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`
}

// Load 從環境變數讀取設定
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
