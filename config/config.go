package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"DEV"` // EnvDevelopment or EnvProduction
	Port              int           `env:"PORT" envDefault:"5050"`
	LogLevelRaw       string        `env:"LOG_LEVEL" envDefault:"INFO"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"20s"`
	UserAgent         string        `env:"USER_AGENT" envDefault:"threadtext/1.0 (reddit transcript proxy)"`
	TrustedOrigin     string        `env:"TRUSTED_ORIGIN" envDefault:"https://www.reddit.com/"`
	ProxyURL          string        `env:"PROXY_URL"`
	MaxBodyBytes      int64         `env:"MAX_BODY_BYTES" envDefault:"16777216"`
	LanguageDetection bool          `env:"LANGUAGE_DETECTION" envDefault:"false"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	LogLevel          slog.Level
}

var Config AppConfig

func LoadConfig() error {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		return err
	}

	var err error
	cfg.LogLevel, err = parseLogLevel(cfg.LogLevelRaw)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
