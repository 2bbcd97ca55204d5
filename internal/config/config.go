package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	// Server
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Database
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Word templates
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`

	// Record timestamps are site-local strings; TIME_OFFSET is the site
	// office's offset from UTC.
	TimeOffset time.Duration `env:"TIME_OFFSET" envDefault:"2h"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`

	// CORS
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
