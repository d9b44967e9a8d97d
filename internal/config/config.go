package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type USVConfig struct {
	BaseURL        string        `yaml:"base_url"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	DryRun         bool          `yaml:"dry_run"`
}

type ResetConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type RateLimitConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Requests  int           `yaml:"requests"`
	Window    time.Duration `yaml:"window"`
	RedisAddr string        `yaml:"redis_addr"` // empty: in-process limiter
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"` // public URL used in reset links
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	USV       USVConfig       `yaml:"usv"`
	Reset     ResetConfig     `yaml:"reset"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

func LoadConfig() *Config {
	path := os.Getenv("CLUBPORTAL_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
	if cfg.USV.AttemptTimeout <= 0 {
		cfg.USV.AttemptTimeout = 30 * time.Second
	}
	if cfg.Reset.TokenTTL <= 0 {
		cfg.Reset.TokenTTL = time.Hour
	}
	if cfg.RateLimit.Requests <= 0 {
		cfg.RateLimit.Requests = 10
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	return &cfg
}
