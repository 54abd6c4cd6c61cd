package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port"`
	// PublicBaseURL is where the gateway redirects customers back to,
	// e.g. https://shop.example.ir
	PublicBaseURL string `yaml:"public_base_url"`
	AdminAPIKey   string `yaml:"admin_api_key"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	PoolSize int32  `yaml:"pool_size"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PaymentConfig struct {
	ZarinPal struct {
		MerchantID string `yaml:"merchant_id"`
		Sandbox    bool   `yaml:"sandbox"`
	} `yaml:"zarinpal"`
}

type SMSConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type OTPConfig struct {
	CodeTTL     time.Duration `yaml:"code_ttl"`
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
	RevealInDev bool          `yaml:"reveal_in_dev"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	// Domain used for phone-derived pseudo-emails (<phone>@sms.<domain>).
	AccountDomain string `yaml:"account_domain"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Payment  PaymentConfig  `yaml:"payment"`
	SMS      SMSConfig      `yaml:"sms"`
	OTP      OTPConfig      `yaml:"otp"`
	Auth     AuthConfig     `yaml:"auth"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Database.PoolSize <= 0 {
		cfg.Database.PoolSize = 10
	}
	if cfg.OTP.CodeTTL <= 0 {
		cfg.OTP.CodeTTL = 2 * time.Minute
	}
	if cfg.OTP.MaxRequests <= 0 {
		cfg.OTP.MaxRequests = 3
	}
	if cfg.OTP.Window <= 0 {
		cfg.OTP.Window = time.Hour
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = 24 * time.Hour
	}
	if cfg.Auth.AccountDomain == "" {
		cfg.Auth.AccountDomain = "mahdyar.ir"
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}
	if cfg.HTTP.PublicBaseURL == "" {
		return nil, errors.New("http.public_base_url is required")
	}
	if cfg.Payment.ZarinPal.MerchantID == "" {
		return nil, errors.New("payment.zarinpal.merchant_id is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
