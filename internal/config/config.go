package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type InvoicesConfig struct {
	DefaultVATRate     decimal.Decimal
	HighlightThreshold decimal.Decimal
}

type ViewsConfig struct {
	IdleTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type FakeAPIConfig struct {
	Port int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	API         APIConfig
	Invoices    InvoicesConfig
	Views       ViewsConfig
	CORS        CORSConfig
	FakeAPI     FakeAPIConfig
}

const defaultAPIBaseURL = "https://test-backend-g0f7.onrender.com/api"

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("API_BASE_URL")), "/"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Views: ViewsConfig{
			IdleTTL: v.GetDuration("VIEW_IDLE_TTL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		FakeAPI: FakeAPIConfig{
			Port: v.GetInt("FAKE_API_PORT"),
		},
	}

	var err error
	if cfg.Invoices.DefaultVATRate, err = parseDecimal(v.GetString("INVOICE_DEFAULT_VAT_RATE"), "23"); err != nil {
		return nil, fmt.Errorf("INVOICE_DEFAULT_VAT_RATE: %w", err)
	}
	if cfg.Invoices.HighlightThreshold, err = parseDecimal(v.GetString("INVOICE_HIGHLIGHT_THRESHOLD"), "1000"); err != nil {
		return nil, fmt.Errorf("INVOICE_HIGHLIGHT_THRESHOLD: %w", err)
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultAPIBaseURL
	}
	if cfg.Views.IdleTTL <= 0 {
		cfg.Views.IdleTTL = 30 * time.Minute
	}
	if cfg.FakeAPI.Port == 0 {
		cfg.FakeAPI.Port = 7091
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func validate(cfg *Config) error {
	parsed, err := url.Parse(cfg.API.BaseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.API.BaseURL)
	}
	if cfg.HTTP.Port < 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", cfg.HTTP.Port)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative")
	}
	if cfg.Invoices.DefaultVATRate.IsNegative() {
		return fmt.Errorf("INVOICE_DEFAULT_VAT_RATE must not be negative")
	}
	return nil
}

func parseDecimal(raw, fallback string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	return decimal.NewFromString(raw)
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
