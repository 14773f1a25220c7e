package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	VerifyRemote = "remote"
	VerifyJWT    = "jwt"

	StorageSupabase = "supabase"
	StorageS3       = "s3"
)

// Config holds the application configuration.
type Config struct {
	Env           string `mapstructure:"ENDDIT_ENV"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`

	Supabase SupabaseConfig `mapstructure:",squash"`
	Storage  StorageConfig  `mapstructure:",squash"`

	UpstreamTimeout    time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

type SupabaseConfig struct {
	URL        string `mapstructure:"SUPABASE_URL"`
	AnonKey    string `mapstructure:"SUPABASE_ANON_KEY"`
	ServiceKey string `mapstructure:"SUPABASE_SERVICE_KEY"`
	JWTSecret  string `mapstructure:"SUPABASE_JWT_SECRET"`
	VerifyMode string `mapstructure:"IDENTITY_VERIFY_MODE"`
}

type StorageConfig struct {
	Backend         string `mapstructure:"STORAGE_BACKEND"`
	Bucket          string `mapstructure:"STORAGE_BUCKET"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`
	MaxUploadBytes  int64  `mapstructure:"MAX_UPLOAD_BYTES"`
}

var AppConfig *Config

var defaults = map[string]any{
	"ENDDIT_ENV":           "dev",
	"HTTP_ADDR":            ":4000",
	"DATABASE_URL":         "",
	"RUN_MIGRATIONS":       false,
	"SUPABASE_URL":         "",
	"SUPABASE_ANON_KEY":    "",
	"SUPABASE_SERVICE_KEY": "",
	"SUPABASE_JWT_SECRET":  "",
	"IDENTITY_VERIFY_MODE": VerifyRemote,
	"STORAGE_BACKEND":      StorageSupabase,
	"STORAGE_BUCKET":       "images-enddit",
	"S3_REGION":            "",
	"S3_PUBLIC_BASE_URL":   "",
	"MAX_UPLOAD_BYTES":     5 << 20,
	"UPSTREAM_TIMEOUT":     "10s",
	"CORS_ALLOWED_ORIGINS": "*",
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

// LoadMigrationConfig loads the configuration for tools that only touch
// the database, so only DATABASE_URL is required.
func LoadMigrationConfig() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.CORSAllowedOrigins = splitOrigins(cfg.CORSAllowedOrigins)
	return &cfg, nil
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required")
	}

	switch c.Supabase.VerifyMode {
	case VerifyRemote:
	case VerifyJWT:
		if c.Supabase.JWTSecret == "" {
			return fmt.Errorf("SUPABASE_JWT_SECRET is required when IDENTITY_VERIFY_MODE=%s", VerifyJWT)
		}
	default:
		return fmt.Errorf("unknown IDENTITY_VERIFY_MODE %q", c.Supabase.VerifyMode)
	}

	switch c.Storage.Backend {
	case StorageSupabase:
		if c.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required for supabase storage")
		}
	case StorageS3:
		if c.Storage.S3Region == "" {
			return fmt.Errorf("S3_REGION is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// AllowsAllOrigins reports whether CORS is open to any origin.
func (c *Config) AllowsAllOrigins() bool {
	for _, o := range c.CORSAllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.CORSAllowedOrigins) == 0
}

func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
