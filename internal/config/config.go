package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Email  EmailConfig
	Editor EditorConfig
}

// EditorConfig holds the defaults of new editing sessions.
type EditorConfig struct {
	SessionTTL                time.Duration `mapstructure:"session_ttl"`
	DefaultTaxRate            float64       `mapstructure:"default_tax_rate"`
	DefaultSellerJurisdiction string        `mapstructure:"default_seller_jurisdiction"`
	DefaultCompanyName        string        `mapstructure:"default_company_name"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify bearer tokens issued by the
// dashboard's identity service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for exported PDFs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether a bucket is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the INVOICEDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicedesk")
	v.SetDefault("db.password", "invoicedesk_secret")
	v.SetDefault("db.name", "invoicedesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "invoicedesk")

	// S3 defaults; an empty bucket disables PDF upload
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "billing@invoicedesk.local")
	v.SetDefault("email.from_name", "InvoiceDesk")

	// Editor defaults
	v.SetDefault("editor.session_ttl", "2h")
	v.SetDefault("editor.default_tax_rate", 18)
	v.SetDefault("editor.default_seller_jurisdiction", "")
	v.SetDefault("editor.default_company_name", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                        "INVOICEDESK_SERVER_PORT",
		"server.read_timeout":                "INVOICEDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":               "INVOICEDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":                 "INVOICEDESK_SERVER_ENVIRONMENT",
		"db.host":                            "INVOICEDESK_DB_HOST",
		"db.port":                            "INVOICEDESK_DB_PORT",
		"db.user":                            "INVOICEDESK_DB_USER",
		"db.password":                        "INVOICEDESK_DB_PASSWORD",
		"db.name":                            "INVOICEDESK_DB_NAME",
		"db.sslmode":                         "INVOICEDESK_DB_SSLMODE",
		"db.max_open":                        "INVOICEDESK_DB_MAX_OPEN",
		"db.max_idle":                        "INVOICEDESK_DB_MAX_IDLE",
		"jwt.secret":                         "INVOICEDESK_JWT_SECRET",
		"jwt.issuer":                         "INVOICEDESK_JWT_ISSUER",
		"s3.region":                          "INVOICEDESK_S3_REGION",
		"s3.bucket":                          "INVOICEDESK_S3_BUCKET",
		"s3.endpoint":                        "INVOICEDESK_S3_ENDPOINT",
		"s3.access_key":                      "INVOICEDESK_S3_ACCESS_KEY",
		"s3.secret_key":                      "INVOICEDESK_S3_SECRET_KEY",
		"s3.presign_expiry":                  "INVOICEDESK_S3_PRESIGN_EXPIRY",
		"log.level":                          "INVOICEDESK_LOG_LEVEL",
		"log.format":                         "INVOICEDESK_LOG_FORMAT",
		"cors.allowed_origins":               "INVOICEDESK_CORS_ALLOWED_ORIGINS",
		"email.provider":                     "INVOICEDESK_EMAIL_PROVIDER",
		"email.region":                       "INVOICEDESK_EMAIL_REGION",
		"email.from_address":                 "INVOICEDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":                    "INVOICEDESK_EMAIL_FROM_NAME",
		"editor.session_ttl":                 "INVOICEDESK_EDITOR_SESSION_TTL",
		"editor.default_tax_rate":            "INVOICEDESK_EDITOR_DEFAULT_TAX_RATE",
		"editor.default_seller_jurisdiction": "INVOICEDESK_EDITOR_DEFAULT_SELLER_JURISDICTION",
		"editor.default_company_name":        "INVOICEDESK_EDITOR_DEFAULT_COMPANY_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOICEDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	cfg.Editor = EditorConfig{
		SessionTTL:                v.GetDuration("editor.session_ttl"),
		DefaultTaxRate:            v.GetFloat64("editor.default_tax_rate"),
		DefaultSellerJurisdiction: v.GetString("editor.default_seller_jurisdiction"),
		DefaultCompanyName:        v.GetString("editor.default_company_name"),
	}
	if cfg.Editor.SessionTTL <= 0 {
		return nil, fmt.Errorf("config: editor.session_ttl must be positive, got %s", cfg.Editor.SessionTTL)
	}
	if cfg.Editor.DefaultTaxRate < 0 {
		return nil, fmt.Errorf("config: editor.default_tax_rate must not be negative, got %v", cfg.Editor.DefaultTaxRate)
	}

	return cfg, nil
}
