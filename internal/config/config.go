package config

import (
	"strings"

	"gold_billing_backend/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the application.
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// SchemaPath optionally points at a SQL file applied at startup.
	// Schema normally evolves through the scripts in migrations/, run manually.
	SchemaPath string
}

// AppConfig holds HTTP server and identity settings.
type AppConfig struct {
	Name        string
	Version     string
	Port        string
	CORSOrigins []string
}

// AuthConfig holds JWT settings. When Required is false the API surface is
// open, matching the single-terminal deployments this system ships to.
type AuthConfig struct {
	JWTSecret string
	Required  bool
}

// Load reads configuration from a .env file (if present) and environment
// variables, falling back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment and defaults")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:       utils.Getenv("DB_HOST", "localhost"),
			Port:       utils.Getenv("DB_PORT", "5432"),
			User:       utils.Getenv("DB_USER", "gold_billing_user"),
			Password:   utils.Getenv("DB_PASSWORD", "gold_billing_password"),
			DBName:     utils.Getenv("DB_NAME", "gold_billing_db"),
			SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
		},
		App: AppConfig{
			Name:        utils.Getenv("APP_NAME", "Gold Billing Backend"),
			Version:     utils.Getenv("APP_VERSION", "1.0.0"),
			Port:        utils.Getenv("PORT", "8080"),
			CORSOrigins: splitOrigins(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Auth: AuthConfig{
			JWTSecret: utils.Getenv("JWT_SECRET", "dev-only-gold-billing-secret"),
			Required:  strings.EqualFold(utils.Getenv("AUTH_REQUIRED", "false"), "true"),
		},
	}
	return cfg
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
