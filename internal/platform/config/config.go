package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Rate provider config
	RateAPIBaseURL string
	RateAPIKey     string
	RateAPITimeout time.Duration

	// Rate limiting, in ulule/limiter formatted notation (e.g. "100-M")
	RateLimit string

	// CORS
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_API_BASE_URL", "https://v6.exchangerate-api.com")
	viper.SetDefault("RATE_API_KEY", "")
	viper.SetDefault("RATE_API_TIMEOUT", "8s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateAPIBaseURL = viper.GetString("RATE_API_BASE_URL")
	cfg.RateAPIKey = viper.GetString("RATE_API_KEY")
	if cfg.RateAPIKey == "" {
		log.Println("Warning: RATE_API_KEY not set. Vendor matching will fail until configured.")
	}

	rateTimeoutStr := viper.GetString("RATE_API_TIMEOUT")
	rateTimeout, err := time.ParseDuration(rateTimeoutStr)
	if err != nil {
		rateTimeout = 8 * time.Second
		log.Printf("Warning: Invalid value for RATE_API_TIMEOUT ('%s'). Defaulting to %s.\n", rateTimeoutStr, rateTimeout.String())
	}
	cfg.RateAPITimeout = rateTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	origins := viper.GetString("CORS_ALLOWED_ORIGINS")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
		}
	}

	return cfg, nil
}
