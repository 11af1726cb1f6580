package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// File uploads (KYC documents, payment proofs)
	UploadDir     string
	MaxUploadSize int64 // bytes

	// Lending defaults applied when the application omits them
	DefaultInterestRate  decimal.Decimal
	DefaultTenureMonths  int
	DefaultPenaltyAmount decimal.Decimal

	FrontendBaseURL string
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
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "loan-management-app")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE", int64(10<<20))
	viper.SetDefault("DEFAULT_INTEREST_RATE", "0.0375")
	viper.SetDefault("DEFAULT_TENURE_MONTHS", 12)
	viper.SetDefault("DEFAULT_PENALTY_AMOUNT", "500")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	// Environment variables override .env file values which override defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Secret
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1 // Default to 1 hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	// Load JWT Issuer
	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "loan-management-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	defaultRate, err := decimal.NewFromString(viper.GetString("DEFAULT_INTEREST_RATE"))
	if err != nil {
		defaultRate = decimal.NewFromFloat(0.0375)
		log.Printf("Warning: Invalid DEFAULT_INTEREST_RATE. Defaulting to %s.\n", defaultRate.String())
	}

	defaultPenalty, err := decimal.NewFromString(viper.GetString("DEFAULT_PENALTY_AMOUNT"))
	if err != nil {
		defaultPenalty = decimal.NewFromInt(500)
		log.Printf("Warning: Invalid DEFAULT_PENALTY_AMOUNT. Defaulting to %s.\n", defaultPenalty.String())
	}

	defaultTenure := viper.GetInt("DEFAULT_TENURE_MONTHS")
	if defaultTenure <= 0 {
		defaultTenure = 12
		log.Printf("Warning: Invalid DEFAULT_TENURE_MONTHS. Defaulting to %d.\n", defaultTenure)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer
	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.MaxUploadSize = viper.GetInt64("MAX_UPLOAD_SIZE")
	cfg.DefaultInterestRate = defaultRate
	cfg.DefaultTenureMonths = defaultTenure
	cfg.DefaultPenaltyAmount = defaultPenalty
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
