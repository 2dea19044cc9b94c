package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Economy holds the tuning constants of the CBCoin engine. These are
// configuration data, not design: defaults mirror the long-running
// production values and a few operational knobs can be overridden from
// the environment.
type Economy struct {
	// Daily claim.
	DailyBase     int64
	DailyBonusMax int64
	DailyCooldown time.Duration

	// Work.
	WorkCooldown time.Duration

	// Mining.
	MineBase            int64
	MineBonusMax        int64
	MineXPThreshold     int64
	MineCooldown        time.Duration
	MineDailyLimit      int
	MineSpecialItemRate float64

	// Fishing.
	FishCooldown   time.Duration
	FishDailyLimit int

	// Robbery.
	RobCooldown        time.Duration
	RobDailyLimit      int
	RobBaseSuccessRate float64
	RobSuccessRateCap  float64
	RobMaxStealPercent float64
	RobAbsoluteCap     int64
	RobPenaltyPercent  float64
	RobMinTargetBal    int64

	// Games.
	MinBet        int64
	MaxBet        int64
	GamesMinLevel int
	FlipPayout    float64

	// Transfers.
	TransferMin      int64
	TransferMax      int64
	TransferDailyCap int64
	TransferTaxRate  float64

	// Leveling.
	XPPerLevel      int
	LevelMultiplier float64
}

// DefaultEconomy returns the production tuning values.
func DefaultEconomy() Economy {
	return Economy{
		DailyBase:     1000,
		DailyBonusMax: 500,
		DailyCooldown: 24 * time.Hour,

		WorkCooldown: time.Hour,

		MineBase:            1000,
		MineBonusMax:        4000,
		MineXPThreshold:     3000,
		MineCooldown:        10 * time.Second,
		MineDailyLimit:      50,
		MineSpecialItemRate: 0.1,

		FishCooldown:   30 * time.Second,
		FishDailyLimit: 50,

		RobCooldown:        2 * time.Hour,
		RobDailyLimit:      50,
		RobBaseSuccessRate: 0.6,
		RobSuccessRateCap:  0.9,
		RobMaxStealPercent: 0.3,
		RobAbsoluteCap:     5000,
		RobPenaltyPercent:  0.5,
		RobMinTargetBal:    100,

		MinBet:        100,
		MaxBet:        1000000,
		GamesMinLevel: 2,
		FlipPayout:    1.8,

		TransferMin:      100,
		TransferMax:      1000000,
		TransferDailyCap: 5000000,
		TransferTaxRate:  0.05,

		XPPerLevel:      1000,
		LevelMultiplier: 1.5,
	}
}

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	BotName         string
	SentryDSN       string
	MongoDBURI      string
	MongoDBDatabase string
	GeminiAPIKey    string
	GeminiModel     string
	PersonaDir      string
	DefaultLanguage string
	Workers         int
	Economy         Economy
}

// LoadConfig loads configuration from environment variables. It attempts
// to load a .env file if present but prioritizes actual environment
// variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	workers, err := strconv.Atoi(getEnv("WORKERS", "4"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid WORKERS: %q", getEnv("WORKERS", "4"))
	}

	eco := DefaultEconomy()
	if v := os.Getenv("DAILY_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DAILY_COOLDOWN: %w", err)
		}
		eco.DailyCooldown = d
	}
	if v := os.Getenv("WORK_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WORK_COOLDOWN: %w", err)
		}
		eco.WorkCooldown = d
	}
	if v := os.Getenv("ROB_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ROB_COOLDOWN: %w", err)
		}
		eco.RobCooldown = d
	}
	if v := os.Getenv("TRANSFER_TAX_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 || rate >= 1 {
			return nil, fmt.Errorf("invalid TRANSFER_TAX_RATE: %q", v)
		}
		eco.TransferTaxRate = rate
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Debug:           debug,
		Version:         getEnv("VERSION", "dev"),
		BotName:         getEnv("BOT_NAME", "Amanda"),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", "AmandaeCBcoin"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		PersonaDir:      getEnv("PERSONA_DIR", "./PersonBOT"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "pt"),
		Workers:         workers,
		Economy:         eco,
	}

	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set. AI chat disabled.")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
