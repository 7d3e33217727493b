package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/techizeBuilder/sunrise-production-api/internal/models"
)

// Load reads configuration from the environment, with .env as fallback
func Load() (models.Config, error) {
	var cfg models.Config

	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return cfg, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}

	dsn := os.Getenv("DATABASE_DSN")
	devDSN := os.Getenv("DEV_DATABASE_DSN")
	if dsn == "" && devDSN == "" {
		return cfg, fmt.Errorf("DATABASE_DSN or DEV_DATABASE_DSN must be set")
	}

	cfg.Port = port
	cfg.Env = env
	cfg.DB = models.DBConfig{
		DSN:    dsn,
		DEVDSN: devDSN,
	}
	return cfg, nil
}
