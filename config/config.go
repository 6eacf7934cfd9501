package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV       string `env:"GO_ENV" envDefault:"development"`
	DATABASE_URL string `env:"DATABASE_URL"`
	DB_USER_NAME string `env:"DB_USER_NAME"`
	DB_PASSWORD  string `env:"DB_PASSWORD"`
	DB_NAME      string `env:"DB_NAME"`
	DB_HOST      string `env:"DB_HOST" envDefault:"localhost"`
	DB_PORT      string `env:"DB_PORT" envDefault:"5432"`
	DB_SSL_MODE  string `env:"DB_SSL_MODE" envDefault:"disable"`
	PORT         int    `env:"PORT" envDefault:"8080"`
	// JWT Configuration
	JWT_SECRET string `env:"JWT_SECRET"`
	JWT_ISSUER string `env:"JWT_ISSUER" envDefault:"campus-events-api"`
	// Redis Configuration
	REDIS_URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	// HTTP
	ALLOWED_ORIGINS string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	// Scheduler
	CRON_ENABLED bool `env:"CRON_ENABLED" envDefault:"true"`
	// Roster archives (DigitalOcean Spaces / S3)
	DO_SPACES_ACCESS_KEY string `env:"DO_SPACES_ACCESS_KEY"`
	DO_SPACES_SECRET_KEY string `env:"DO_SPACES_SECRET_KEY"`
	DO_SPACES_BUCKET     string `env:"DO_SPACES_BUCKET"`
	DO_SPACES_REGION     string `env:"DO_SPACES_REGION"`
	DO_SPACES_ENDPOINT   string `env:"DO_SPACES_ENDPOINT"`
	// Seeding
	ADMIN_EMAIL    string `env:"ADMIN_EMAIL"`
	ADMIN_PASSWORD string `env:"ADMIN_PASSWORD"`
}

func Get() (*EnviornmentVariable, error) {
	envVariables := &EnviornmentVariable{}
	if err := env.Parse(envVariables); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envVariables.ALLOWED_ORIGINS = strings.TrimSpace(envVariables.ALLOWED_ORIGINS)
	return envVariables, nil
}

// IsProduction reports whether GO_ENV is production
func (e *EnviornmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

// SpacesConfigured reports whether roster archives can be uploaded
func (e *EnviornmentVariable) SpacesConfigured() bool {
	return e.DO_SPACES_BUCKET != "" && e.DO_SPACES_REGION != "" &&
		e.DO_SPACES_ACCESS_KEY != "" && e.DO_SPACES_SECRET_KEY != ""
}
