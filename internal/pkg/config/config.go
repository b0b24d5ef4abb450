package config

import (
	"fmt"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

// Config carries all process configuration. It is built once at startup and
// handed to the components that need it; nothing reads credentials from the
// environment after this point.
type Config struct {
	AppHost string
	AppPort string

	StripeSecretKey     string
	StripeWebhookSecret string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Comma separated list of origins allowed to call the creation endpoints.
	AllowedOrigins string

	CheckoutSuccessURL string
	CheckoutCancelURL  string
}

// Load reads the configuration from the environment (see env.SetupEnvFile).
func Load() *Config {
	return &Config{
		AppHost:             env.GetEnv("APP_HOST", "localhost"),
		AppPort:             env.GetEnv("APP_PORT", "5000"),
		StripeSecretKey:     env.GetEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		DBHost:              env.GetEnv("DB_HOST", "127.0.0.1"),
		DBUser:              env.GetEnv("DB_USER", ""),
		DBPassword:          env.GetEnv("DB_PASSWORD", ""),
		DBName:              env.GetEnv("DB_NAME", ""),
		DBPort:              env.GetEnv("DB_PORT", "3306"),
		AllowedOrigins:      env.GetEnv("ALLOWED_ORIGINS", "*"),
		CheckoutSuccessURL:  env.GetEnv("CHECKOUT_SUCCESS_URL", "http://localhost:8000/success.html"),
		CheckoutCancelURL:   env.GetEnv("CHECKOUT_CANCEL_URL", "http://localhost:8000/cancel.html"),
	}
}

// DSN returns the MySQL data source name for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// MigrateURL returns the database URL used by golang-migrate.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
