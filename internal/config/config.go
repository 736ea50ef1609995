package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the attendance engine knobs.
type AttendanceConfig struct {
	// Timezone is the company timezone dates are interpreted in.
	Timezone string

	// AbsentBufferMinutes is how long after shift end the finalizer waits
	// before marking a no-show absent.
	AbsentBufferMinutes int

	// FinalizeIntervalMinutes is the cron interval for finalization runs.
	FinalizeIntervalMinutes int

	// BulkFinalizeDelayMS is the pause between dates in a range backfill.
	BulkFinalizeDelayMS int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Attendance engine configuration
	absentBuffer, err := strconv.Atoi(getEnv("FINALIZE_ABSENT_BUFFER_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINALIZE_ABSENT_BUFFER_MINUTES: %w", err)
	}
	finalizeInterval, err := strconv.Atoi(getEnv("FINALIZE_INTERVAL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid FINALIZE_INTERVAL_MINUTES: %w", err)
	}
	bulkDelay, err := strconv.Atoi(getEnv("BULK_FINALIZE_DELAY_MS", "250"))
	if err != nil {
		return nil, fmt.Errorf("invalid BULK_FINALIZE_DELAY_MS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Timezone:                getEnv("COMPANY_TIMEZONE", "UTC"),
		AbsentBufferMinutes:     absentBuffer,
		FinalizeIntervalMinutes: finalizeInterval,
		BulkFinalizeDelayMS:     bulkDelay,
	}

	return config, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host,
		c.Database.Port, c.Database.Name, c.Database.SSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
