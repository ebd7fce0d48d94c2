package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Scoring    ScoringConfig
	Assignment AssignmentConfig
	Reset      ResetConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type ScoringConfig struct {
	// Inclusive bounds every criterion score must satisfy.
	MinScore float64
	MaxScore float64
	// When false, evaluations in submitted or final state are locked
	// against further edits.
	AllowEditSubmitted bool
}

type AssignmentConfig struct {
	// Default number of candidates assigned to one jury member per round.
	DefaultQuota int
}

type ResetConfig struct {
	// Number of resets per initiator inside GuardWindow that triggers the
	// excessive-activity flag.
	GuardThreshold int64
	GuardWindow    time.Duration
	// Audit log entries older than this are purged at startup.
	RetentionDays int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "award_jury"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Scoring: ScoringConfig{
			MinScore:           getEnvAsFloat("SCORE_MIN", 0),
			MaxScore:           getEnvAsFloat("SCORE_MAX", 100),
			AllowEditSubmitted: getEnvAsBool("ALLOW_EDIT_SUBMITTED", false),
		},
		Assignment: AssignmentConfig{
			DefaultQuota: getEnvAsInt("ASSIGNMENT_QUOTA", 10),
		},
		Reset: ResetConfig{
			GuardThreshold: int64(getEnvAsInt("RESET_GUARD_THRESHOLD", 10)),
			GuardWindow:    getEnvAsDuration("RESET_GUARD_WINDOW", "1h"),
			RetentionDays:  getEnvAsInt("AUDIT_RETENTION_DAYS", 365),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
