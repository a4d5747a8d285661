package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	LogMode  bool
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type AuthConfig struct {
	SecretKey          string
	SessionIdleTimeout time.Duration // 0 disables expiry
	CookieSecure       bool
	PasswordIterations int
}

type SMTPConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Recipient string
}

// Enabled reports whether outbound contact mail can be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Recipient != ""
}

type Config struct {
	Port        string
	Storage     string
	CORSOrigins []string
	DB          DatabaseConfig
	Auth        AuthConfig
	SMTP        SMTPConfig
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

// Load reads the configuration from the environment. storage overrides STORAGE
// when non-empty; without either the durable postgres backend is used. All
// problems are reported together.
func Load(storage string) (*Config, error) {
	var problems []string

	cfg := &Config{
		Port:        getOptionalEnv("PORT", "8080"),
		Storage:     getOptionalEnv("STORAGE", StoragePostgres),
		CORSOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	if storage != "" {
		cfg.Storage = storage
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		cfg.DB = DatabaseConfig{
			Host:     getRequiredEnv("DB_HOST", &problems),
			Port:     getOptionalEnv("DB_PORT", "5432"),
			User:     getRequiredEnv("DB_USER", &problems),
			Password: getRequiredEnv("DB_PASSWORD", &problems),
			Name:     getRequiredEnv("DB_NAME", &problems),
			SSLMode:  getOptionalEnv("DB_SSLMODE", "disable"),
			LogMode:  getOptionalEnvBool("DB_LOG", false, &problems),
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown storage type: %s", cfg.Storage))
	}

	cfg.Auth = AuthConfig{
		SecretKey:          getRequiredEnv("SECRET_KEY", &problems),
		SessionIdleTimeout: getOptionalEnvDuration("SESSION_IDLE_TIMEOUT", 0, &problems),
		CookieSecure:       getOptionalEnvBool("COOKIE_SECURE", false, &problems),
		PasswordIterations: getOptionalEnvInt("PASSWORD_HASH_ITERATIONS", 0, &problems),
	}
	if cfg.Auth.SessionIdleTimeout < 0 {
		problems = append(problems, "SESSION_IDLE_TIMEOUT must not be negative")
	}

	cfg.SMTP = SMTPConfig{
		Host:      getOptionalEnv("SMTP_HOST", ""),
		Port:      getOptionalEnv("SMTP_PORT", "587"),
		User:      getOptionalEnv("SMTP_USER", ""),
		Password:  getOptionalEnv("SMTP_PASSWORD", ""),
		Recipient: getOptionalEnv("CONTACT_RECIPIENT", ""),
	}

	if len(problems) > 0 {
		return nil, apperror.NewConfigError("configuration errors:\n- "+strings.Join(problems, "\n- "), nil)
	}
	return cfg, nil
}

func getRequiredEnv(key string, problems *[]string) string {
	value := os.Getenv(key)
	if value == "" {
		*problems = append(*problems, fmt.Sprintf("missing required environment variable: %s", key))
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, problems *[]string) int {
	raw := getOptionalEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, raw))
		return defaultValue
	}
	return value
}

func getOptionalEnvBool(key string, defaultValue bool, problems *[]string) bool {
	raw := getOptionalEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected boolean, got '%s'", key, raw))
		return defaultValue
	}
	return value
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, problems *[]string) time.Duration {
	raw := getOptionalEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected duration, got '%s'", key, raw))
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
