package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Upload    UploadConfig
	Export    ExportConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	// DataDir holds the embedded server's cluster when no password is set
	DataDir string
	// Debug logs every SQL statement
	Debug bool
}

// Embedded reports whether the bundled PostgreSQL should be started
func (d DatabaseConfig) Embedded() bool {
	return d.Password == "" && (d.Host == "localhost" || d.Host == "127.0.0.1")
}

// RedisConfig holds the optional cache / rate limiter connection
type RedisConfig struct {
	URL string
}

// Enabled reports whether a Redis URL was configured
func (r RedisConfig) Enabled() bool { return r.URL != "" }

// KafkaConfig holds the optional event stream settings
type KafkaConfig struct {
	Brokers  string
	Topic    string
	Username string
	Password string
}

// UploadConfig bounds multipart report uploads
type UploadConfig struct {
	MaxBytes int64
}

// ExportConfig selects the charset of CSV downloads ("latin1" or "utf8")
type ExportConfig struct {
	Encoding string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	maxMB, err := strconv.Atoi(getEnv("UPLOAD_MAX_MB", "20"))
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_MB must be a positive integer")
	}

	encoding := strings.ToLower(getEnv("EXPORT_ENCODING", "latin1"))
	if encoding != "latin1" && encoding != "utf8" {
		return nil, fmt.Errorf("EXPORT_ENCODING must be latin1 or utf8, got %q", encoding)
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "inventario"),
			DataDir:  getEnv("PG_DATA_DIR", "./db_data"),
			Debug:    getEnv("DB_DEBUG", "false") == "true",
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:  os.Getenv("KAFKA_BROKERS"),
			Topic:    getEnv("KAFKA_TOPIC", "inventario.events"),
			Username: os.Getenv("KAFKA_USERNAME"),
			Password: os.Getenv("KAFKA_PASSWORD"),
		},
		Upload: UploadConfig{
			MaxBytes: int64(maxMB) << 20,
		},
		Export: ExportConfig{
			Encoding: encoding,
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
