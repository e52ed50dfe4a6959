package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDBPath is where the diary database lives when DB_PATH is not set
const DefaultDBPath = "data/advocate_diary.db"

// Known ENVIRONMENT values
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

type Config struct {
	DBPath      string
	Environment string
	DBLogLevel  string // silent, error, warn, info; empty follows Environment
	UploadDir   string
	// S3-compatible document storage (Cloudflare R2, MinIO, AWS)
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UsePathStyle    bool
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBPath:            getEnv("DB_PATH", DefaultDBPath),
		Environment:       getEnv("ENVIRONMENT", EnvironmentDevelopment),
		DBLogLevel:        strings.ToLower(os.Getenv("DB_LOG_LEVEL")),
		UploadDir:         getEnv("UPLOAD_DIR", "data/documents"),
		S3Endpoint:        firstEnv("S3_ENDPOINT", "R2_ENDPOINT"),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3AccessKeyID:     firstEnv("S3_ACCESS_KEY_ID", "R2_ACCESS_KEY_ID"),
		S3SecretAccessKey: firstEnv("S3_SECRET_ACCESS_KEY", "R2_SECRET_ACCESS_KEY"),
		S3BucketName:      firstEnv("S3_BUCKET_NAME", "R2_BUCKET_NAME"),
		S3UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
	}
}

// IsTest reports whether the process runs under the test configuration
func (c *Config) IsTest() bool {
	return IsTestEnvironment(c.Environment)
}

// IsTestEnvironment is the single test-only guard shared by config and the database manager
func IsTestEnvironment(environment string) bool {
	return environment == EnvironmentTest
}

// S3Configured returns true when every setting needed for object storage is present
func (c *Config) S3Configured() bool {
	return c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3BucketName != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// firstEnv returns the first non-empty variable; R2_* names are accepted for older deployments
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
