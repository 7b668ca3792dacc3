package utils

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// Server
	AppPort   string `yaml:"APP_PORT"`
	Timezone  string `yaml:"TIMEZONE"`
	LogLevel  string `yaml:"LOG_LEVEL"`
	LogFormat string `yaml:"LOG_FORMAT"`
	RateLimit string `yaml:"RATE_LIMIT"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration, used for catalog dumps
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Redis cache for ingredient lookups. Empty address disables caching.
	RedisAddr       string `yaml:"REDIS_ADDR"`
	RedisPassword   string `yaml:"REDIS_PASSWORD"`
	RedisDB         string `yaml:"REDIS_DB"`
	CacheTTLSeconds string `yaml:"CACHE_TTL_SECONDS"`
}

var (
	config   Config
	configMu sync.RWMutex
)

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"DB_USER":            &c.DBUser,
		"DB_NAME":            &c.DBName,
		"DB_PASSWORD":        &c.DBPassword,
		"DB_PORT":            &c.DBPort,
		"DB_HOST":            &c.DBHost,
		"DB_SSLMODE":         &c.DBSSLMode,
		"APP_PORT":           &c.AppPort,
		"TIMEZONE":           &c.Timezone,
		"LOG_LEVEL":          &c.LogLevel,
		"LOG_FORMAT":         &c.LogFormat,
		"RATE_LIMIT":         &c.RateLimit,
		"JWT_SECRET":         &c.JWTSecret,
		"APP_URL":            &c.AppURL,
		"SMTP_HOST":          &c.SMTPHost,
		"SMTP_PORT":          &c.SMTPPort,
		"SMTP_SENDER_NAME":   &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":    &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD": &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":      &c.AWSS3Bucket,
		"AWS_S3_REGION":      &c.AWSS3Region,
		"AWS_ACCESS_KEY":     &c.AWSAccessKey,
		"AWS_SECRET_KEY":     &c.AWSSecretKey,
		"REDIS_ADDR":         &c.RedisAddr,
		"REDIS_PASSWORD":     &c.RedisPassword,
		"REDIS_DB":           &c.RedisDB,
		"CACHE_TTL_SECONDS":  &c.CacheTTLSeconds,
	}
}

// LoadConfig reads .env and config.yaml (or CONFIG_PATH). Environment variables win over yaml values.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &cfg); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	for key, field := range cfg.fields() {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	configMu.Lock()
	config = cfg
	configMu.Unlock()
}

func GetConfig(key string) string {
	configMu.RLock()
	defer configMu.RUnlock()
	if field, ok := config.fields()[key]; ok {
		return *field
	}
	return ""
}

// GetIntConfig returns fallback when the key is unset or not a number.
func GetIntConfig(key string, fallback int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}
