package utils

import (
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gopkg.in/yaml.v2"
)

// Config mirrors the optional config.yaml file. Values present in the file
// are exported into the environment so everything reads one source.
type Config struct {
	// Extraction
	AnthropicAPIKey string `yaml:"ANTHROPIC_API_KEY"`

	// Auth
	SupabaseJWTSecret string `yaml:"SUPABASE_JWT_SECRET"`
	SupabaseURL       string `yaml:"SUPABASE_URL"`
	ProUserIDs        string `yaml:"PRO_USER_IDS"`

	// Storage
	DatabaseURL  string `yaml:"DATABASE_URL"`
	CacheDBPath  string `yaml:"CACHE_DB_PATH"`
	CacheEnabled string `yaml:"CACHE_ENABLED"`

	// Server
	Port        string `yaml:"PORT"`
	CORSOrigins string `yaml:"CORS_ORIGINS"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
	AWSPublicURL  string `yaml:"AWS_PUBLIC_URL"`
}

func loadConfigFile() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		return
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		log.Warnf("error parsing config.yaml: %s", err)
		return
	}

	setIfEmpty := func(key, value string) {
		if value != "" && os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	setIfEmpty("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	setIfEmpty("SUPABASE_JWT_SECRET", cfg.SupabaseJWTSecret)
	setIfEmpty("SUPABASE_URL", cfg.SupabaseURL)
	setIfEmpty("PRO_USER_IDS", cfg.ProUserIDs)
	setIfEmpty("DATABASE_URL", cfg.DatabaseURL)
	setIfEmpty("CACHE_DB_PATH", cfg.CacheDBPath)
	setIfEmpty("CACHE_ENABLED", cfg.CacheEnabled)
	setIfEmpty("PORT", cfg.Port)
	setIfEmpty("CORS_ORIGINS", cfg.CORSOrigins)
	setIfEmpty("AWS_S3_BUCKET", cfg.AWSS3Bucket)
	setIfEmpty("AWS_S3_REGION", cfg.AWSS3Region)
	setIfEmpty("AWS_S3_ENDPOINT", cfg.AWSS3Endpoint)
	setIfEmpty("AWS_ACCESS_KEY", cfg.AWSAccessKey)
	setIfEmpty("AWS_SECRET_KEY", cfg.AWSSecretKey)
	setIfEmpty("AWS_PUBLIC_URL", cfg.AWSPublicURL)
}

// Settings is the resolved runtime configuration.
type Settings struct {
	AnthropicAPIKey string

	SupabaseJWTSecret string
	SupabaseURL       string
	proUserIDs        map[string]bool

	DatabaseURL  string
	CacheDBPath  string
	CacheEnabled bool

	Port        string
	CORSOrigins string

	AWSS3Bucket   string
	AWSS3Region   string
	AWSS3Endpoint string
	AWSAccessKey  string
	AWSSecretKey  string
	AWSPublicURL  string
}

func LoadSettings() *Settings {
	loadConfigFile()

	s := &Settings{
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		proUserIDs:        map[string]bool{},
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CacheDBPath:       getEnv("CACHE_DB_PATH", "recipeclip.db"),
		CacheEnabled:      getEnvBool("CACHE_ENABLED", true),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:5173"),
		AWSS3Bucket:       os.Getenv("AWS_S3_BUCKET"),
		AWSS3Region:       getEnv("AWS_S3_REGION", "us-east-1"),
		AWSS3Endpoint:     os.Getenv("AWS_S3_ENDPOINT"),
		AWSAccessKey:      os.Getenv("AWS_ACCESS_KEY"),
		AWSSecretKey:      os.Getenv("AWS_SECRET_KEY"),
		AWSPublicURL:      os.Getenv("AWS_PUBLIC_URL"),
	}

	for _, id := range strings.Split(os.Getenv("PRO_USER_IDS"), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			s.proUserIDs[id] = true
		}
	}

	return s
}

// IsSingleTenant reports whether no auth provider is configured. The server
// then treats every request as the local user.
func (s *Settings) IsSingleTenant() bool {
	return s.SupabaseJWTSecret == "" && s.SupabaseURL == ""
}

func (s *Settings) IsProUser(userID string) bool {
	return s.proUserIDs[userID]
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
