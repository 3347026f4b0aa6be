// Package config loads runtime settings for the server, worker and CLI.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file named by CONFIG_FILE, then environment variables (a
// .env file in the working directory is loaded into the environment first).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	// Browser origins allowed to open the outreach websocket. Empty means
	// same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Profile-data API (RapidAPI).
	ProfileAPIHost        string        `yaml:"profile_api_host"`
	ProfileAPIBaseURL     string        `yaml:"profile_api_base_url"`
	ProfileAPIKey         string        `yaml:"profile_api_key"`
	ProfileAPIFallbackKey string        `yaml:"profile_api_fallback_key"`
	ProfileAPITimeout     time.Duration `yaml:"profile_api_timeout"`
	FetchConcurrently     bool          `yaml:"fetch_concurrently"`

	// Text generation (Gemini).
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	GeminiBaseURL string `yaml:"gemini_base_url"`

	// Identity provider tokens. One of the two must be set.
	JWTSecret        string `yaml:"jwt_secret"`
	JWTPublicKeyFile string `yaml:"jwt_public_key_file"`

	// Activity events. Empty AMQPURL keeps events in process.
	AMQPURL       string `yaml:"amqp_url"`
	ActivityQueue string `yaml:"activity_queue"`

	// Lead upload archive. Empty bucket disables archiving.
	S3Bucket       string `yaml:"s3_bucket"`
	S3Region       string `yaml:"s3_region"`
	S3BaseEndpoint string `yaml:"s3_base_endpoint"`
	S3AccessKey    string `yaml:"s3_access_key"`
	S3SecretKey    string `yaml:"s3_secret_key"`
}

// LoadDefaults populates development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.ProfileAPIHost = "fresh-linkedin-profile-data.p.rapidapi.com"
	c.ProfileAPIBaseURL = "https://fresh-linkedin-profile-data.p.rapidapi.com"
	c.ProfileAPITimeout = 30 * time.Second
	c.GeminiModel = "gemini-2.5-flash"
	c.ActivityQueue = "coldreach_activity"
	c.S3Region = "us-east-1"
}

// Load builds a Config from defaults, CONFIG_FILE and the environment.
func Load() (*Config, error) {
	// .env is optional; the OS environment is enough in containers.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.ProfileAPIHost, "RAPIDAPI_HOST")
	setString(&c.ProfileAPIBaseURL, "RAPIDAPI_BASE_URL")
	setString(&c.ProfileAPIKey, "RAPIDAPI_KEY")
	setString(&c.ProfileAPIFallbackKey, "RAPIDAPI_KEY_FALLBACK")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.GeminiBaseURL, "GEMINI_BASE_URL")
	setString(&c.JWTSecret, "AUTH_JWT_SECRET")
	setString(&c.JWTPublicKeyFile, "AUTH_JWT_PUBLIC_KEY_FILE")
	setString(&c.AMQPURL, "AMQP_URL")
	setString(&c.ActivityQueue, "ACTIVITY_QUEUE")
	setString(&c.S3Bucket, "S3_BUCKET")
	setString(&c.S3Region, "S3_REGION")
	setString(&c.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&c.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "S3_SECRET_KEY")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("PROFILE_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PROFILE_API_TIMEOUT: %w", err)
		}
		c.ProfileAPITimeout = d
	}
	if v := os.Getenv("FETCH_CONCURRENTLY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FETCH_CONCURRENTLY: %w", err)
		}
		c.FetchConcurrently = b
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	} else if os.Getenv("DB_HOST") != "" {
		c.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"), envOr("DB_PORT", "5432"), os.Getenv("DB_NAME"),
		)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
