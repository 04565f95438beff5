package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	EmailJS   EmailJSConfig
	Page      PageConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

// Enabled reports whether an inquiry archive database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.Database != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether rate limiting has a Redis backend
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	BaseURL    string
	Timeout    time.Duration
}

// PageConfig holds the timing of the page state machines
type PageConfig struct {
	LoadingDuration  time.Duration
	TransitionLead   time.Duration
	TransitionTail   time.Duration
	FormSuccessReset time.Duration
	RevealAllOnMount bool
	SessionIdleTTL   time.Duration
}

func Load() *Config {
	// Values already in the environment win over the file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("EMAILJS_BASE_URL", "https://api.emailjs.com")
	viper.SetDefault("EMAILJS_TIMEOUT_SECONDS", 15)
	viper.SetDefault("PAGE_LOADING_MS", 2300)
	viper.SetDefault("TRANSITION_LEAD_MS", 100)
	viper.SetDefault("TRANSITION_TAIL_MS", 2300)
	viper.SetDefault("FORM_SUCCESS_RESET_MS", 5000)
	viper.SetDefault("REVEAL_ALL_ON_MOUNT", true)
	viper.SetDefault("SESSION_IDLE_TTL_MINUTES", 30)

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		EmailJS: EmailJSConfig{
			ServiceID:  viper.GetString("EMAILJS_SERVICE_ID"),
			TemplateID: viper.GetString("EMAILJS_TEMPLATE_ID"),
			PublicKey:  viper.GetString("EMAILJS_PUBLIC_KEY"),
			PrivateKey: viper.GetString("EMAILJS_PRIVATE_KEY"),
			BaseURL:    viper.GetString("EMAILJS_BASE_URL"),
			Timeout:    time.Duration(viper.GetInt("EMAILJS_TIMEOUT_SECONDS")) * time.Second,
		},
		Page: PageConfig{
			LoadingDuration:  time.Duration(viper.GetInt("PAGE_LOADING_MS")) * time.Millisecond,
			TransitionLead:   time.Duration(viper.GetInt("TRANSITION_LEAD_MS")) * time.Millisecond,
			TransitionTail:   time.Duration(viper.GetInt("TRANSITION_TAIL_MS")) * time.Millisecond,
			FormSuccessReset: time.Duration(viper.GetInt("FORM_SUCCESS_RESET_MS")) * time.Millisecond,
			RevealAllOnMount: viper.GetBool("REVEAL_ALL_ON_MOUNT"),
			SessionIdleTTL:   time.Duration(viper.GetInt("SESSION_IDLE_TTL_MINUTES")) * time.Minute,
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
