package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Remote  RemoteConfig
	Store   StoreConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

// RemoteConfig points at the two services the client talks to.
type RemoteConfig struct {
	AuthBaseURL string
	AIBaseURL   string
	AITimeout   time.Duration
	AuthTimeout time.Duration
}

type StoreConfig struct {
	Driver     string // "bolt", "memory", "redis" or "postgres"
	Path       string // bolt file
	RedisURL   string
	Connection string // postgres DSN
	SecretKey  string // enables value encryption when set
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3100"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/kelly.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Remote: RemoteConfig{
			AuthBaseURL: getEnv("AUTH_BASE_URL", "http://10.132.94.222:3001"),
			AIBaseURL:   getEnv("AI_BASE_URL", "http://10.132.94.222:5002"),
			AITimeout:   getEnvAsSeconds("AI_TIMEOUT_SECONDS", 120),
			AuthTimeout: getEnvAsSeconds("AUTH_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "bolt"),
			Path:       getEnv("STORE_PATH", "data/kelly.bolt"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			SecretKey:  getEnv("SECURE_STORE_KEY", ""),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}
