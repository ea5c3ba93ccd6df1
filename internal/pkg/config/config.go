package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jetfront/jetfront/internal/pkg/models"
)

// InitConfig loads configuration from the environment. In local development
// a .env file at configPath is loaded first.
func InitConfig(configPath string) *models.Config {
	env := GetEnv("APP_ENV", "local")
	if env == "local" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "jetfront")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "dev")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 8080)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "nats://localhost:4222")
	configs.NATS.CAFile = GetEnv("NATS_CA_FILE", "")
	configs.NATS.CertFile = GetEnv("NATS_CERT_FILE", "")
	configs.NATS.KeyFile = GetEnv("NATS_KEY_FILE", "")
	configs.NATS.ConnectTimeout = GetEnvAsDuration("NATS_CONNECT_TIMEOUT", 5*time.Second)

	// JWT config; an empty key disables the authentication gate
	configs.JWT.Key = GetEnv("JWT_KEY", "")
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "")
	configs.JWT.Audience = GetEnv("JWT_AUDIENCE", "")

	// Stream naming config
	configs.Stream.DefaultPrefix = GetEnv("STREAM_PREFIX", "events")

	// WebSocket config
	configs.WS.KeepaliveInterval = GetEnvAsDuration("WS_KEEPALIVE_INTERVAL", 30*time.Second)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
