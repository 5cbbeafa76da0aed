package config

import (
	"log"
	"os"
	"strconv"

	"unit-chat-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Keys APIKeys
	Ai   AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TranscriptLogPath  string
	CorsAllowedOrigins string
	StorageBackend     string // "file" or "redis"
	StorageFilePath    string
	RedisURL           string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	Model          string
	RequestTimeout int // seconds
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			TranscriptLogPath:  getEnv("TRANSCRIPT_LOG_PATH", "logs/transcript.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			StorageBackend:     getEnv("STORAGE_BACKEND", "file"),
			StorageFilePath:    getEnv("STORAGE_FILE_PATH", "data/chat_store.json"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			Model:          getEnv("GEMINI_MODEL", constant.DefaultGeminiModel),
			RequestTimeout: getEnvAsInt("GEMINI_REQUEST_TIMEOUT", 120),
		},
	}
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
