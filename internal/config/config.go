package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Kakao    KakaoConfig
	SMS      SMSConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	// PENDING orders untouched past this many minutes are failed by the sweep.
	PendingTimeoutMinutes int
}

type DatabaseConfig struct {
	Connection string
}

type KakaoConfig struct {
	BaseURL   string
	SecretKey string
	CID       string
}

type SMSConfig struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	SenderLine string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                  getEnv("APP_PORT", "3000"),
			BaseURL:               getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:             getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:           getEnv("GO_ENV", "development"),
			LogFilePath:           getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:               getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
			PendingTimeoutMinutes: getEnvAsInt("PENDING_ORDER_TIMEOUT_MINUTES", 30),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Kakao: KakaoConfig{
			BaseURL:   getEnv("KAKAOPAY_BASE_URL", "https://open-api.kakaopay.com"),
			SecretKey: getEnv("KAKAOPAY_SECRET_KEY", ""),
			CID:       getEnv("KAKAOPAY_CID", "TC0ONETIME"),
		},
		SMS: SMSConfig{
			BaseURL:    getEnv("SMS_BASE_URL", "https://api.coolsms.co.kr"),
			APIKey:     getEnv("SMS_API_KEY", ""),
			APISecret:  getEnv("SMS_API_SECRET", ""),
			SenderLine: getEnv("SMS_SENDER_LINE", ""),
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
