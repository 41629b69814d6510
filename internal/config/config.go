package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/pricing"
)

// Config параметры сервиса из окружения
type Config struct {
	Addr        string
	JWTSecret   string
	TokenTTL    time.Duration
	PlatformFee float64
	AMQPURL     string
	Exchange    string
}

// Load читает .env (если есть) и переменные окружения
func Load() Config {
	// .env опционален, в контейнере конфиг приходит окружением
	_ = godotenv.Load()

	return Config{
		Addr:        ":" + getEnv("PORT", "9091"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 12*time.Hour),
		PlatformFee: getEnvFloat("PLATFORM_FEE", pricing.DefaultPlatformFee),
		AMQPURL:     getEnv("AMQP_URL", ""),
		Exchange:    getEnv("AMQP_EXCHANGE", "smartagro.events"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
