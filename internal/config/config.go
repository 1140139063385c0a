package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDBName       string
	RabbitURL         string
	NotifyExchange    string
	NotifyQueue       string
	JWTSecret         string
	SweepInterval     time.Duration
	SweepTriggerKey   string
	ServiceChargeRate float64
	Port              string
}

func Load() *Config {
	// .env opcional para desarrollo local; en docker todo viene por entorno
	_ = godotenv.Load()

	return &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "marketplace_db"),
		RabbitURL:         getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		NotifyExchange:    getEnv("NOTIFY_EXCHANGE", "marketplace_notifications"),
		NotifyQueue:       getEnv("NOTIFY_QUEUE", "marketplace_notifications_store"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-no-usar-en-produccion"),
		SweepInterval:     time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		SweepTriggerKey:   getEnv("SWEEP_TRIGGER_KEY", ""),
		ServiceChargeRate: 0.10, // comisión fija del marketplace
		Port:              getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
