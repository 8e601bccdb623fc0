package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	SessionSecret string
	JWTSecret     string

	// Defaults applied at signup when the user leaves the fields blank.
	DefaultImageURL       string
	DefaultHeaderImageURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		SessionSecret: getEnv("SESSION_SECRET", "it's a secret"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		DefaultImageURL:       getEnv("DEFAULT_IMAGE_URL", "/static/images/default-pic.png"),
		DefaultHeaderImageURL: getEnv("DEFAULT_HEADER_IMAGE_URL", "/static/images/warbler-hero.jpg"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
