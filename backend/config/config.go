package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Environment is "development" or "production"; error responses
	// carry detail only outside production.
	Environment string

	// CORSOrigins is a comma-separated allow-list of origins.
	CORSOrigins string

	StripeSecretKey string
	GeminiAPIKey    string
	GeminiModel     string

	// AIRateLimit is the number of AI requests allowed per client per hour.
	AIRateLimit int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "learnhub"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("APP_ENV", "development"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AIRateLimit:     getEnvInt("AI_RATE_LIMIT", 30),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
