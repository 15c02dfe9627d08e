package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppEnv                     string
	AppPort                    string
	AllowedOrigins             string
	DBHost                     string
	DBPort                     string
	DBUser                     string
	DBPassword                 string
	DBName                     string
	DBMaxIdleConns             int
	DBMaxOpenConns             int
	JWTSecret                  string
	JWTExpirationMinutes       int
	RefreshExpirationHours     int
	S3BaseEndpoint             string
	S3Region                   string
	S3Bucket                   string
	S3AccessKey                string
	S3SecretKey                string
	AttachmentURLExpiryMinutes int
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

func Load() Config {
	log.Println("Loading configuration...")

	return Config{
		AppEnv:                     getEnv("APP_ENV", "development"),
		AppPort:                    getEnv("APP_PORT", "8080"),
		AllowedOrigins:             getEnv("ALLOWED_ORIGINS", "*"),
		DBHost:                     getEnv("DB_HOST", "localhost"),
		DBPort:                     getEnv("DB_PORT", "5432"),
		DBUser:                     getEnv("DB_USER", "tasknest"),
		DBPassword:                 getEnv("DB_PASSWORD", "tasknest"),
		DBName:                     getEnv("DB_NAME", "tasknest"),
		DBMaxIdleConns:             getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:             getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		JWTSecret:                  getEnv("JWT_SECRET", "your-super-secret-key-change-this-in-production"),
		JWTExpirationMinutes:       getEnvAsInt("JWT_EXPIRATION_MINUTES", 60),
		RefreshExpirationHours:     getEnvAsInt("REFRESH_EXPIRATION_HOURS", 24*7),
		S3BaseEndpoint:             getEnv("S3_BASE_ENDPOINT", ""),
		S3Region:                   getEnv("S3_REGION", "us-east-1"),
		S3Bucket:                   getEnv("S3_BUCKET", "tasknest-attachments"),
		S3AccessKey:                getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:                getEnv("S3_SECRET_KEY", ""),
		AttachmentURLExpiryMinutes: getEnvAsInt("ATTACHMENT_URL_EXPIRY_MINUTES", 15),
	}
}
