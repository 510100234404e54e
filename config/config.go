package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	JWTExpireHours int
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	UploadDir      string
	IsProd         bool
}

// LoadConfig reads the .env file if present and falls back to defaults
// suitable for local development.
func LoadConfig() *Config {
	_ = godotenv.Load()

	expireHours := 72
	if v, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS")); err == nil && v > 0 {
		expireHours = v
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "storefront"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpireHours: expireHours,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		RedisDB:        redisDB,
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		IsProd:         os.Getenv("IS_PROD") == "true",
	}
	return cfg
}

// DSN builds the postgres connection string. DATABASE_URL wins when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
