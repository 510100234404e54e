package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/config"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/routes"
)

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Starting storefront API...")

	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET environment variable is not set")
	}

	db := initDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		logrus.Fatalf("AutoMigrate failed: %v", err)
	}

	rdb := initRedis(cfg)

	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded images are served straight from disk.
	r.Static("/uploads", cfg.UploadDir)

	routes.SetupRoutes(r, db, rdb, cfg)

	logrus.Infof("Server running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase opens the GORM connection. DATABASE_URL wins over the
// individual DB_* variables.
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// initRedis connects to Redis when configured. The server runs without it;
// caching and rate limiting just turn into no-ops.
func initRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, running without cache and rate limiting")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logrus.Warnf("Redis unreachable (%v), running without cache and rate limiting", err)
		return nil
	}
	return rdb
}
