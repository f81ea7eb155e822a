package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audio-translator/internal/delivery/http/routers"
	"audio-translator/internal/infrastructure/queue"
	"audio-translator/internal/pkg/config"
	"audio-translator/internal/pkg/logger"
	"audio-translator/internal/usecases"
	"audio-translator/pkg/errors/i18n"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	zl := logger.Must(cfg.LogLevel)
	defer zl.Sync()

	if err := i18n.Load(getLocale()); err != nil {
		zl.Warn("i18n catalog not loaded, falling back to codes", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()

	runService := usecases.NewRunService(queue.NewRedisQueue(rdb), zl)

	app := fiber.New(fiber.Config{
		AppName:      "audio-translator",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	routers.SetupRunRoutes(app, runService)

	addr := cfg.ServerAddr()
	zl.Info("server starting", zap.String("addr", addr))

	// Graceful shutdown
	go func() {
		if err := app.Listen(addr); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutdown signal received")

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		zl.Error("server did not shut down cleanly", zap.Error(err))
		return
	}
	zl.Info("server stopped")
}

func getLocale() string {
	if l := os.Getenv("APP_LOCALE"); l != "" {
		return l
	}
	return "en"
}
