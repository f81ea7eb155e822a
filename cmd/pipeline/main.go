package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"audio-translator/internal/bootstrap"
	"audio-translator/internal/pkg/config"
	"audio-translator/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	zl := logger.Must(cfg.LogLevel)
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, zl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio-translator: %v\n", err)
		return 1
	}

	req := cfg.RunRequest(uuid.NewString())
	result, err := pipeline.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio-translator: %v\n", err)
		return 1
	}

	zl.Info("run complete", zap.String("run_id", result.RunID), zap.Strings("artifacts", result.ArtifactURIs()))
	for _, uri := range result.ArtifactURIs() {
		fmt.Println(uri)
	}
	return 0
}
