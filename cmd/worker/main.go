package main //worker

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audio-translator/internal/bootstrap"
	"audio-translator/internal/infrastructure/queue"
	"audio-translator/internal/pkg/config"
	"audio-translator/internal/pkg/logger"
	"audio-translator/internal/usecases"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const workspaceMaxAge = 6 * time.Hour

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	zl := logger.Must(cfg.LogLevel)
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(ctx, cfg, zl)
	if err != nil {
		zl.Error("pipeline setup failed", zap.Error(err))
		return 1
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zl.Error("redis unreachable", zap.String("addr", cfg.RedisAddr()), zap.Error(err))
		return 1
	}

	runQueue := queue.NewRedisQueue(rdb)
	processor := usecases.NewRunProcessor(pipeline, runQueue, zl)

	cleanupUC := usecases.NewCleanupService(cfg.TempDir, zl)
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc("0 */5 * * * *", func() {
		if _, err := cleanupUC.CleanupOldWorkspaces(workspaceMaxAge); err != nil {
			zl.Warn("workspace cleanup failed", zap.Error(err))
		}
	}); err != nil {
		zl.Error("cron schedule rejected", zap.Error(err))
		return 1
	}

	worker := &queue.Worker{
		ID:          1,
		Queue:       runQueue,
		Handle:      processor.Process,
		PollTimeout: 5 * time.Second,
		RetryDelay:  time.Second,
		Logger:      zl,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Start()
		<-gctx.Done()
		<-c.Stop().Done()
		return nil
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})

	zl.Info("worker running", zap.String("redis", cfg.RedisAddr()), zap.String("temp_dir", cfg.TempDir))
	if err := g.Wait(); err != nil {
		zl.Error("worker stopped with error", zap.Error(err))
		return 1
	}
	zl.Info("worker stopped")
	return 0
}
