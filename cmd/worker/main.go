// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/config"
	"github.com/unclebandit/coldreach-backend/internal/db"
	"github.com/unclebandit/coldreach-backend/internal/logging"
	"github.com/unclebandit/coldreach-backend/internal/queue"
	"github.com/unclebandit/coldreach-backend/internal/repository"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.AMQPURL == "" {
		logger.Fatal("AMQP_URL is required for the worker; without it the server records activity in process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}
	defer database.Close()

	q, err := queue.DialAMQP(cfg.AMQPURL, cfg.ActivityQueue, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer q.Close()

	recorder := service.NewActivityRecorder(&repository.ActivityRepository{DB: database}, logger)
	if err := run(ctx, q, recorder, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}

// run consumes activity events until ctx is done.
func run(ctx context.Context, q queue.Queue, recorder *service.ActivityRecorder, logger *zap.Logger) error {
	if err := queue.StartActivitySubscriber(q, recorder.Handle, logger); err != nil {
		return err
	}
	logger.Info("worker running, waiting for activity events")
	<-ctx.Done()
	return ctx.Err()
}
