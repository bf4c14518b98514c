package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/prasetyoadi/admin-directory/config"
	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/internal/domain/repository"
	pginfra "github.com/prasetyoadi/admin-directory/internal/infrastructure/postgres"
	"github.com/prasetyoadi/admin-directory/pkg/events"
	"github.com/prasetyoadi/admin-directory/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notification-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQUserEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQUserEventQueue, 16)
	if err != nil {
		log.Fatalf("rabbitmq connect: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume()
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	repo := pginfra.NewNotificationRepository(pool)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var evt events.UserUpdated
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				logger.WithError(err).Warn("bad message, dropping")
				_ = msg.Nack(false, false)
				continue
			}
			if err := persistWithRetry(ctx, repo, logger, evt, cfg.WorkerMaxAttempts, cfg.WorkerRetryBackoff); err != nil {
				logger.WithError(err).WithField("user_id", evt.UserID).Error("giving up on event")
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQUserEventQueue).Info("notification worker listening")
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// persistWithRetry stores the notification, retrying transient failures with
// a fixed backoff between attempts.
func persistWithRetry(ctx context.Context, repo repository.NotificationRepository, logger *logrus.Logger, evt events.UserUpdated, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	notif := &entity.Notification{
		UserID:  evt.UserID,
		Type:    entity.NotificationTypeUserUpdated,
		Message: fmt.Sprintf("User %s has been updated.", evt.FullName()),
		Data: map[string]any{
			"user_id":    evt.UserID,
			"name":       evt.FullName(),
			"email":      evt.Email,
			"updated_at": evt.UpdatedAt,
		},
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		c, cancel := context.WithTimeout(ctx, 15*time.Second)
		err = repo.Create(c, notif)
		cancel()
		if err == nil {
			return nil
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"user_id": evt.UserID,
			"attempt": attempt,
		}).Warn("notification insert failed")
		if attempt < attempts {
			time.Sleep(backoff)
		}
	}
	return err
}
