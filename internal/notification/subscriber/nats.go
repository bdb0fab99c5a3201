// Package subscriber consumes order lifecycle events and dispatches
// storefront notifications.
package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/viniduminsara/ClearLens-Backend/pkg/config"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging/events"
	"golang.org/x/sync/errgroup"
)

// Start initializes the JetStream consumer and starts the worker goroutines.
// Blocks until the context is cancelled or a worker fails.
func Start(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig, logger *slog.Logger) error {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < subscriberCfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, subscriberCfg.Timeout, subscriberCfg.Interval, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches messages from the JetStream consumer and processes them.
func runWorker(ctx context.Context, consumer jetstream.Consumer, timeout time.Duration, interval time.Duration, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.Error("failed to fetch messages", "error", err)
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(msg, logger)
			}
		}
	}
}

// handleMessage dispatches a single order lifecycle event by subject.
func handleMessage(msg jetstream.Msg, logger *slog.Logger) {
	if msg == nil {
		logger.Error("received nil message")
		return
	}

	var handled bool
	switch msg.Subject() {
	case messaging.OrderCreatedSubject:
		handled = handleOrderCreated(msg.Data(), logger)
	case messaging.OrderPaidSubject:
		handled = handleOrderPaid(msg.Data(), logger)
	default:
		logger.Warn("unknown subject, dropping message", "subject", msg.Subject())
		handled = true
	}

	if !handled {
		if err := msg.Nak(); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}

func handleOrderCreated(data []byte, logger *slog.Logger) bool {
	var event events.OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Error("failed to unmarshal order created event", "error", err)
		return false
	}

	logger.Info("order created",
		slog.String("order_id", event.OrderID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.Float64("amount", event.Amount),
		slog.String("created_at", event.CreatedAt.Format(time.RFC3339)))

	notificationJob()
	return true
}

func handleOrderPaid(data []byte, logger *slog.Logger) bool {
	var event events.OrderPaidEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Error("failed to unmarshal order paid event", "error", err)
		return false
	}

	logger.Info("order paid",
		slog.String("order_id", event.OrderID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.Float64("amount", event.Amount),
		slog.String("paid_at", event.PaidAt.Format(time.RFC3339)))

	notificationJob()
	return true
}

// notificationJob simulates the delivery of a customer notification.
func notificationJob() {
	time.Sleep(100 * time.Millisecond)
}
