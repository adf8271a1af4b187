package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/events"
	"go.uber.org/zap"
)

// notifier consumes reservation events and logs a line per customer
// notification that would be sent.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, notify(logger), logger)
	logger.Info("Consuming reservation events", zap.String("queue", cfg.AMQP.Queue))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Consumer stopped", zap.Error(err))
	}
	logger.Info("Notifier exited")
}

func notify(logger *zap.Logger) events.HandlerFunc {
	return func(_ context.Context, ev events.Event) error {
		r := ev.Reservation
		fields := []zap.Field{
			zap.String("event_id", ev.ID),
			zap.Int64("reservation_id", r.ID),
			zap.String("to", r.Email),
			zap.String("reservable", r.ReservableType),
			zap.String("total", r.TotalPrice.StringFixed(2)+" "+r.Currency),
		}
		switch ev.Type {
		case events.ReservationCreated:
			logger.Info("Reservation received", fields...)
		case events.ReservationStatusChanged:
			logger.Info("Reservation status changed",
				append(fields, zap.String("from", ev.PreviousStatus), zap.String("to_status", r.Status))...)
		default:
			logger.Warn("Ignoring unknown event type", zap.String("type", string(ev.Type)))
		}
		return nil
	}
}
