package service

import (
	"context"

	"github.com/alexivanou/tourbook-api/internal/events"
	"github.com/alexivanou/tourbook-api/internal/metrics"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"go.uber.org/zap"
)

// ImageStore persists uploaded images and returns their relative path
type ImageStore interface {
	Save(data []byte) (string, error)
	Remove(path string) error
}

// Service provides business logic for the API
type Service struct {
	store     repository.Store
	images    ImageStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a new service instance. images may be nil when
// uploads are not accepted; publisher, m and logger may be nil.
func NewService(
	store repository.Store,
	images ImageStore,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewLogPublisher(logger)
	}
	return &Service{
		store:     store,
		images:    images,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// publish delivers ev after the write it describes has committed. A broker
// failure never fails the request.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", string(ev.Type)),
			zap.Int64("reservation_id", ev.Reservation.ID),
			zap.Error(err),
		)
	}
}
