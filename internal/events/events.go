// Package events publishes reservation lifecycle events to a message broker
// and consumes them on the other side.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Type names an event
type Type string

const (
	ReservationCreated       Type = "reservation.created"
	ReservationStatusChanged Type = "reservation.status_changed"
)

// Event is the message body put on the queue
type Event struct {
	ID             string             `json:"id"`
	Type           Type               `json:"type"`
	OccurredAt     time.Time          `json:"occurred_at"`
	Reservation    ReservationPayload `json:"reservation"`
	PreviousStatus string             `json:"previous_status,omitempty"`
}

// ReservationPayload is the reservation snapshot carried by an event
type ReservationPayload struct {
	ID             int64           `json:"id"`
	ReservableType string          `json:"reservable_type"`
	ReservableID   int64           `json:"reservable_id"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Travelers      int             `json:"travelers"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	ValidatedBy    *int64          `json:"validated_by,omitempty"`
}

// NewReservationEvent snapshots r into an event of type t
func NewReservationEvent(t Type, r *model.Reservation) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Reservation: ReservationPayload{
			ID:             r.ID,
			ReservableType: string(r.ReservableType),
			ReservableID:   r.ReservableID,
			FullName:       r.FullName,
			Email:          r.Email,
			Travelers:      r.Travelers,
			TotalPrice:     r.TotalPrice,
			Currency:       r.Currency,
			Status:         string(r.Status),
			ValidatedBy:    r.ValidatedBy,
		},
	}
}

// Decode parses a message body
func Decode(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("event %q has no type", ev.ID)
	}
	return ev, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// LogPublisher writes events to the log instead of a broker. It is used
// when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, ev Event) error {
	p.logger.Info("event",
		zap.String("event_id", ev.ID),
		zap.String("type", string(ev.Type)),
		zap.Int64("reservation_id", ev.Reservation.ID),
		zap.String("status", ev.Reservation.Status),
	)
	return nil
}
