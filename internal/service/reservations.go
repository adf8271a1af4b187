package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/events"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/pricing"
	"github.com/alexivanou/tourbook-api/internal/repository"
)

const (
	maxPhoneLength = 50
	maxEmailLength = 150
)

// Quote resolves the price of a prospective reservation without storing it
func (s *Service) Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error) {
	rt, err := pricing.ParseReservationType(req.ReservationType)
	if err != nil {
		return nil, err
	}
	if req.Travelers < 1 {
		return nil, validationError("travelers must be at least 1")
	}

	quote, _, err := s.resolve(ctx, s.store, req.Package, req.Travelers, req.GridID, rt)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateReservation prices the request and stores a pending reservation.
// Nothing is written when the package, the grid or the price cannot be
// resolved.
func (s *Service) CreateReservation(ctx context.Context, in model.ReservationInput) (*model.Reservation, error) {
	res, rt, err := validateReservation(in)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		quote, pkg, err := s.resolve(ctx, tx, res.Reservable(), res.Travelers, in.GridID, rt)
		if err != nil {
			return err
		}
		res.TotalPrice = quote.TotalPrice
		res.Currency = quote.Currency
		res.Message = appendPricingNote(res.Message, quote.Explanation)
		if res.DateFrom == nil {
			res.DateFrom = pkg.ScheduledDate()
		}
		return tx.Reservations().Create(ctx, res)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.metrics.ReservationCreated(string(res.ReservableType))
	s.publish(ctx, events.NewReservationEvent(events.ReservationCreated, res))
	return res, nil
}

// resolve loads the package and the optional grid through st and runs the
// price resolver on them.
func (s *Service) resolve(ctx context.Context, st repository.Store, ref model.PackageRef, travelers int, gridID *int64, rt pricing.ReservationType) (model.Quote, *model.Package, error) {
	pkg, err := s.findPackage(ctx, st, ref)
	if err != nil {
		return model.Quote{}, nil, err
	}

	var grid *model.PackagePrice
	if gridID != nil {
		grid, err = st.Prices().Get(ctx, *gridID)
		if err != nil {
			return model.Quote{}, nil, fmt.Errorf("failed to get pricing grid: %w", err)
		}
		if grid == nil {
			return model.Quote{}, nil, notFound("pricing grid", *gridID)
		}
	}

	quote, err := pricing.Resolve(pkg, travelers, grid, rt)
	if err != nil {
		if errors.Is(err, pricing.ErrGridMismatch) || errors.Is(err, pricing.ErrUnresolvablePrice) {
			s.metrics.PriceResolutionFailed(ErrorKind(err))
		}
		return model.Quote{}, nil, err
	}
	return quote, pkg, nil
}

func (s *Service) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	res, err := s.store.Reservations().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		return nil, notFound("reservation", id)
	}
	return res, nil
}

func (s *Service) ListReservations(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, validationError("limit and offset must not be negative")
	}
	list, err := s.store.Reservations().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

// SetReservationStatus moves a reservation to status and records adminID
// as the validator. Any status may follow any other.
func (s *Service) SetReservationStatus(ctx context.Context, id int64, status string, adminID int64) (*model.Reservation, error) {
	next, err := model.ParseReservationStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	var validatedBy *int64
	if adminID > 0 {
		validatedBy = &adminID
	}

	var (
		previous model.ReservationStatus
		updated  *model.Reservation
	)
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		current, err := tx.Reservations().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get reservation: %w", err)
		}
		if current == nil {
			return notFound("reservation", id)
		}
		previous = current.Status

		ok, err := tx.Reservations().UpdateStatus(ctx, id, next, validatedBy)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("reservation", id)
		}
		updated, err = tx.Reservations().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	s.metrics.StatusChanged(string(next))
	ev := events.NewReservationEvent(events.ReservationStatusChanged, updated)
	ev.PreviousStatus = string(previous)
	s.publish(ctx, ev)
	return updated, nil
}

func validateReservation(in model.ReservationInput) (*model.Reservation, pricing.ReservationType, error) {
	kind, err := model.ParsePackageKind(in.ReservableType)
	if err != nil {
		return nil, "", validationError("reservable_type: %v", err)
	}
	if in.ReservableID <= 0 {
		return nil, "", validationError("reservable_id is required")
	}
	rt, err := pricing.ParseReservationType(in.ReservationType)
	if err != nil {
		return nil, "", err
	}

	name := strings.TrimSpace(in.FullName)
	switch {
	case name == "":
		return nil, "", validationError("full_name is required")
	case len(name) > maxNameLength:
		return nil, "", validationError("full_name must be at most %d characters", maxNameLength)
	case in.Travelers < 1:
		return nil, "", validationError("travelers must be at least 1")
	}

	email := strings.TrimSpace(in.Email)
	if len(email) > maxEmailLength {
		return nil, "", validationError("email must be at most %d characters", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, "", validationError("email %q is not a valid address", in.Email)
	}

	var phone *string
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		if len(p) > maxPhoneLength {
			return nil, "", validationError("phone must be at most %d characters", maxPhoneLength)
		}
		if p != "" {
			phone = &p
		}
	}
	if in.DateFrom != nil && in.DateTo != nil && in.DateTo.Before(in.DateFrom.Time) {
		return nil, "", validationError("date_to must not be before date_from")
	}

	return &model.Reservation{
		ReservableType: kind,
		ReservableID:   in.ReservableID,
		FullName:       name,
		Email:          email,
		Phone:          phone,
		DateFrom:       in.DateFrom,
		DateTo:         in.DateTo,
		Travelers:      in.Travelers,
		Message:        in.Message,
		Status:         model.StatusPending,
	}, rt, nil
}

func appendPricingNote(message *string, explanation string) *string {
	note := fmt.Sprintf("[Pricing: %s]", explanation)
	if message != nil {
		if m := strings.TrimSpace(*message); m != "" {
			note = m + "\n\n" + note
		}
	}
	return &note
}
