package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// ReservationStatuses lists every status in a stable order
var ReservationStatuses = []ReservationStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

// ParseReservationStatus validates a status value
func ParseReservationStatus(s string) (ReservationStatus, error) {
	st := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReservationStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

// Reservation is a customer booking against a package
type Reservation struct {
	ID             int64             `json:"id" db:"id"`
	ReservableType PackageKind       `json:"reservable_type" db:"reservable_type"`
	ReservableID   int64             `json:"reservable_id" db:"reservable_id"`
	FullName       string            `json:"full_name" db:"full_name"`
	Email          string            `json:"email" db:"email"`
	Phone          *string           `json:"phone,omitempty" db:"phone"`
	DateFrom       *Date             `json:"date_from,omitempty" db:"date_from"`
	DateTo         *Date             `json:"date_to,omitempty" db:"date_to"`
	Travelers      int               `json:"travelers" db:"travelers"`
	TotalPrice     decimal.Decimal   `json:"total_price" db:"total_price"`
	Currency       string            `json:"currency" db:"currency"`
	Message        *string           `json:"message,omitempty" db:"message"`
	Status         ReservationStatus `json:"status" db:"status"`
	ValidatedBy    *int64            `json:"validated_by,omitempty" db:"validated_by"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// Reservable returns the package the reservation points at
func (r *Reservation) Reservable() PackageRef {
	return PackageRef{Kind: r.ReservableType, ID: r.ReservableID}
}

// ReservationFilter narrows a reservation listing
type ReservationFilter struct {
	Status         *ReservationStatus
	ReservableType *PackageKind
	Query          string
	Limit          int
	Offset         int
}
