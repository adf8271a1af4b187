package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	defaultReservationLimit = 50
	maxReservationLimit     = 200
)

type reservationRepository struct {
	q sqlx.ExtContext
	d dialect
}

func (r *reservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	status := res.Status
	if status == "" {
		status = model.StatusPending
	}
	id, err := insertReturningID(ctx, r.q, `
		INSERT INTO reservations (
			reservable_type, reservable_id, full_name, email, phone, date_from, date_to,
			travelers, total_price, currency, message, status, validated_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(res.ReservableType), res.ReservableID, res.FullName, res.Email, res.Phone, res.DateFrom, res.DateTo,
		res.Travelers, res.TotalPrice, res.Currency, res.Message, string(status), res.ValidatedBy)
	if err != nil {
		return classifyWrite(r.d, err)
	}
	return reload(res, func() (*model.Reservation, error) { return r.Get(ctx, id) })
}

func (r *reservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	var res model.Reservation
	if err := sqlx.GetContext(ctx, r.q, &res, r.q.Rebind("SELECT * FROM reservations WHERE id = ?"), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// List returns reservations newest first. A zero limit selects the default
// page size; larger limits are capped.
func (r *reservationRepository) List(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error) {
	query := "SELECT * FROM reservations WHERE 1=1"
	var args []interface{}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.ReservableType != nil {
		query += " AND reservable_type = ?"
		args = append(args, string(*filter.ReservableType))
	}
	if filter.Query != "" {
		query += fmt.Sprintf(" AND (%s OR %s OR %s)",
			r.d.contains("full_name"), r.d.contains("email"), r.d.contains("COALESCE(phone, '')"))
		args = append(args, filter.Query, filter.Query, filter.Query)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultReservationLimit
	}
	if limit > maxReservationLimit {
		limit = maxReservationLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	reservations := []model.Reservation{}
	if err := sqlx.SelectContext(ctx, r.q, &reservations, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus, validatedBy *int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE reservations SET status = ?, validated_by = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`), string(status), validatedBy, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *reservationRepository) CountByStatus(ctx context.Context) (map[model.ReservationStatus]int, error) {
	var rows []struct {
		Status model.ReservationStatus `db:"status"`
		Count  int                     `db:"count"`
	}
	if err := sqlx.SelectContext(ctx, r.q, &rows, "SELECT status, COUNT(*) AS count FROM reservations GROUP BY status"); err != nil {
		return nil, err
	}

	counts := make(map[model.ReservationStatus]int, len(model.ReservationStatuses))
	for _, s := range model.ReservationStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
