package api

import (
	"net/http"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/middleware"
	"github.com/alexivanou/tourbook-api/internal/model"
)

// CreateReservation handles POST /api/v1/reservations
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var in model.ReservationInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	res, err := h.service.CreateReservation(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListReservations handles GET /api/v1/reservations
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ReservationFilter{Query: strings.TrimSpace(q.Get("q"))}

	if s := q.Get("status"); s != "" {
		status, err := model.ParseReservationStatus(s)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		filter.Status = &status
	}
	if s := q.Get("reservable_type"); s != "" {
		kind, err := model.ParsePackageKind(s)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		filter.ReservableType = &kind
	}

	var err error
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		badRequest(w, err.Error())
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		badRequest(w, err.Error())
		return
	}

	list, err := h.service.ListReservations(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, list)
}

// GetReservation handles GET /api/v1/reservations/{id}
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid reservation id")
		return
	}
	res, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SetReservationStatus handles PUT /api/v1/reservations/{id}/status
func (h *Handler) SetReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid reservation id")
		return
	}
	var in model.StatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	adminID, _ := middleware.AdminIDFromContext(r.Context())

	res, err := h.service.SetReservationStatus(r.Context(), id, in.Status, adminID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
