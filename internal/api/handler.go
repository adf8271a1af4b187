package api

import (
	"net/http"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/service"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// ListCountries handles GET /api/v1/countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.ListCountries(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, countries)
}

// GetCountry handles GET /api/v1/countries/{id}
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid country id")
		return
	}
	country, err := h.service.GetCountry(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}

// CreateCountry handles POST /api/v1/countries
func (h *Handler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var in model.CountryInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	country, err := h.service.CreateCountry(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, country)
}

// UpdateCountry handles PUT /api/v1/countries/{id}
func (h *Handler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid country id")
		return
	}
	var in model.CountryInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	country, err := h.service.UpdateCountry(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, country)
}

// DeleteCountry handles DELETE /api/v1/countries/{id}
func (h *Handler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid country id")
		return
	}
	if err := h.service.DeleteCountry(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCities handles GET /api/v1/cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	countryID, err := queryID(r, "country_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	filter := model.CityFilter{
		CountryID: countryID,
		Query:     strings.TrimSpace(r.URL.Query().Get("q")),
	}
	cities, err := h.service.ListCities(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, cities)
}

// GetCity handles GET /api/v1/cities/{id}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid city id")
		return
	}
	city, err := h.service.GetCity(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, city)
}

// CreateCity handles POST /api/v1/cities
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var in model.CityInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	city, err := h.service.CreateCity(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, city)
}

// UpdateCity handles PUT /api/v1/cities/{id}
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid city id")
		return
	}
	var in model.CityInput
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}
	city, err := h.service.UpdateCity(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, city)
}

// DeleteCity handles DELETE /api/v1/cities/{id}
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, "invalid city id")
		return
	}
	if err := h.service.DeleteCity(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
