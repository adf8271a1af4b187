package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/model"
)

// packageRef reads the package id of a /{kind}/{id} route
func packageRef(r *http.Request, kind model.PackageKind) (model.PackageRef, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		return model.PackageRef{}, false
	}
	return model.PackageRef{Kind: kind, ID: id}, true
}

// ListPackages handles GET /api/v1/{kind}
func (h *Handler) ListPackages(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := model.PackageFilter{
			Kind:  kind,
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if s := r.URL.Query().Get("active"); s != "" {
			active, err := strconv.ParseBool(s)
			if err != nil {
				badRequest(w, "invalid active parameter")
				return
			}
			filter.Active = &active
		}

		pkgs, err := h.service.ListPackages(r.Context(), filter)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, pkgs)
	}
}

// GetPackage handles GET /api/v1/{kind}/{id}
func (h *Handler) GetPackage(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		pkg, err := h.service.GetPackage(r.Context(), ref)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pkg)
	}
}

// CreatePackage handles POST /api/v1/{kind}
func (h *Handler) CreatePackage(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.PackageInput
		if err := decodeJSON(w, r, &in); err != nil {
			badRequest(w, err.Error())
			return
		}
		pkg, err := h.service.CreatePackage(r.Context(), kind, in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, pkg)
	}
}

// UpdatePackage handles PUT /api/v1/{kind}/{id}
func (h *Handler) UpdatePackage(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		var in model.PackageInput
		if err := decodeJSON(w, r, &in); err != nil {
			badRequest(w, err.Error())
			return
		}
		pkg, err := h.service.UpdatePackage(r.Context(), ref, in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pkg)
	}
}

// DeletePackage handles DELETE /api/v1/{kind}/{id}
func (h *Handler) DeletePackage(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		if err := h.service.DeletePackage(r.Context(), ref); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListPrices handles GET /api/v1/{kind}/{id}/prices
func (h *Handler) ListPrices(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		prices, err := h.service.ListPrices(r.Context(), ref)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, prices)
	}
}

// CreatePrice handles POST /api/v1/{kind}/{id}/prices
func (h *Handler) CreatePrice(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		var in model.PriceInput
		if err := decodeJSON(w, r, &in); err != nil {
			badRequest(w, err.Error())
			return
		}
		price, err := h.service.CreatePrice(r.Context(), ref, in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, price)
	}
}

// UpdatePrice handles PUT /api/v1/{kind}/{id}/prices/{priceID}
func (h *Handler) UpdatePrice(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		priceID, err := pathID(r, "priceID")
		if err != nil {
			badRequest(w, "invalid price id")
			return
		}
		var in model.PriceInput
		if err := decodeJSON(w, r, &in); err != nil {
			badRequest(w, err.Error())
			return
		}
		price, err := h.service.UpdatePrice(r.Context(), ref, priceID, in)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, price)
	}
}

// DeletePrice handles DELETE /api/v1/{kind}/{id}/prices/{priceID}
func (h *Handler) DeletePrice(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		priceID, err := pathID(r, "priceID")
		if err != nil {
			badRequest(w, "invalid price id")
			return
		}
		if err := h.service.DeletePrice(r.Context(), ref, priceID); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Quote handles GET /api/v1/{kind}/{id}/quote
func (h *Handler) Quote(kind model.PackageKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := packageRef(r, kind)
		if !ok {
			badRequest(w, "invalid package id")
			return
		}
		travelers, err := queryInt(r, "travelers", 1)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		gridID, err := queryID(r, "grid_id")
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		quote, err := h.service.Quote(r.Context(), model.QuoteRequest{
			Package:         ref,
			Travelers:       travelers,
			GridID:          gridID,
			ReservationType: r.URL.Query().Get("reservation_type"),
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, quote)
	}
}
