package api

import (
	"context"
	"net/http"

	"github.com/alexivanou/tourbook-api/internal/stats"
	"go.uber.org/zap"
)

// StatsCollector produces the statistics served on /api/v1/stats
type StatsCollector interface {
	Collect(ctx context.Context) (*stats.Stats, error)
}

// StatsHandler handles statistics requests
type StatsHandler struct {
	collector StatsCollector
	logger    *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(collector StatsCollector, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{collector: collector, logger: logger}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.collector.Collect(r.Context())
	if err != nil {
		h.logger.Error("Error collecting statistics", zap.Error(err))
		http.Error(w, "failed to collect statistics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
