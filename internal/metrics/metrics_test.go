package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New("tourbook_test")

	m.ReservationCreated("city_tour")
	m.ReservationCreated("city_tour")
	m.StatusChanged("approved")
	m.PriceResolutionFailed("grid_mismatch")
	m.ObserveRequest(http.MethodGet, "/api/v1/countries", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("city_tour")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceResolutionFailures.WithLabelValues("grid_mismatch")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tourbook_test_reservations_created_total"))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReservationCreated("city_tour")
		m.StatusChanged("approved")
		m.PriceResolutionFailed("unresolvable")
		m.ObserveRequest(http.MethodGet, "/", 200, time.Millisecond)
	})
}
