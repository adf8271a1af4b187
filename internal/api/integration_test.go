package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/database"
	"github.com/alexivanou/tourbook-api/internal/metrics"
	"github.com/alexivanou/tourbook-api/internal/middleware"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/alexivanou/tourbook-api/internal/service"
	"github.com/alexivanou/tourbook-api/internal/stats"
	"github.com/alexivanou/tourbook-api/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

// memCache is an in-process CacheStore
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

type integrationStack struct {
	handler http.Handler
	token   string
}

func setupIntegrationStack(t *testing.T) *integrationStack {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: fmt.Sprintf("testdb_%d", rng.Int()),
	}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))

	uploads := t.TempDir()
	images, err := storage.NewLocal(uploads)
	require.NoError(t, err)

	m := metrics.New("tourbook_test")
	repos := repository.NewRepositories(db, config.DBTypeMemory)
	svc := service.NewService(repos, images, nil, m, nil)

	router := NewRouter(svc, stats.NewCollector(db, cfg), Options{
		Auth:      middleware.NewAuthenticator(testSecret),
		Cache:     middleware.NewCache(&memCache{data: make(map[string][]byte)}, time.Minute, "test", nil),
		Metrics:   m,
		UploadDir: uploads,
	})

	token, _, err := middleware.IssueToken(testSecret, 7, time.Hour)
	require.NoError(t, err)
	return &integrationStack{handler: router, token: token}
}

func (s *integrationStack) do(t *testing.T, method, target string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		r = strings.NewReader(string(bs))
	}
	req := httptest.NewRequest(method, target, r)
	if admin {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestAPI_Integration_Health(t *testing.T) {
	s := setupIntegrationStack(t)

	rr := s.do(t, "GET", "/health", nil, false)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, "GET", "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tourbook_test_http_request_duration_seconds")

	rr = s.do(t, "GET", "/api/v1/stats", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var st stats.Stats
	decodeInto(t, rr, &st)
	assert.Equal(t, int64(0), st.Reservations.Total)
}

func TestAPI_Integration_AdminRoutesNeedToken(t *testing.T) {
	s := setupIntegrationStack(t)

	rr := s.do(t, "POST", "/api/v1/countries", model.CountryInput{Code: "CG", Name: "Congo"}, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, "GET", "/api/v1/reservations", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, "PUT", "/api/v1/reservations/1/status", model.StatusInput{Status: "approved"}, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, "GET", "/api/v1/countries", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var list model.ListResponse[model.Country]
	decodeInto(t, rr, &list)
	assert.Zero(t, list.Count)
}

func TestAPI_Integration_BookingFlow(t *testing.T) {
	s := setupIntegrationStack(t)

	rr := s.do(t, "POST", "/api/v1/countries", model.CountryInput{Code: "cg", Name: "Congo"}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var country model.Country
	decodeInto(t, rr, &country)
	assert.Equal(t, "CG", country.Code)

	rr = s.do(t, "POST", "/api/v1/countries", model.CountryInput{Code: "CG", Name: "Congo again"}, true)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, "POST", "/api/v1/cities", model.CityInput{CountryID: country.ID, Name: "Brazzaville"}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var city model.City
	decodeInto(t, rr, &city)

	minPeople, maxPeople := 5, 10
	individual, group := decimal.NewFromInt(70), decimal.NewFromInt(350)
	rr = s.do(t, "POST", "/api/v1/destinations", model.PackageInput{
		Title:       "Brazzaville weekend",
		Destination: &model.DestinationDetails{DepartureCountryID: country.ID, DepartureCityID: &city.ID},
		Prices: []model.PriceInput{{
			MinPeople:       &minPeople,
			MaxPeople:       &maxPeople,
			PriceIndividual: &individual,
			PriceGroup:      &group,
			Currency:        "USD",
		}},
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var pkg model.Package
	decodeInto(t, rr, &pkg)
	require.Len(t, pkg.Prices, 1)
	grid := pkg.Prices[0]

	base := fmt.Sprintf("/api/v1/destinations/%d", pkg.ID)

	// The same id under another kind is a different package
	rr = s.do(t, "GET", fmt.Sprintf("/api/v1/city-tours/%d", pkg.ID), nil, false)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, "GET", fmt.Sprintf("%s/quote?travelers=5&grid_id=%d&reservation_type=group", base, grid.ID), nil, false)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var quote model.Quote
	decodeInto(t, rr, &quote)
	assert.True(t, group.Equal(quote.TotalPrice), quote.TotalPrice.String())
	assert.Equal(t, "USD", quote.Currency)

	rr = s.do(t, "GET", fmt.Sprintf("%s/quote?travelers=3&grid_id=%d", base, grid.ID), nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeInto(t, rr, &quote)
	assert.True(t, decimal.NewFromInt(210).Equal(quote.TotalPrice))

	rr = s.do(t, "POST", "/api/v1/reservations", model.ReservationInput{
		ReservableType:  "destination",
		ReservableID:    pkg.ID,
		FullName:        "Jean Mabiala",
		Email:           "jean@example.com",
		Travelers:       5,
		GridID:          &grid.ID,
		ReservationType: "group",
	}, false)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var res model.Reservation
	decodeInto(t, rr, &res)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.True(t, group.Equal(res.TotalPrice))

	rr = s.do(t, "POST", "/api/v1/reservations", model.ReservationInput{
		ReservableType: "destination",
		ReservableID:   pkg.ID,
		FullName:       "Jean Mabiala",
		Email:          "not-an-email",
		Travelers:      1,
	}, false)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "GET", "/api/v1/reservations?status=pending", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var pending model.ListResponse[model.Reservation]
	decodeInto(t, rr, &pending)
	assert.Equal(t, 1, pending.Count)

	rr = s.do(t, "PUT", fmt.Sprintf("/api/v1/reservations/%d/status", res.ID), model.StatusInput{Status: "approved"}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeInto(t, rr, &res)
	assert.Equal(t, model.StatusApproved, res.Status)
	require.NotNil(t, res.ValidatedBy)
	assert.Equal(t, int64(7), *res.ValidatedBy)

	rr = s.do(t, "PUT", fmt.Sprintf("/api/v1/reservations/%d/status", res.ID), model.StatusInput{Status: "archived"}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, "GET", "/api/v1/stats", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var st stats.Stats
	decodeInto(t, rr, &st)
	assert.Equal(t, int64(1), st.Reservations.Total)
	assert.Equal(t, int64(1), st.Reservations.ByStatus[model.StatusApproved])
}

func TestAPI_Integration_CatalogCache(t *testing.T) {
	s := setupIntegrationStack(t)

	rr := s.do(t, "GET", "/api/v1/countries", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))

	rr = s.do(t, "GET", "/api/v1/countries", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "HIT", rr.Header().Get("X-Cache"))

	rr = s.do(t, "POST", "/api/v1/countries", model.CountryInput{Code: "GA", Name: "Gabon"}, true)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(t, "GET", "/api/v1/countries", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
	var list model.ListResponse[model.Country]
	decodeInto(t, rr, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Gabon", list.Data[0].Name)

	// Admin reads bypass the cache
	rr = s.do(t, "GET", "/api/v1/countries", nil, true)
	assert.Empty(t, rr.Header().Get("X-Cache"))
}
