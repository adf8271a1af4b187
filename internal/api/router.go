package api

import (
	"net/http"

	"github.com/alexivanou/tourbook-api/internal/metrics"
	"github.com/alexivanou/tourbook-api/internal/middleware"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options carries the optional collaborators of the router
type Options struct {
	// Auth guards back-office routes; required
	Auth *middleware.Authenticator
	// Cache stores public catalog reads; nil disables caching
	Cache   *middleware.Cache
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	// UploadDir is served under /uploads/ when set
	UploadDir string
}

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector StatsCollector, opts Options) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	// Catalog reads go through the cache; catalog writes need an admin and
	// invalidate the cache when they succeed.
	public := func(h http.HandlerFunc) http.Handler { return opts.Cache.Middleware(h) }
	catalogAdmin := func(h http.HandlerFunc) http.Handler {
		return opts.Auth.RequireAdmin(opts.Cache.Middleware(h))
	}
	admin := func(h http.HandlerFunc) http.Handler { return opts.Auth.RequireAdmin(h) }

	router := mux.NewRouter()
	router.Use(middleware.Recover(logger), middleware.RequestLogger(logger, opts.Metrics))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler()).Methods("GET")
	}
	if opts.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))),
		).Methods("GET")
	}

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.Handle("/countries", public(handler.ListCountries)).Methods("GET")
	v1.Handle("/countries", catalogAdmin(handler.CreateCountry)).Methods("POST")
	v1.Handle("/countries/{id:[0-9]+}", public(handler.GetCountry)).Methods("GET")
	v1.Handle("/countries/{id:[0-9]+}", catalogAdmin(handler.UpdateCountry)).Methods("PUT")
	v1.Handle("/countries/{id:[0-9]+}", catalogAdmin(handler.DeleteCountry)).Methods("DELETE")

	v1.Handle("/cities", public(handler.ListCities)).Methods("GET")
	v1.Handle("/cities", catalogAdmin(handler.CreateCity)).Methods("POST")
	v1.Handle("/cities/{id:[0-9]+}", public(handler.GetCity)).Methods("GET")
	v1.Handle("/cities/{id:[0-9]+}", catalogAdmin(handler.UpdateCity)).Methods("PUT")
	v1.Handle("/cities/{id:[0-9]+}", catalogAdmin(handler.DeleteCity)).Methods("DELETE")

	for _, kind := range model.PackageKinds {
		base := "/" + kind.Slug()
		item := base + "/{id:[0-9]+}"
		price := item + "/prices/{priceID:[0-9]+}"

		v1.Handle(base, public(handler.ListPackages(kind))).Methods("GET")
		v1.Handle(base, catalogAdmin(handler.CreatePackage(kind))).Methods("POST")
		v1.Handle(item, public(handler.GetPackage(kind))).Methods("GET")
		v1.Handle(item, catalogAdmin(handler.UpdatePackage(kind))).Methods("PUT")
		v1.Handle(item, catalogAdmin(handler.DeletePackage(kind))).Methods("DELETE")
		v1.Handle(item+"/quote", public(handler.Quote(kind))).Methods("GET")
		v1.Handle(item+"/prices", public(handler.ListPrices(kind))).Methods("GET")
		v1.Handle(item+"/prices", catalogAdmin(handler.CreatePrice(kind))).Methods("POST")
		v1.Handle(price, catalogAdmin(handler.UpdatePrice(kind))).Methods("PUT")
		v1.Handle(price, catalogAdmin(handler.DeletePrice(kind))).Methods("DELETE")
	}

	v1.HandleFunc("/reservations", handler.CreateReservation).Methods("POST")
	v1.Handle("/reservations", admin(handler.ListReservations)).Methods("GET")
	v1.Handle("/reservations/{id:[0-9]+}", admin(handler.GetReservation)).Methods("GET")
	v1.Handle("/reservations/{id:[0-9]+}/status", admin(handler.SetReservationStatus)).Methods("PUT")

	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
