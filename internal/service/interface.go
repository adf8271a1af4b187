package service

import (
	"context"

	"github.com/alexivanou/tourbook-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	ListCountries(ctx context.Context) ([]model.Country, error)
	GetCountry(ctx context.Context, id int64) (*model.Country, error)
	CreateCountry(ctx context.Context, in model.CountryInput) (*model.Country, error)
	UpdateCountry(ctx context.Context, id int64, in model.CountryInput) (*model.Country, error)
	DeleteCountry(ctx context.Context, id int64) error

	ListCities(ctx context.Context, filter model.CityFilter) ([]model.City, error)
	GetCity(ctx context.Context, id int64) (*model.City, error)
	CreateCity(ctx context.Context, in model.CityInput) (*model.City, error)
	UpdateCity(ctx context.Context, id int64, in model.CityInput) (*model.City, error)
	DeleteCity(ctx context.Context, id int64) error

	ListPackages(ctx context.Context, filter model.PackageFilter) ([]model.Package, error)
	GetPackage(ctx context.Context, ref model.PackageRef) (*model.Package, error)
	CreatePackage(ctx context.Context, kind model.PackageKind, in model.PackageInput) (*model.Package, error)
	UpdatePackage(ctx context.Context, ref model.PackageRef, in model.PackageInput) (*model.Package, error)
	DeletePackage(ctx context.Context, ref model.PackageRef) error

	ListPrices(ctx context.Context, ref model.PackageRef) ([]model.PackagePrice, error)
	CreatePrice(ctx context.Context, ref model.PackageRef, in model.PriceInput) (*model.PackagePrice, error)
	UpdatePrice(ctx context.Context, ref model.PackageRef, id int64, in model.PriceInput) (*model.PackagePrice, error)
	DeletePrice(ctx context.Context, ref model.PackageRef, id int64) error

	Quote(ctx context.Context, req model.QuoteRequest) (*model.Quote, error)
	CreateReservation(ctx context.Context, in model.ReservationInput) (*model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	ListReservations(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error)
	SetReservationStatus(ctx context.Context, id int64, status string, adminID int64) (*model.Reservation, error)
}

var _ ServiceInterface = (*Service)(nil)
