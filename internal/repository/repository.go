package repository

import (
	"context"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/database"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// CountryRepository defines operations for countries
type CountryRepository interface {
	List(ctx context.Context) ([]model.Country, error)
	GetByID(ctx context.Context, id int64) (*model.Country, error)
	GetByCode(ctx context.Context, code string) (*model.Country, error)
	Create(ctx context.Context, country *model.Country) error
	Update(ctx context.Context, country *model.Country) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	BulkInsert(ctx context.Context, countries []model.Country) error
}

// CityRepository defines operations for cities
type CityRepository interface {
	List(ctx context.Context, filter model.CityFilter) ([]model.City, error)
	GetByID(ctx context.Context, id int64) (*model.City, error)
	Create(ctx context.Context, city *model.City) error
	Update(ctx context.Context, city *model.City) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	BulkInsert(ctx context.Context, cities []model.City) error
}

// PackageRepository defines operations for every package kind. Calls are
// dispatched on the kind of the reference.
type PackageRepository interface {
	List(ctx context.Context, filter model.PackageFilter) ([]model.Package, error)
	Get(ctx context.Context, ref model.PackageRef) (*model.Package, error)
	Create(ctx context.Context, pkg *model.Package) error
	Update(ctx context.Context, pkg *model.Package) (bool, error)
	// Delete removes the package row and the rows it owns directly
	// (inclusions, additional cities). Price rows are left to PriceRepository.
	Delete(ctx context.Context, ref model.PackageRef) (bool, error)
}

// PriceRepository defines operations for pricing grid rows
type PriceRepository interface {
	ListByPackage(ctx context.Context, ref model.PackageRef) ([]model.PackagePrice, error)
	Get(ctx context.Context, id int64) (*model.PackagePrice, error)
	Create(ctx context.Context, price *model.PackagePrice) error
	Update(ctx context.Context, price *model.PackagePrice) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByPackage(ctx context.Context, ref model.PackageRef) (int64, error)
}

// ReservationRepository defines operations for reservations
type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	Get(ctx context.Context, id int64) (*model.Reservation, error)
	List(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus, validatedBy *int64) (bool, error)
	CountByStatus(ctx context.Context) (map[model.ReservationStatus]int, error)
}

// Store gives access to every repository and to transactions spanning them
type Store interface {
	Countries() CountryRepository
	Cities() CityRepository
	Packages() PackageRepository
	Prices() PriceRepository
	Reservations() ReservationRepository
	// InTx runs fn with a Store whose repositories share one transaction
	InTx(ctx context.Context, fn func(Store) error) error
}

// Container holds all repositories
type Container struct {
	Country     CountryRepository
	City        CityRepository
	Package     PackageRepository
	Price       PriceRepository
	Reservation ReservationRepository

	db      *sqlx.DB
	dialect dialect
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	var d dialect = sqliteDialect{}
	if dbType == config.DBTypePostgreSQL {
		d = pgDialect{}
	}
	c := newContainer(db, d)
	c.db = db
	return c
}

func newContainer(q sqlx.ExtContext, d dialect) *Container {
	return &Container{
		Country:     &countryRepository{q: q, d: d},
		City:        &cityRepository{q: q, d: d},
		Package:     newPackageRepository(q, d),
		Price:       &priceRepository{q: q, d: d},
		Reservation: &reservationRepository{q: q, d: d},
		dialect:     d,
	}
}

func (c *Container) Countries() CountryRepository { return c.Country }
func (c *Container) Cities() CityRepository { return c.City }
func (c *Container) Packages() PackageRepository { return c.Package }
func (c *Container) Prices() PriceRepository { return c.Price }
func (c *Container) Reservations() ReservationRepository { return c.Reservation }

// InTx implements Store. Calls made on a transaction-bound container run
// inside the outer transaction.
func (c *Container) InTx(ctx context.Context, fn func(Store) error) error {
	if c.db == nil {
		return fn(c)
	}
	return database.WithTx(ctx, c.db, func(tx *sqlx.Tx) error {
		return fn(newContainer(tx, c.dialect))
	})
}

// IsDatabaseEmpty reports whether the geography tables hold no rows yet
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM countries"); err != nil {
		return false, err
	}
	return count == 0, nil
}
