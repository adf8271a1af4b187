package service

import (
	"context"

	"github.com/alexivanou/tourbook-api/internal/events"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockCountryRepository implements repository.CountryRepository interface
type MockCountryRepository struct {
	mock.Mock
}

func (m *MockCountryRepository) List(ctx context.Context) ([]model.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Country), args.Error(1)
}

func (m *MockCountryRepository) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockCountryRepository) GetByCode(ctx context.Context, code string) (*model.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockCountryRepository) Create(ctx context.Context, country *model.Country) error {
	return m.Called(ctx, country).Error(0)
}

func (m *MockCountryRepository) Update(ctx context.Context, country *model.Country) (bool, error) {
	args := m.Called(ctx, country)
	return args.Bool(0), args.Error(1)
}

func (m *MockCountryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCountryRepository) BulkInsert(ctx context.Context, countries []model.Country) error {
	return m.Called(ctx, countries).Error(0)
}

// MockCityRepository implements repository.CityRepository interface
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) List(ctx context.Context, filter model.CityFilter) ([]model.City, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.City), args.Error(1)
}

func (m *MockCityRepository) GetByID(ctx context.Context, id int64) (*model.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityRepository) Create(ctx context.Context, city *model.City) error {
	return m.Called(ctx, city).Error(0)
}

func (m *MockCityRepository) Update(ctx context.Context, city *model.City) (bool, error) {
	args := m.Called(ctx, city)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) BulkInsert(ctx context.Context, cities []model.City) error {
	return m.Called(ctx, cities).Error(0)
}

// MockPackageRepository implements repository.PackageRepository interface
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) List(ctx context.Context, filter model.PackageFilter) ([]model.Package, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Package), args.Error(1)
}

func (m *MockPackageRepository) Get(ctx context.Context, ref model.PackageRef) (*model.Package, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Package), args.Error(1)
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *model.Package) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *model.Package) (bool, error) {
	args := m.Called(ctx, pkg)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackageRepository) Delete(ctx context.Context, ref model.PackageRef) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

// MockPriceRepository implements repository.PriceRepository interface
type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) ListByPackage(ctx context.Context, ref model.PackageRef) ([]model.PackagePrice, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PackagePrice), args.Error(1)
}

func (m *MockPriceRepository) Get(ctx context.Context, id int64) (*model.PackagePrice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagePrice), args.Error(1)
}

func (m *MockPriceRepository) Create(ctx context.Context, price *model.PackagePrice) error {
	return m.Called(ctx, price).Error(0)
}

func (m *MockPriceRepository) Update(ctx context.Context, price *model.PackagePrice) (bool, error) {
	args := m.Called(ctx, price)
	return args.Bool(0), args.Error(1)
}

func (m *MockPriceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPriceRepository) DeleteByPackage(ctx context.Context, ref model.PackageRef) (int64, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(int64), args.Error(1)
}

// MockReservationRepository implements repository.ReservationRepository interface
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus, validatedBy *int64) (bool, error) {
	args := m.Called(ctx, id, status, validatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) CountByStatus(ctx context.Context) (map[model.ReservationStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.ReservationStatus]int), args.Error(1)
}

// MockPublisher implements events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	return m.Called(ctx, ev).Error(0)
}

// MockImageStore implements ImageStore interface
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(path string) error {
	return m.Called(path).Error(0)
}

// mockStore wires the repository mocks into a repository.Store. InTx runs
// fn on the same mocks and reports whether it was used.
type mockStore struct {
	countries    *MockCountryRepository
	cities       *MockCityRepository
	packages     *MockPackageRepository
	prices       *MockPriceRepository
	reservations *MockReservationRepository
	txCalls      int
}

func newMockStore() *mockStore {
	return &mockStore{
		countries:    new(MockCountryRepository),
		cities:       new(MockCityRepository),
		packages:     new(MockPackageRepository),
		prices:       new(MockPriceRepository),
		reservations: new(MockReservationRepository),
	}
}

func (s *mockStore) Countries() repository.CountryRepository { return s.countries }
func (s *mockStore) Cities() repository.CityRepository { return s.cities }
func (s *mockStore) Packages() repository.PackageRepository { return s.packages }
func (s *mockStore) Prices() repository.PriceRepository { return s.prices }
func (s *mockStore) Reservations() repository.ReservationRepository { return s.reservations }

func (s *mockStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	s.txCalls++
	return fn(s)
}
