package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/model"
)

const (
	maxCodeLength = 10
	maxNameLength = 150
)

func (s *Service) ListCountries(ctx context.Context) ([]model.Country, error) {
	countries, err := s.store.Countries().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

func (s *Service) GetCountry(ctx context.Context, id int64) (*model.Country, error) {
	country, err := s.store.Countries().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	if country == nil {
		return nil, notFound("country", id)
	}
	return country, nil
}

func (s *Service) CreateCountry(ctx context.Context, in model.CountryInput) (*model.Country, error) {
	country, err := validateCountry(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Countries().Create(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to create country: %w", err)
	}
	return country, nil
}

func (s *Service) UpdateCountry(ctx context.Context, id int64, in model.CountryInput) (*model.Country, error) {
	country, err := validateCountry(in)
	if err != nil {
		return nil, err
	}
	country.ID = id
	ok, err := s.store.Countries().Update(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("failed to update country: %w", err)
	}
	if !ok {
		return nil, notFound("country", id)
	}
	return country, nil
}

func (s *Service) DeleteCountry(ctx context.Context, id int64) error {
	ok, err := s.store.Countries().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}
	if !ok {
		return notFound("country", id)
	}
	return nil
}

func validateCountry(in model.CountryInput) (*model.Country, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	switch {
	case code == "":
		return nil, validationError("code is required")
	case len(code) > maxCodeLength:
		return nil, validationError("code must be at most %d characters", maxCodeLength)
	case name == "":
		return nil, validationError("name is required")
	case len(name) > maxNameLength:
		return nil, validationError("name must be at most %d characters", maxNameLength)
	}
	return &model.Country{Code: code, Name: name}, nil
}

func (s *Service) ListCities(ctx context.Context, filter model.CityFilter) ([]model.City, error) {
	cities, err := s.store.Cities().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	return cities, nil
}

func (s *Service) GetCity(ctx context.Context, id int64) (*model.City, error) {
	city, err := s.store.Cities().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	if city == nil {
		return nil, notFound("city", id)
	}
	return city, nil
}

func (s *Service) CreateCity(ctx context.Context, in model.CityInput) (*model.City, error) {
	city, err := validateCity(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Cities().Create(ctx, city); err != nil {
		return nil, fmt.Errorf("failed to create city: %w", err)
	}
	return city, nil
}

func (s *Service) UpdateCity(ctx context.Context, id int64, in model.CityInput) (*model.City, error) {
	city, err := validateCity(in)
	if err != nil {
		return nil, err
	}
	city.ID = id
	ok, err := s.store.Cities().Update(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("failed to update city: %w", err)
	}
	if !ok {
		return nil, notFound("city", id)
	}
	return city, nil
}

func (s *Service) DeleteCity(ctx context.Context, id int64) error {
	ok, err := s.store.Cities().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete city: %w", err)
	}
	if !ok {
		return notFound("city", id)
	}
	return nil
}

func validateCity(in model.CityInput) (*model.City, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case in.CountryID <= 0:
		return nil, validationError("country_id is required")
	case name == "":
		return nil, validationError("name is required")
	case len(name) > maxNameLength:
		return nil, validationError("name must be at most %d characters", maxNameLength)
	}
	return &model.City{CountryID: in.CountryID, Name: name}, nil
}
