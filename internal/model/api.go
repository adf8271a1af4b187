package model

import "github.com/shopspring/decimal"

// CountryInput is the payload for creating or updating a country
type CountryInput struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CityInput is the payload for creating or updating a city
type CityInput struct {
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
}

// PackageInput is the payload for creating or updating a package of any
// kind. Only the variant block matching the target kind is read.
type PackageInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ImageData   string           `json:"image_data,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Active      *bool            `json:"active,omitempty"`

	CityTour    *CityTourDetails    `json:"city_tour,omitempty"`
	Destination *DestinationDetails `json:"destination,omitempty"`
	Ouikenac    *OuikenacInput      `json:"ouikenac,omitempty"`

	// Prices replaces the whole pricing grid when non-nil
	Prices []PriceInput `json:"prices,omitempty"`
}

// OuikenacInput carries the Ouikenac specific fields of a PackageInput
type OuikenacInput struct {
	CountryID        *int64           `json:"country_id,omitempty"`
	Inclusions       []InclusionInput `json:"inclusions"`
	AdditionalCities []AdditionalCity `json:"additional_cities"`
}

// InclusionInput is a line item to attach to an Ouikenac package
type InclusionInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// PriceInput is one pricing grid row as submitted by an admin
type PriceInput struct {
	CountryID          *int64           `json:"country_id,omitempty"`
	DepartureCountryID *int64           `json:"departure_country_id,omitempty"`
	ArrivalCountryID   *int64           `json:"arrival_country_id,omitempty"`
	DepartureCityID    *int64           `json:"departure_city_id,omitempty"`
	ArrivalCityID      *int64           `json:"arrival_city_id,omitempty"`
	MinPeople          *int             `json:"min_people,omitempty"`
	MaxPeople          *int             `json:"max_people,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	PriceIndividual    *decimal.Decimal `json:"price_individual,omitempty"`
	PriceGroup         *decimal.Decimal `json:"price_group,omitempty"`
	Currency           string           `json:"currency,omitempty"`
	Programme          *string          `json:"programme,omitempty"`
	Image              *string          `json:"image,omitempty"`
}

// ReservationInput is the public booking request
type ReservationInput struct {
	ReservableType  string  `json:"reservable_type"`
	ReservableID    int64   `json:"reservable_id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	DateFrom        *Date   `json:"date_from,omitempty"`
	DateTo          *Date   `json:"date_to,omitempty"`
	Travelers       int     `json:"travelers"`
	GridID          *int64  `json:"grid_id,omitempty"`
	ReservationType string  `json:"reservation_type,omitempty"`
	Message         *string `json:"message,omitempty"`
}

// QuoteRequest asks for a price without booking anything
type QuoteRequest struct {
	Package         PackageRef
	Travelers       int
	GridID          *int64
	ReservationType string
}

// Quote is the outcome of a price resolution
type Quote struct {
	TotalPrice  decimal.Decimal `json:"total_price"`
	Currency    string          `json:"currency"`
	Explanation string          `json:"explanation"`
}

// StatusInput is the payload of a reservation status change
type StatusInput struct {
	Status string `json:"status"`
}

// ListResponse wraps a page of results
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
