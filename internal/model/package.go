package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PackageKind discriminates the package variants
type PackageKind string

const (
	KindCityTour    PackageKind = "city_tour"
	KindDestination PackageKind = "destination"
	KindOuikenac    PackageKind = "ouikenac"
)

// PackageKinds lists every variant in a stable order
var PackageKinds = []PackageKind{KindCityTour, KindDestination, KindOuikenac}

var kindSlugs = map[PackageKind]string{
	KindCityTour:    "city-tours",
	KindDestination: "destinations",
	KindOuikenac:    "ouikenac",
}

// ParsePackageKind accepts the canonical kind name or its URL slug
func ParsePackageKind(s string) (PackageKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, slug := range kindSlugs {
		if s == string(kind) || s == slug {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown package kind %q", s)
}

// Slug returns the URL path segment for the kind
func (k PackageKind) Slug() string {
	return kindSlugs[k]
}

// Valid reports whether k is one of the known variants
func (k PackageKind) Valid() bool {
	_, ok := kindSlugs[k]
	return ok
}

// PackageRef is the polymorphic reference used by price rows and reservations
type PackageRef struct {
	Kind PackageKind `json:"kind"`
	ID   int64       `json:"id"`
}

func (r PackageRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// Package is the shared core of every variant. Exactly one of the variant
// payloads is set, matching Kind.
type Package struct {
	ID          int64            `json:"id"`
	Kind        PackageKind      `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Image       *string          `json:"image,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	CityTour    *CityTourDetails    `json:"city_tour,omitempty"`
	Destination *DestinationDetails `json:"destination,omitempty"`
	Ouikenac    *OuikenacDetails    `json:"ouikenac,omitempty"`

	Prices []PackagePrice `json:"prices,omitempty"`
}

// Ref returns the polymorphic reference of the package
func (p *Package) Ref() PackageRef {
	return PackageRef{Kind: p.Kind, ID: p.ID}
}

// ScheduledDate returns the package's own date, if the variant defines one
func (p *Package) ScheduledDate() *Date {
	if p.CityTour != nil {
		return p.CityTour.ScheduledDate
	}
	return nil
}

// CityTourDetails holds the fields specific to a city tour
type CityTourDetails struct {
	CountryID     int64   `json:"country_id"`
	CityID        int64   `json:"city_id"`
	ScheduledDate *Date   `json:"scheduled_date,omitempty"`
	Itinerary     *string `json:"itinerary,omitempty"`
	MinPeople     *int    `json:"min_people,omitempty"`
	MaxPeople     *int    `json:"max_people,omitempty"`
}

// DestinationDetails holds the fields specific to a destination package
type DestinationDetails struct {
	DepartureCountryID int64  `json:"departure_country_id"`
	ArrivalCountryID   *int64 `json:"arrival_country_id,omitempty"`
	DepartureCityID    *int64 `json:"departure_city_id,omitempty"`
	ArrivalCityID      *int64 `json:"arrival_city_id,omitempty"`
	MinPeople          *int   `json:"min_people,omitempty"`
	MaxPeople          *int   `json:"max_people,omitempty"`
}

// OuikenacDetails holds the fields specific to an Ouikenac package
type OuikenacDetails struct {
	CountryID        *int64           `json:"country_id,omitempty"`
	Inclusions       []Inclusion      `json:"inclusions"`
	AdditionalCities []AdditionalCity `json:"additional_cities"`
}

// Inclusion is a named line item included in an Ouikenac package
type Inclusion struct {
	ID          int64   `json:"id" db:"id"`
	PackageID   int64   `json:"package_id" db:"package_id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// AdditionalCity is a waypoint of an Ouikenac package
type AdditionalCity struct {
	CityID int64  `json:"city_id" db:"city_id"`
	Type   string `json:"type" db:"type"`
}

// PackageFilter narrows a package listing
type PackageFilter struct {
	Kind   PackageKind
	Active *bool
	Query  string
}
