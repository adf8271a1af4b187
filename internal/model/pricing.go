package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one of the currencies a price row may be expressed in
type Currency string

const (
	CurrencyCFA Currency = "CFA"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// DefaultCurrency applies when a price carries no currency
const DefaultCurrency = CurrencyCFA

// ParseCurrency normalizes and validates a currency code. Empty input
// yields the default currency.
func ParseCurrency(s string) (Currency, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch Currency(s) {
	case "":
		return DefaultCurrency, nil
	case CurrencyCFA, CurrencyUSD, CurrencyEUR:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

// PackagePrice is one row of a package's pricing grid
type PackagePrice struct {
	ID                 int64            `json:"id" db:"id"`
	PriceableType      PackageKind      `json:"priceable_type" db:"priceable_type"`
	PriceableID        int64            `json:"priceable_id" db:"priceable_id"`
	CountryID          *int64           `json:"country_id,omitempty" db:"country_id"`
	DepartureCountryID *int64           `json:"departure_country_id,omitempty" db:"departure_country_id"`
	ArrivalCountryID   *int64           `json:"arrival_country_id,omitempty" db:"arrival_country_id"`
	DepartureCityID    *int64           `json:"departure_city_id,omitempty" db:"departure_city_id"`
	ArrivalCityID      *int64           `json:"arrival_city_id,omitempty" db:"arrival_city_id"`
	MinPeople          int              `json:"min_people" db:"min_people"`
	MaxPeople          *int             `json:"max_people,omitempty" db:"max_people"`
	Price              decimal.Decimal  `json:"price" db:"price"`
	PriceIndividual    *decimal.Decimal `json:"price_individual,omitempty" db:"price_individual"`
	PriceGroup         *decimal.Decimal `json:"price_group,omitempty" db:"price_group"`
	Currency           Currency         `json:"currency" db:"currency"`
	Programme          *string          `json:"programme,omitempty" db:"programme"`
	Image              *string          `json:"image,omitempty" db:"image"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// Owner returns the package the row belongs to
func (p *PackagePrice) Owner() PackageRef {
	return PackageRef{Kind: p.PriceableType, ID: p.PriceableID}
}
