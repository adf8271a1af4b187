// Package pricing computes the total price of a reservation from a package
// and an optional pricing grid row.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/shopspring/decimal"
)

// ReservationType selects between per-head and flat group billing
type ReservationType string

const (
	Individual ReservationType = "individual"
	Group      ReservationType = "group"
)

// Explanation tags attached to a resolved quote
const (
	TagFixedGroup         = "fixed group rate"
	TagAdaptedIndividual  = "adapted individual rate"
	TagStandardIndividual = "standard individual rate"
	TagSimpleDestination  = "simple destination rate"
)

var (
	// ErrInvalidInput reports a malformed resolution request
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrGridMismatch reports a grid row owned by another package
	ErrGridMismatch = errors.New("pricing grid does not belong to package")
	// ErrUnresolvablePrice reports that no tier yielded a positive amount
	ErrUnresolvablePrice = errors.New("no applicable price for this reservation")
)

// ParseReservationType validates a reservation type. An empty value means
// individual billing.
func ParseReservationType(s string) (ReservationType, error) {
	switch ReservationType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Individual:
		return Individual, nil
	case Group:
		return Group, nil
	}
	return "", fmt.Errorf("%w: unknown reservation type %q", ErrInvalidInput, s)
}

// Resolve computes the total price and currency for travelers people
// booking pkg, optionally against the grid row selected by the customer.
// It has no side effects.
func Resolve(pkg *model.Package, travelers int, grid *model.PackagePrice, rt ReservationType) (model.Quote, error) {
	if pkg == nil {
		return model.Quote{}, fmt.Errorf("%w: package is required", ErrInvalidInput)
	}
	if travelers < 1 {
		return model.Quote{}, fmt.Errorf("%w: travelers must be at least 1, got %d", ErrInvalidInput, travelers)
	}
	if rt == "" {
		rt = Individual
	}
	if rt != Individual && rt != Group {
		return model.Quote{}, fmt.Errorf("%w: unknown reservation type %q", ErrInvalidInput, rt)
	}

	var quote model.Quote
	count := decimal.NewFromInt(int64(travelers))

	switch {
	case grid != nil:
		if grid.Owner() != pkg.Ref() {
			return model.Quote{}, fmt.Errorf("%w: grid %d belongs to %s, not %s",
				ErrGridMismatch, grid.ID, grid.Owner(), pkg.Ref())
		}
		quote.Currency = currencyOrDefault(string(grid.Currency))

		if rt == Group && travelers == grid.MinPeople {
			quote.TotalPrice = valueOrZero(grid.PriceGroup)
			quote.Explanation = TagFixedGroup
		} else {
			quote.TotalPrice = individualRate(grid).Mul(count)
			quote.Explanation = TagStandardIndividual
			if rt == Group {
				quote.Explanation = TagAdaptedIndividual
			}
		}

	case pkg.Price != nil:
		quote.TotalPrice = pkg.Price.Mul(count)
		quote.Explanation = TagSimpleDestination
		if pkg.Currency != nil {
			quote.Currency = currencyOrDefault(*pkg.Currency)
		} else {
			quote.Currency = string(model.DefaultCurrency)
		}

	default:
		quote.TotalPrice = decimal.Zero
		quote.Currency = string(model.DefaultCurrency)
	}

	if !quote.TotalPrice.IsPositive() {
		return model.Quote{}, fmt.Errorf("%w: %s for %d traveler(s)", ErrUnresolvablePrice, pkg.Ref(), travelers)
	}
	return quote, nil
}

// individualRate is the per-head price of a grid row. Rows created before
// the individual/group split only carry the legacy price.
func individualRate(grid *model.PackagePrice) decimal.Decimal {
	if grid.PriceIndividual != nil {
		return *grid.PriceIndividual
	}
	return grid.Price
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func currencyOrDefault(c string) string {
	if c == "" {
		return string(model.DefaultCurrency)
	}
	return c
}
