package seeder

import (
	"context"
	"fmt"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"go.uber.org/zap"
)

// Result reports what an import stored
type Result struct {
	Countries     int
	Cities        int
	SkippedCities int
}

// Seed imports the countries and cities parsed by p in one transaction.
// Cities whose country code is unknown are skipped.
func Seed(ctx context.Context, store repository.Store, p *Parser, logger *zap.Logger) (Result, error) {
	var res Result

	logger.Info("Parsing countries...")
	countries, err := p.ParseCountries()
	if err != nil {
		return res, err
	}

	logger.Info("Parsing cities...")
	records, err := p.ParseCities()
	if err != nil {
		return res, err
	}

	err = store.InTx(ctx, func(tx repository.Store) error {
		logger.Info("Inserting countries...", zap.Int("count", len(countries)))
		for _, batch := range chunk(countries, p.BatchSize()) {
			if err := tx.Countries().BulkInsert(ctx, batch); err != nil {
				return fmt.Errorf("failed to insert countries: %w", err)
			}
		}

		stored, err := tx.Countries().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list countries: %w", err)
		}
		ids := CreateCountryIDMap(stored)

		cities := make([]model.City, 0, len(records))
		for _, rec := range records {
			id, ok := ids[rec.CountryCode]
			if !ok {
				logger.Warn("Skipping city with unknown country",
					zap.String("city", rec.Name),
					zap.String("country_code", rec.CountryCode),
				)
				res.SkippedCities++
				continue
			}
			cities = append(cities, model.City{CountryID: id, Name: rec.Name})
		}

		logger.Info("Inserting cities...", zap.Int("count", len(cities)))
		for _, batch := range chunk(cities, p.BatchSize()) {
			if err := tx.Cities().BulkInsert(ctx, batch); err != nil {
				return fmt.Errorf("failed to insert cities: %w", err)
			}
		}

		res.Countries = len(countries)
		res.Cities = len(cities)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
