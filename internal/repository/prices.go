package repository

import (
	"context"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type priceRepository struct {
	q sqlx.ExtContext
	d dialect
}

func (r *priceRepository) ListByPackage(ctx context.Context, ref model.PackageRef) ([]model.PackagePrice, error) {
	prices := []model.PackagePrice{}
	query := r.q.Rebind(`
		SELECT * FROM package_prices
		WHERE priceable_type = ? AND priceable_id = ?
		ORDER BY min_people, id`)
	if err := sqlx.SelectContext(ctx, r.q, &prices, query, string(ref.Kind), ref.ID); err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *priceRepository) Get(ctx context.Context, id int64) (*model.PackagePrice, error) {
	var price model.PackagePrice
	if err := sqlx.GetContext(ctx, r.q, &price, r.q.Rebind("SELECT * FROM package_prices WHERE id = ?"), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) Create(ctx context.Context, p *model.PackagePrice) error {
	id, err := insertReturningID(ctx, r.q, `
		INSERT INTO package_prices (
			priceable_type, priceable_id, country_id, departure_country_id, arrival_country_id,
			departure_city_id, arrival_city_id, min_people, max_people, price,
			price_individual, price_group, currency, programme, image
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.PriceableType), p.PriceableID, p.CountryID, p.DepartureCountryID, p.ArrivalCountryID,
		p.DepartureCityID, p.ArrivalCityID, p.MinPeople, p.MaxPeople, p.Price,
		p.PriceIndividual, p.PriceGroup, string(p.Currency), p.Programme, p.Image)
	if err != nil {
		return classifyWrite(r.d, err)
	}
	return reload(p, func() (*model.PackagePrice, error) { return r.Get(ctx, id) })
}

// Update rewrites the tier fields of a row. The owning package never changes.
func (r *priceRepository) Update(ctx context.Context, p *model.PackagePrice) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE package_prices SET
			country_id = ?, departure_country_id = ?, arrival_country_id = ?,
			departure_city_id = ?, arrival_city_id = ?, min_people = ?, max_people = ?,
			price = ?, price_individual = ?, price_group = ?, currency = ?,
			programme = ?, image = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`),
		p.CountryID, p.DepartureCountryID, p.ArrivalCountryID,
		p.DepartureCityID, p.ArrivalCityID, p.MinPeople, p.MaxPeople,
		p.Price, p.PriceIndividual, p.PriceGroup, string(p.Currency),
		p.Programme, p.Image, p.ID)
	if err != nil {
		return false, classifyWrite(r.d, err)
	}
	if ok, err := affected(res); !ok || err != nil {
		return ok, err
	}
	return true, reload(p, func() (*model.PackagePrice, error) { return r.Get(ctx, p.ID) })
}

func (r *priceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM package_prices WHERE id = ?"), id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *priceRepository) DeleteByPackage(ctx context.Context, ref model.PackageRef) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		r.q.Rebind("DELETE FROM package_prices WHERE priceable_type = ? AND priceable_id = ?"),
		string(ref.Kind), ref.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
