package repository

import (
	"context"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const bulkChunkSize = 100

type countryRepository struct {
	q sqlx.ExtContext
	d dialect
}

func (r *countryRepository) List(ctx context.Context) ([]model.Country, error) {
	countries := []model.Country{}
	if err := sqlx.SelectContext(ctx, r.q, &countries, "SELECT * FROM countries ORDER BY name"); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *countryRepository) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	return r.getOne(ctx, "SELECT * FROM countries WHERE id = ?", id)
}

func (r *countryRepository) GetByCode(ctx context.Context, code string) (*model.Country, error) {
	return r.getOne(ctx, "SELECT * FROM countries WHERE code = ?", code)
}

func (r *countryRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Country, error) {
	var country model.Country
	if err := sqlx.GetContext(ctx, r.q, &country, r.q.Rebind(query), arg); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &country, nil
}

func (r *countryRepository) Create(ctx context.Context, country *model.Country) error {
	id, err := insertReturningID(ctx, r.q, "INSERT INTO countries (code, name) VALUES (?, ?)", country.Code, country.Name)
	if err != nil {
		return classifyWrite(r.d, err)
	}
	return reload(country, func() (*model.Country, error) { return r.GetByID(ctx, id) })
}

func (r *countryRepository) Update(ctx context.Context, country *model.Country) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE countries SET code = ?, name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`), country.Code, country.Name, country.ID)
	if err != nil {
		return false, classifyWrite(r.d, err)
	}
	if ok, err := affected(res); !ok || err != nil {
		return ok, err
	}
	return true, reload(country, func() (*model.Country, error) { return r.GetByID(ctx, country.ID) })
}

func (r *countryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM countries WHERE id = ?"), id)
	if err != nil {
		return false, classifyDelete(r.d, err)
	}
	return affected(res)
}

func (r *countryRepository) BulkInsert(ctx context.Context, countries []model.Country) error {
	for i := 0; i < len(countries); i += bulkChunkSize {
		end := i + bulkChunkSize
		if end > len(countries) {
			end = len(countries)
		}
		batch := countries[i:end]

		_, err := sqlx.NamedExecContext(ctx, r.q, `
			INSERT INTO countries (code, name)
			VALUES (:code, :name)`, batch)
		if err != nil {
			return classifyWrite(r.d, err)
		}
	}
	return nil
}

type cityRepository struct {
	q sqlx.ExtContext
	d dialect
}

func (r *cityRepository) List(ctx context.Context, filter model.CityFilter) ([]model.City, error) {
	query := "SELECT * FROM cities WHERE 1=1"
	var args []interface{}
	if filter.CountryID != nil {
		query += " AND country_id = ?"
		args = append(args, *filter.CountryID)
	}
	if filter.Query != "" {
		query += " AND " + r.d.contains("name")
		args = append(args, filter.Query)
	}
	query += " ORDER BY name"

	cities := []model.City{}
	if err := sqlx.SelectContext(ctx, r.q, &cities, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *cityRepository) GetByID(ctx context.Context, id int64) (*model.City, error) {
	var city model.City
	if err := sqlx.GetContext(ctx, r.q, &city, r.q.Rebind("SELECT * FROM cities WHERE id = ?"), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *cityRepository) Create(ctx context.Context, city *model.City) error {
	id, err := insertReturningID(ctx, r.q, "INSERT INTO cities (country_id, name) VALUES (?, ?)", city.CountryID, city.Name)
	if err != nil {
		return classifyWrite(r.d, err)
	}
	return reload(city, func() (*model.City, error) { return r.GetByID(ctx, id) })
}

func (r *cityRepository) Update(ctx context.Context, city *model.City) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE cities SET country_id = ?, name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`), city.CountryID, city.Name, city.ID)
	if err != nil {
		return false, classifyWrite(r.d, err)
	}
	if ok, err := affected(res); !ok || err != nil {
		return ok, err
	}
	return true, reload(city, func() (*model.City, error) { return r.GetByID(ctx, city.ID) })
}

func (r *cityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM cities WHERE id = ?"), id)
	if err != nil {
		return false, classifyDelete(r.d, err)
	}
	return affected(res)
}

func (r *cityRepository) BulkInsert(ctx context.Context, cities []model.City) error {
	for i := 0; i < len(cities); i += bulkChunkSize {
		end := i + bulkChunkSize
		if end > len(cities) {
			end = len(cities)
		}
		batch := cities[i:end]

		_, err := sqlx.NamedExecContext(ctx, r.q, `
			INSERT INTO cities (country_id, name)
			VALUES (:country_id, :name)`, batch)
		if err != nil {
			return classifyWrite(r.d, err)
		}
	}
	return nil
}
