package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const defaultCityType = "stopover"

// variantStore persists the rows of one package kind
type variantStore interface {
	list(ctx context.Context, q sqlx.ExtContext, d dialect, filter model.PackageFilter) ([]model.Package, error)
	get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Package, error)
	insert(ctx context.Context, q sqlx.ExtContext, pkg *model.Package) (int64, error)
	update(ctx context.Context, q sqlx.ExtContext, pkg *model.Package) (bool, error)
	delete(ctx context.Context, q sqlx.ExtContext, id int64) (bool, error)
}

// coreRow holds the columns every package table shares
type coreRow struct {
	ID          int64            `db:"id"`
	Title       string           `db:"title"`
	Description string           `db:"description"`
	Image       *string          `db:"image"`
	Price       *decimal.Decimal `db:"price"`
	Currency    *string          `db:"currency"`
	Active      bool             `db:"active"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
}

var coreColumns = []string{"title", "description", "image", "price", "currency", "active"}

func coreValues(p *model.Package) []interface{} {
	return []interface{}{p.Title, p.Description, p.Image, p.Price, p.Currency, p.Active}
}

func (c *coreRow) toPackage(kind model.PackageKind) model.Package {
	return model.Package{
		ID:          c.ID,
		Kind:        kind,
		Title:       c.Title,
		Description: c.Description,
		Image:       c.Image,
		Price:       c.Price,
		Currency:    c.Currency,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type cityTourRow struct {
	coreRow
	CountryID     int64       `db:"country_id"`
	CityID        int64       `db:"city_id"`
	ScheduledDate *model.Date `db:"scheduled_date"`
	Itinerary     *string     `db:"itinerary"`
	MinPeople     *int        `db:"min_people"`
	MaxPeople     *int        `db:"max_people"`
}

type destinationRow struct {
	coreRow
	DepartureCountryID int64  `db:"departure_country_id"`
	ArrivalCountryID   *int64 `db:"arrival_country_id"`
	DepartureCityID    *int64 `db:"departure_city_id"`
	ArrivalCityID      *int64 `db:"arrival_city_id"`
	MinPeople          *int   `db:"min_people"`
	MaxPeople          *int   `db:"max_people"`
}

type ouikenacRow struct {
	coreRow
	CountryID *int64 `db:"country_id"`
}

// packageTable implements variantStore for a table whose rows scan into R
type packageTable[R any] struct {
	name    string
	columns []string
	values  func(p *model.Package) ([]interface{}, error)
	toModel func(r *R) model.Package
}

func (t *packageTable[R]) list(ctx context.Context, q sqlx.ExtContext, d dialect, filter model.PackageFilter) ([]model.Package, error) {
	query := "SELECT * FROM " + t.name + " WHERE 1=1"
	var args []interface{}
	if filter.Active != nil {
		query += " AND active = ?"
		args = append(args, *filter.Active)
	}
	if filter.Query != "" {
		query += " AND " + d.contains("title")
		args = append(args, filter.Query)
	}
	query += " ORDER BY id"

	var rows []R
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make([]model.Package, 0, len(rows))
	for i := range rows {
		out = append(out, t.toModel(&rows[i]))
	}
	return out, nil
}

func (t *packageTable[R]) get(ctx context.Context, q sqlx.ExtContext, id int64) (*model.Package, error) {
	var row R
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind("SELECT * FROM "+t.name+" WHERE id = ?"), id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	pkg := t.toModel(&row)
	return &pkg, nil
}

func (t *packageTable[R]) insert(ctx context.Context, q sqlx.ExtContext, pkg *model.Package) (int64, error) {
	variant, err := t.values(pkg)
	if err != nil {
		return 0, err
	}
	cols := make([]string, 0, len(coreColumns)+len(t.columns))
	cols = append(cols, coreColumns...)
	cols = append(cols, t.columns...)
	args := append(coreValues(pkg), variant...)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	return insertReturningID(ctx, q, query, args...)
}

func (t *packageTable[R]) update(ctx context.Context, q sqlx.ExtContext, pkg *model.Package) (bool, error) {
	variant, err := t.values(pkg)
	if err != nil {
		return false, err
	}
	sets := make([]string, 0, len(coreColumns)+len(t.columns)+1)
	for _, c := range coreColumns {
		sets = append(sets, c+" = ?")
	}
	for _, c := range t.columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args := append(coreValues(pkg), variant...)
	args = append(args, pkg.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(sets, ", "))
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (t *packageTable[R]) delete(ctx context.Context, q sqlx.ExtContext, id int64) (bool, error) {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM "+t.name+" WHERE id = ?"), id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

var cityTourTable = &packageTable[cityTourRow]{
	name:    "city_tours",
	columns: []string{"country_id", "city_id", "scheduled_date", "itinerary", "min_people", "max_people"},
	values: func(p *model.Package) ([]interface{}, error) {
		v := p.CityTour
		if v == nil {
			return nil, fmt.Errorf("city tour details are missing")
		}
		return []interface{}{v.CountryID, v.CityID, v.ScheduledDate, v.Itinerary, v.MinPeople, v.MaxPeople}, nil
	},
	toModel: func(r *cityTourRow) model.Package {
		pkg := r.toPackage(model.KindCityTour)
		pkg.CityTour = &model.CityTourDetails{
			CountryID:     r.CountryID,
			CityID:        r.CityID,
			ScheduledDate: r.ScheduledDate,
			Itinerary:     r.Itinerary,
			MinPeople:     r.MinPeople,
			MaxPeople:     r.MaxPeople,
		}
		return pkg
	},
}

var destinationTable = &packageTable[destinationRow]{
	name: "destination_packages",
	columns: []string{
		"departure_country_id", "arrival_country_id", "departure_city_id", "arrival_city_id",
		"min_people", "max_people",
	},
	values: func(p *model.Package) ([]interface{}, error) {
		v := p.Destination
		if v == nil {
			return nil, fmt.Errorf("destination details are missing")
		}
		return []interface{}{
			v.DepartureCountryID, v.ArrivalCountryID, v.DepartureCityID, v.ArrivalCityID,
			v.MinPeople, v.MaxPeople,
		}, nil
	},
	toModel: func(r *destinationRow) model.Package {
		pkg := r.toPackage(model.KindDestination)
		pkg.Destination = &model.DestinationDetails{
			DepartureCountryID: r.DepartureCountryID,
			ArrivalCountryID:   r.ArrivalCountryID,
			DepartureCityID:    r.DepartureCityID,
			ArrivalCityID:      r.ArrivalCityID,
			MinPeople:          r.MinPeople,
			MaxPeople:          r.MaxPeople,
		}
		return pkg
	},
}

var ouikenacTable = &packageTable[ouikenacRow]{
	name:    "ouikenac_packages",
	columns: []string{"country_id"},
	values: func(p *model.Package) ([]interface{}, error) {
		if p.Ouikenac == nil {
			return []interface{}{nil}, nil
		}
		return []interface{}{p.Ouikenac.CountryID}, nil
	},
	toModel: func(r *ouikenacRow) model.Package {
		pkg := r.toPackage(model.KindOuikenac)
		pkg.Ouikenac = &model.OuikenacDetails{
			CountryID:        r.CountryID,
			Inclusions:       []model.Inclusion{},
			AdditionalCities: []model.AdditionalCity{},
		}
		return pkg
	},
}

type packageRepository struct {
	q      sqlx.ExtContext
	d      dialect
	tables map[model.PackageKind]variantStore
}

func newPackageRepository(q sqlx.ExtContext, d dialect) *packageRepository {
	return &packageRepository{
		q: q,
		d: d,
		tables: map[model.PackageKind]variantStore{
			model.KindCityTour:    cityTourTable,
			model.KindDestination: destinationTable,
			model.KindOuikenac:    ouikenacTable,
		},
	}
}

func (r *packageRepository) table(kind model.PackageKind) (variantStore, error) {
	t, ok := r.tables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown package kind %q", kind)
	}
	return t, nil
}

func (r *packageRepository) List(ctx context.Context, filter model.PackageFilter) ([]model.Package, error) {
	kinds := model.PackageKinds
	if filter.Kind != "" {
		kinds = []model.PackageKind{filter.Kind}
	}

	packages := []model.Package{}
	for _, kind := range kinds {
		t, err := r.table(kind)
		if err != nil {
			return nil, err
		}
		found, err := t.list(ctx, r.q, r.d, filter)
		if err != nil {
			return nil, fmt.Errorf("list %s packages: %w", kind, err)
		}
		for i := range found {
			if err := r.loadOwned(ctx, &found[i]); err != nil {
				return nil, err
			}
		}
		packages = append(packages, found...)
	}
	return packages, nil
}

func (r *packageRepository) Get(ctx context.Context, ref model.PackageRef) (*model.Package, error) {
	t, err := r.table(ref.Kind)
	if err != nil {
		return nil, err
	}
	pkg, err := t.get(ctx, r.q, ref.ID)
	if err != nil || pkg == nil {
		return nil, err
	}
	if err := r.loadOwned(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (r *packageRepository) Create(ctx context.Context, pkg *model.Package) error {
	t, err := r.table(pkg.Kind)
	if err != nil {
		return err
	}
	id, err := t.insert(ctx, r.q, pkg)
	if err != nil {
		return classifyWrite(r.d, err)
	}
	pkg.ID = id
	if err := r.saveOwned(ctx, pkg); err != nil {
		return err
	}
	return reload(pkg, func() (*model.Package, error) { return r.Get(ctx, pkg.Ref()) })
}

func (r *packageRepository) Update(ctx context.Context, pkg *model.Package) (bool, error) {
	t, err := r.table(pkg.Kind)
	if err != nil {
		return false, err
	}
	ok, err := t.update(ctx, r.q, pkg)
	if err != nil {
		return false, classifyWrite(r.d, err)
	}
	if !ok {
		return false, nil
	}
	if err := r.saveOwned(ctx, pkg); err != nil {
		return false, err
	}
	return true, reload(pkg, func() (*model.Package, error) { return r.Get(ctx, pkg.Ref()) })
}

func (r *packageRepository) Delete(ctx context.Context, ref model.PackageRef) (bool, error) {
	t, err := r.table(ref.Kind)
	if err != nil {
		return false, err
	}
	if ref.Kind == model.KindOuikenac {
		if err := r.deleteOwned(ctx, ref.ID); err != nil {
			return false, err
		}
	}
	ok, err := t.delete(ctx, r.q, ref.ID)
	if err != nil {
		return false, classifyDelete(r.d, err)
	}
	return ok, nil
}

// loadOwned fills the inclusions and additional cities of an Ouikenac package
func (r *packageRepository) loadOwned(ctx context.Context, pkg *model.Package) error {
	if pkg.Kind != model.KindOuikenac || pkg.Ouikenac == nil {
		return nil
	}
	inclusions := []model.Inclusion{}
	err := sqlx.SelectContext(ctx, r.q, &inclusions,
		r.q.Rebind("SELECT * FROM package_inclusions WHERE package_id = ? ORDER BY id"), pkg.ID)
	if err != nil {
		return fmt.Errorf("load inclusions: %w", err)
	}
	cities := []model.AdditionalCity{}
	err = sqlx.SelectContext(ctx, r.q, &cities,
		r.q.Rebind("SELECT city_id, type FROM ouikenac_package_cities WHERE package_id = ? ORDER BY city_id"), pkg.ID)
	if err != nil {
		return fmt.Errorf("load additional cities: %w", err)
	}
	pkg.Ouikenac.Inclusions = inclusions
	pkg.Ouikenac.AdditionalCities = cities
	return nil
}

// saveOwned replaces the inclusions and additional cities of an Ouikenac
// package with the ones carried by pkg.
func (r *packageRepository) saveOwned(ctx context.Context, pkg *model.Package) error {
	if pkg.Kind != model.KindOuikenac || pkg.Ouikenac == nil {
		return nil
	}
	if err := r.deleteOwned(ctx, pkg.ID); err != nil {
		return err
	}
	for _, inc := range pkg.Ouikenac.Inclusions {
		_, err := r.q.ExecContext(ctx,
			r.q.Rebind("INSERT INTO package_inclusions (package_id, name, description) VALUES (?, ?, ?)"),
			pkg.ID, inc.Name, inc.Description)
		if err != nil {
			return classifyWrite(r.d, err)
		}
	}
	for _, city := range pkg.Ouikenac.AdditionalCities {
		cityType := city.Type
		if cityType == "" {
			cityType = defaultCityType
		}
		_, err := r.q.ExecContext(ctx,
			r.q.Rebind("INSERT INTO ouikenac_package_cities (package_id, city_id, type) VALUES (?, ?, ?)"),
			pkg.ID, city.CityID, cityType)
		if err != nil {
			return classifyWrite(r.d, err)
		}
	}
	return nil
}

func (r *packageRepository) deleteOwned(ctx context.Context, packageID int64) error {
	if _, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM package_inclusions WHERE package_id = ?"), packageID); err != nil {
		return fmt.Errorf("delete inclusions: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM ouikenac_package_cities WHERE package_id = ?"), packageID); err != nil {
		return fmt.Errorf("delete additional cities: %w", err)
	}
	return nil
}
