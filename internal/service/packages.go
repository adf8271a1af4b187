package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/alexivanou/tourbook-api/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxTitleLength = 150

func (s *Service) ListPackages(ctx context.Context, filter model.PackageFilter) ([]model.Package, error) {
	pkgs, err := s.store.Packages().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return pkgs, nil
}

// GetPackage returns the package with its pricing grid
func (s *Service) GetPackage(ctx context.Context, ref model.PackageRef) (*model.Package, error) {
	pkg, err := s.findPackage(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	prices, err := s.store.Prices().ListByPackage(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	pkg.Prices = prices
	return pkg, nil
}

// CreatePackage stores a package and its pricing grid atomically. The
// image is written first and removed again if the transaction fails.
func (s *Service) CreatePackage(ctx context.Context, kind model.PackageKind, in model.PackageInput) (*model.Package, error) {
	pkg, err := buildPackage(kind, in, nil)
	if err != nil {
		return nil, err
	}
	prices, err := buildPrices(in.Prices)
	if err != nil {
		return nil, err
	}
	imagePath, err := s.saveImage(in.ImageData)
	if err != nil {
		return nil, err
	}
	if imagePath != "" {
		pkg.Image = &imagePath
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Packages().Create(ctx, pkg); err != nil {
			return err
		}
		return replacePrices(ctx, tx, pkg, prices, false)
	})
	if err != nil {
		s.removeImage(imagePath)
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return pkg, nil
}

// UpdatePackage rewrites a package. The description, flat price, currency,
// variant details and the image are kept when the input leaves them out;
// the pricing grid is replaced when the input carries one.
func (s *Service) UpdatePackage(ctx context.Context, ref model.PackageRef, in model.PackageInput) (*model.Package, error) {
	if _, err := buildPackage(ref.Kind, in, &model.Package{Kind: ref.Kind}); err != nil {
		return nil, err
	}
	var prices []model.PackagePrice
	if in.Prices != nil {
		var err error
		if prices, err = buildPrices(in.Prices); err != nil {
			return nil, err
		}
	}
	imagePath, err := s.saveImage(in.ImageData)
	if err != nil {
		return nil, err
	}

	var (
		pkg      *model.Package
		oldImage *string
	)
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		existing, err := s.findPackage(ctx, tx, ref)
		if err != nil {
			return err
		}
		if pkg, err = buildPackage(ref.Kind, in, existing); err != nil {
			return err
		}
		if imagePath != "" {
			oldImage = existing.Image
			pkg.Image = &imagePath
		}
		ok, err := tx.Packages().Update(ctx, pkg)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("package", ref)
		}
		if in.Prices != nil {
			return replacePrices(ctx, tx, pkg, prices, true)
		}
		pkg.Prices, err = tx.Prices().ListByPackage(ctx, ref)
		return err
	})
	if err != nil {
		s.removeImage(imagePath)
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	if oldImage != nil {
		s.removeImage(*oldImage)
	}
	return pkg, nil
}

// DeletePackage removes the price rows, the owned rows and the package in
// one transaction. Reservations keep pointing at the deleted package.
func (s *Service) DeletePackage(ctx context.Context, ref model.PackageRef) error {
	var image *string
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		existing, err := s.findPackage(ctx, tx, ref)
		if err != nil {
			return err
		}
		image = existing.Image

		if _, err := tx.Prices().DeleteByPackage(ctx, ref); err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
		ok, err := tx.Packages().Delete(ctx, ref)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("package", ref)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if image != nil {
		s.removeImage(*image)
	}
	return nil
}

func (s *Service) ListPrices(ctx context.Context, ref model.PackageRef) ([]model.PackagePrice, error) {
	if _, err := s.findPackage(ctx, s.store, ref); err != nil {
		return nil, err
	}
	prices, err := s.store.Prices().ListByPackage(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return prices, nil
}

func (s *Service) CreatePrice(ctx context.Context, ref model.PackageRef, in model.PriceInput) (*model.PackagePrice, error) {
	price, err := buildPrice(in)
	if err != nil {
		return nil, err
	}
	price.PriceableType = ref.Kind
	price.PriceableID = ref.ID

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := s.findPackage(ctx, tx, ref); err != nil {
			return err
		}
		return tx.Prices().Create(ctx, &price)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create price: %w", err)
	}
	return &price, nil
}

func (s *Service) UpdatePrice(ctx context.Context, ref model.PackageRef, id int64, in model.PriceInput) (*model.PackagePrice, error) {
	price, err := buildPrice(in)
	if err != nil {
		return nil, err
	}
	price.ID = id
	price.PriceableType = ref.Kind
	price.PriceableID = ref.ID

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := s.findPrice(ctx, tx, ref, id); err != nil {
			return err
		}
		ok, err := tx.Prices().Update(ctx, &price)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("pricing grid", id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update price: %w", err)
	}
	return &price, nil
}

func (s *Service) DeletePrice(ctx context.Context, ref model.PackageRef, id int64) error {
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := s.findPrice(ctx, tx, ref, id); err != nil {
			return err
		}
		_, err := tx.Prices().Delete(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	return nil
}

func (s *Service) findPackage(ctx context.Context, st repository.Store, ref model.PackageRef) (*model.Package, error) {
	if !ref.Kind.Valid() {
		return nil, validationError("unknown package kind %q", ref.Kind)
	}
	pkg, err := st.Packages().Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil {
		return nil, notFound("package", ref)
	}
	return pkg, nil
}

// findPrice loads a grid row and checks it belongs to ref
func (s *Service) findPrice(ctx context.Context, st repository.Store, ref model.PackageRef, id int64) (*model.PackagePrice, error) {
	price, err := st.Prices().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	if price == nil || price.Owner() != ref {
		return nil, notFound("pricing grid", id)
	}
	return price, nil
}

func replacePrices(ctx context.Context, tx repository.Store, pkg *model.Package, prices []model.PackagePrice, clear bool) error {
	if clear {
		if _, err := tx.Prices().DeleteByPackage(ctx, pkg.Ref()); err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
	}
	created := make([]model.PackagePrice, 0, len(prices))
	for _, p := range prices {
		p.PriceableType = pkg.Kind
		p.PriceableID = pkg.ID
		if err := tx.Prices().Create(ctx, &p); err != nil {
			return fmt.Errorf("create price: %w", err)
		}
		created = append(created, p)
	}
	pkg.Prices = created
	return nil
}

func (s *Service) saveImage(data string) (string, error) {
	if data == "" {
		return "", nil
	}
	if s.images == nil {
		return "", validationError("image uploads are not enabled")
	}
	raw, err := storage.DecodeBase64(data)
	if err != nil {
		return "", err
	}
	path, err := s.images.Save(raw)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return path, nil
}

func (s *Service) removeImage(path string) {
	if path == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(path); err != nil {
		s.logger.Warn("failed to remove image", zap.String("path", path), zap.Error(err))
	}
}

// buildPackage validates in and returns the package to store. With a
// non-nil base, fields the input leaves out are taken from base.
func buildPackage(kind model.PackageKind, in model.PackageInput, base *model.Package) (*model.Package, error) {
	if !kind.Valid() {
		return nil, validationError("unknown package kind %q", kind)
	}
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, validationError("title is required")
	case len(title) > maxTitleLength:
		return nil, validationError("title must be at most %d characters", maxTitleLength)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, validationError("price must not be negative")
	}

	pkg := &model.Package{
		Kind:        kind,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Active:      true,
	}
	if base != nil {
		pkg.ID = base.ID
		pkg.Image = base.Image
		pkg.Active = base.Active
		pkg.CityTour = base.CityTour
		pkg.Destination = base.Destination
		pkg.Ouikenac = base.Ouikenac
		if pkg.Description == "" {
			pkg.Description = base.Description
		}
		if pkg.Price == nil {
			pkg.Price = base.Price
		}
		pkg.Currency = base.Currency
	}
	if in.Active != nil {
		pkg.Active = *in.Active
	}
	if in.Currency != nil {
		c, err := model.ParseCurrency(*in.Currency)
		if err != nil {
			return nil, validationError("%v", err)
		}
		code := string(c)
		pkg.Currency = &code
	}

	creating := base == nil
	switch kind {
	case model.KindCityTour:
		if in.CityTour != nil {
			v := *in.CityTour
			if v.CountryID <= 0 || v.CityID <= 0 {
				return nil, validationError("city_tour.country_id and city_tour.city_id are required")
			}
			if err := checkPeople(v.MinPeople, v.MaxPeople); err != nil {
				return nil, err
			}
			pkg.CityTour = &v
		} else if creating {
			return nil, validationError("city_tour details are required")
		}

	case model.KindDestination:
		if in.Destination != nil {
			v := *in.Destination
			if v.DepartureCountryID <= 0 {
				return nil, validationError("destination.departure_country_id is required")
			}
			if err := checkPeople(v.MinPeople, v.MaxPeople); err != nil {
				return nil, err
			}
			pkg.Destination = &v
		} else if creating {
			return nil, validationError("destination details are required")
		}

	case model.KindOuikenac:
		if in.Ouikenac != nil {
			v, err := buildOuikenac(*in.Ouikenac)
			if err != nil {
				return nil, err
			}
			pkg.Ouikenac = v
		} else if creating {
			pkg.Ouikenac = &model.OuikenacDetails{}
		}
	}
	return pkg, nil
}

func buildOuikenac(in model.OuikenacInput) (*model.OuikenacDetails, error) {
	details := &model.OuikenacDetails{
		CountryID:        in.CountryID,
		Inclusions:       make([]model.Inclusion, 0, len(in.Inclusions)),
		AdditionalCities: make([]model.AdditionalCity, 0, len(in.AdditionalCities)),
	}
	for i, inc := range in.Inclusions {
		name := strings.TrimSpace(inc.Name)
		if name == "" {
			return nil, validationError("inclusions[%d].name is required", i)
		}
		details.Inclusions = append(details.Inclusions, model.Inclusion{Name: name, Description: inc.Description})
	}
	seen := make(map[int64]bool, len(in.AdditionalCities))
	for i, c := range in.AdditionalCities {
		if c.CityID <= 0 {
			return nil, validationError("additional_cities[%d].city_id is required", i)
		}
		if seen[c.CityID] {
			return nil, validationError("additional_cities lists city %d twice", c.CityID)
		}
		seen[c.CityID] = true
		details.AdditionalCities = append(details.AdditionalCities, model.AdditionalCity{
			CityID: c.CityID,
			Type:   strings.TrimSpace(c.Type),
		})
	}
	return details, nil
}

func buildPrices(in []model.PriceInput) ([]model.PackagePrice, error) {
	prices := make([]model.PackagePrice, 0, len(in))
	for i, p := range in {
		price, err := buildPrice(p)
		if err != nil {
			return nil, fmt.Errorf("prices[%d]: %w", i, err)
		}
		prices = append(prices, price)
	}
	return prices, nil
}

func buildPrice(in model.PriceInput) (model.PackagePrice, error) {
	minPeople := 1
	if in.MinPeople != nil {
		minPeople = *in.MinPeople
	}
	if minPeople < 1 {
		return model.PackagePrice{}, validationError("min_people must be at least 1")
	}
	if in.MaxPeople != nil && *in.MaxPeople < minPeople {
		return model.PackagePrice{}, validationError("max_people must not be lower than min_people")
	}

	anyPositive := false
	for _, d := range []*decimal.Decimal{in.Price, in.PriceIndividual, in.PriceGroup} {
		if d == nil {
			continue
		}
		if d.IsNegative() {
			return model.PackagePrice{}, validationError("prices must not be negative")
		}
		if d.IsPositive() {
			anyPositive = true
		}
	}
	if !anyPositive {
		return model.PackagePrice{}, validationError("one of price, price_individual or price_group is required")
	}

	currency, err := model.ParseCurrency(in.Currency)
	if err != nil {
		return model.PackagePrice{}, validationError("%v", err)
	}

	price := model.PackagePrice{
		CountryID:          in.CountryID,
		DepartureCountryID: in.DepartureCountryID,
		ArrivalCountryID:   in.ArrivalCountryID,
		DepartureCityID:    in.DepartureCityID,
		ArrivalCityID:      in.ArrivalCityID,
		MinPeople:          minPeople,
		MaxPeople:          in.MaxPeople,
		Price:              decimal.Zero,
		PriceIndividual:    in.PriceIndividual,
		PriceGroup:         in.PriceGroup,
		Currency:           currency,
		Programme:          in.Programme,
		Image:              in.Image,
	}
	if in.Price != nil {
		price.Price = *in.Price
	}
	return price, nil
}

func checkPeople(lo, hi *int) error {
	if lo != nil && *lo < 1 {
		return validationError("min_people must be at least 1")
	}
	if hi != nil && *hi < 1 {
		return validationError("max_people must be at least 1")
	}
	if lo != nil && hi != nil && *hi < *lo {
		return validationError("max_people must not be lower than min_people")
	}
	return nil
}
