package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCountry(t *testing.T) {
	ctx := context.Background()

	t.Run("Code is normalised", func(t *testing.T) {
		st := newMockStore()
		svc := newTestService(st, nil)
		st.countries.On("Create", ctx, &model.Country{Code: "CG", Name: "Congo"}).Return(nil)

		c, err := svc.CreateCountry(ctx, model.CountryInput{Code: " cg ", Name: "Congo "})
		require.NoError(t, err)
		assert.Equal(t, "CG", c.Code)
		st.countries.AssertExpectations(t)
	})

	t.Run("Duplicate code is a conflict", func(t *testing.T) {
		st := newMockStore()
		svc := newTestService(st, nil)
		st.countries.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

		_, err := svc.CreateCountry(ctx, model.CountryInput{Code: "CG", Name: "Congo"})
		assert.Equal(t, KindConflict, ErrorKind(err))
	})

	t.Run("Validation", func(t *testing.T) {
		svc := newTestService(newMockStore(), nil)

		for _, in := range []model.CountryInput{
			{Code: "", Name: "Congo"},
			{Code: "CONGOBRAZZA", Name: "Congo"},
			{Code: "CG", Name: " "},
		} {
			_, err := svc.CreateCountry(ctx, in)
			assert.Equal(t, KindValidation, ErrorKind(err), "%+v", in)
		}
	})
}

func TestCountryNotFound(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newTestService(st, nil)

	st.countries.On("GetByID", ctx, int64(4)).Return(nil, nil)
	st.countries.On("Update", ctx, mock.Anything).Return(false, nil)
	st.countries.On("Delete", ctx, int64(4)).Return(false, nil)

	_, err := svc.GetCountry(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdateCountry(ctx, 4, model.CountryInput{Code: "CG", Name: "Congo"})
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.DeleteCountry(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCountry_InUse(t *testing.T) {
	ctx := context.Background()
	st := newMockStore()
	svc := newTestService(st, nil)
	st.countries.On("Delete", ctx, int64(1)).Return(false, repository.ErrConflict)

	err := svc.DeleteCountry(ctx, 1)
	assert.Equal(t, KindConflict, ErrorKind(err))
}

func TestCities(t *testing.T) {
	ctx := context.Background()

	t.Run("List passes the filter through", func(t *testing.T) {
		st := newMockStore()
		svc := newTestService(st, nil)
		countryID := int64(1)
		filter := model.CityFilter{CountryID: &countryID, Query: "brazza"}
		st.cities.On("List", ctx, filter).Return([]model.City{{ID: 1, CountryID: 1, Name: "Brazzaville"}}, nil)

		cities, err := svc.ListCities(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, cities, 1)
	})

	t.Run("Unknown country is a validation error", func(t *testing.T) {
		st := newMockStore()
		svc := newTestService(st, nil)
		st.cities.On("Create", ctx, mock.Anything).Return(repository.ErrInvalidReference)

		_, err := svc.CreateCity(ctx, model.CityInput{CountryID: 99, Name: "Nowhere"})
		assert.Equal(t, KindValidation, ErrorKind(err))
	})

	t.Run("Missing country id", func(t *testing.T) {
		svc := newTestService(newMockStore(), nil)
		_, err := svc.CreateCity(ctx, model.CityInput{Name: "Dolisie"})
		assert.Equal(t, KindValidation, ErrorKind(err))
	})

	t.Run("Update and delete", func(t *testing.T) {
		st := newMockStore()
		svc := newTestService(st, nil)
		st.cities.On("Update", ctx, &model.City{ID: 2, CountryID: 1, Name: "Pointe-Noire"}).Return(true, nil)
		st.cities.On("Delete", ctx, int64(2)).Return(false, errors.New("db gone"))

		c, err := svc.UpdateCity(ctx, 2, model.CityInput{CountryID: 1, Name: "Pointe-Noire"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), c.ID)

		err = svc.DeleteCity(ctx, 2)
		assert.Equal(t, KindInternal, ErrorKind(err))
	})
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{validationError("bad"), KindValidation},
		{notFound("package", 1), KindNotFound},
		{repository.ErrConflict, KindConflict},
		{repository.ErrInvalidReference, KindValidation},
		{ErrGridMismatch, KindGridMismatch},
		{ErrUnresolvablePrice, KindUnresolvablePrice},
		{ErrInvalidStatus, KindInvalidStatus},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, ErrorKind(tt.err), tt.err.Error())
	}
}
