package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePackageKind(t *testing.T) {
	tests := []struct {
		input   string
		want    PackageKind
		wantErr bool
	}{
		{"city_tour", KindCityTour, false},
		{"city-tours", KindCityTour, false},
		{"destination", KindDestination, false},
		{"Destinations", KindDestination, false},
		{" ouikenac ", KindOuikenac, false},
		{"cruise", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePackageKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackageKind_Slug(t *testing.T) {
	assert.Equal(t, "city-tours", KindCityTour.Slug())
	assert.Equal(t, "destinations", KindDestination.Slug())
	assert.Equal(t, "ouikenac", KindOuikenac.Slug())
	assert.False(t, PackageKind("cruise").Valid())
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("")
	require.NoError(t, err)
	assert.Equal(t, CurrencyCFA, c)

	c, err = ParseCurrency("usd")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	_, err = ParseCurrency("GBP")
	assert.Error(t, err)
}

func TestParseReservationStatus(t *testing.T) {
	for _, s := range ReservationStatuses {
		got, err := ParseReservationStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseReservationStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got)

	_, err = ParseReservationStatus("archived")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	t.Run("JSON round trip", func(t *testing.T) {
		var payload struct {
			From *Date `json:"from"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"from":"2025-12-20"}`), &payload))
		require.NotNil(t, payload.From)
		assert.Equal(t, NewDate(2025, time.December, 20), *payload.From)

		out, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{"from":"2025-12-20"}`, string(out))
	})

	t.Run("RFC3339 input is truncated", func(t *testing.T) {
		d, err := ParseDate("2025-12-20T15:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, "2025-12-20", d.String())
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := ParseDate("20/12/2025")
		assert.Error(t, err)
	})

	t.Run("Scan", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(time.Date(2025, 1, 2, 13, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2025-01-02", d.String())

		require.NoError(t, d.Scan("2025-03-04 00:00:00+00:00"))
		assert.Equal(t, "2025-03-04", d.String())

		require.NoError(t, d.Scan([]byte("2025-05-06")))
		assert.Equal(t, "2025-05-06", d.String())

		assert.Error(t, d.Scan(42))
	})
}
