package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/database"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRepos(t *testing.T) *repository.Container {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: fmt.Sprintf("seeder_test_%d", rng.Int()),
	}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))
	return repository.NewRepositories(db, config.DBTypeMemory)
}

func TestSeed(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "countries.tsv", "CG\tCongo\nGA\tGabon\nCM\tCameroon\n")
	writeFile(t, tmpDir, "cities.tsv", "CG\tBrazzaville\nCG\tPointe-Noire\nGA\tLibreville\nZZ\tAtlantis\n")
	parser := NewParser(tmpDir, config.SeederConfig{BatchSize: 2})

	res, err := Seed(ctx, repos, parser, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Countries: 3, Cities: 3, SkippedCities: 1}, res)

	countries, err := repos.Country.List(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, 3)

	gabon, err := repos.Country.GetByCode(ctx, "GA")
	require.NoError(t, err)
	require.NotNil(t, gabon)
	cities, err := repos.City.List(ctx, model.CityFilter{CountryID: &gabon.ID})
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Libreville", cities[0].Name)

	// A second import collides on country codes and stores nothing more
	_, err = Seed(ctx, repos, parser, zap.NewNop())
	assert.ErrorIs(t, err, repository.ErrConflict)
	countries, err = repos.Country.List(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, 3)
}
