package seeder

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestParser_ParseCountries(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "countries.tsv", `# code	name
CG	Congo
ga	Gabon

CM
CG	Republic of the Congo
	Nowhere
CD	 Democratic Republic of the Congo 
`)

	parser := NewParser(tmpDir, config.SeederConfig{BatchSize: 100})
	countries, err := parser.ParseCountries()
	require.NoError(t, err)

	assert.Equal(t, []model.Country{
		{Code: "CG", Name: "Congo"},
		{Code: "GA", Name: "Gabon"},
		{Code: "CD", Name: "Democratic Republic of the Congo"},
	}, countries)
}

func TestParser_ParseCities(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "cities.tsv", "CG\tBrazzaville\ncg\tPointe-Noire\nCG\tBrazzaville\nGA\tLibreville\nbroken line\n")

	parser := NewParser(tmpDir, config.SeederConfig{})
	cities, err := parser.ParseCities()
	require.NoError(t, err)

	assert.Equal(t, []CityRecord{
		{CountryCode: "CG", Name: "Brazzaville"},
		{CountryCode: "CG", Name: "Pointe-Noire"},
		{CountryCode: "GA", Name: "Libreville"},
	}, cities)
	assert.Equal(t, 500, parser.BatchSize())
}

func TestParser_ParseCitiesFromZip(t *testing.T) {
	tmpDir := t.TempDir()
	f, err := os.Create(filepath.Join(tmpDir, "cities.zip"))
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("cities.tsv")
	require.NoError(t, err)
	_, err = w.Write([]byte("CG\tDolisie\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cities, err := NewParser(tmpDir, config.SeederConfig{}).ParseCities()
	require.NoError(t, err)
	assert.Equal(t, []CityRecord{{CountryCode: "CG", Name: "Dolisie"}}, cities)
}

func TestParser_MissingFiles(t *testing.T) {
	parser := NewParser(t.TempDir(), config.SeederConfig{})

	_, err := parser.ParseCountries()
	assert.Error(t, err)
	_, err = parser.ParseCities()
	assert.Error(t, err)
}

func TestCreateCountryIDMap(t *testing.T) {
	ids := CreateCountryIDMap([]model.Country{{ID: 1, Code: "CG"}, {ID: 2, Code: "GA"}})

	assert.Equal(t, int64(1), ids["CG"])
	assert.Equal(t, int64(2), ids["GA"])
	_, ok := ids["FR"]
	assert.False(t, ok)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2}}, chunk([]int{1, 2}, 2))
	assert.Empty(t, chunk([]int{}, 2))
}
