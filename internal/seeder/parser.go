package seeder

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/model"
)

const (
	countriesFile = "countries.tsv"
	citiesFile    = "cities.tsv"
	citiesZip     = "cities.zip"
)

// CityRecord is one line of cities.tsv. The country is referenced by code
// because ids are only known after the countries are stored.
type CityRecord struct {
	CountryCode string
	Name        string
}

// Parser parses the catalog data files
type Parser struct {
	dataDir   string
	batchSize int
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	return &Parser{
		dataDir:   dataDir,
		batchSize: seederCfg.BatchSize,
	}
}

// BatchSize returns the number of rows inserted per statement
func (p *Parser) BatchSize() int {
	if p.batchSize <= 0 {
		return 500
	}
	return p.batchSize
}

// ParseCountries parses countries.tsv (code, name). Duplicate codes keep
// the first name.
func (p *Parser) ParseCountries() ([]model.Country, error) {
	file, err := os.Open(filepath.Join(p.dataDir, countriesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", countriesFile, err)
	}
	defer file.Close()

	var countries []model.Country
	seen := make(map[string]bool)
	err = scanTSV(file, 2, func(parts []string) {
		code := strings.ToUpper(parts[0])
		if len(code) > 10 || seen[code] {
			return
		}
		seen[code] = true
		countries = append(countries, model.Country{Code: code, Name: parts[1]})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", countriesFile, err)
	}
	return countries, nil
}

// ParseCities parses cities.tsv (country code, name), or the first .tsv
// file of cities.zip when present.
func (p *Parser) ParseCities() ([]CityRecord, error) {
	zipPath := filepath.Join(p.dataDir, citiesZip)
	if _, err := os.Stat(zipPath); err == nil {
		return p.parseCitiesFromZip(zipPath)
	}

	file, err := os.Open(filepath.Join(p.dataDir, citiesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", citiesFile, err)
	}
	defer file.Close()

	return p.parseCitiesFromReader(file)
}

func (p *Parser) parseCitiesFromZip(zipPath string) ([]CityRecord, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".tsv") {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open file in zip: %w", err)
			}
			defer rc.Close()
			return p.parseCitiesFromReader(rc)
		}
	}

	return nil, fmt.Errorf("no tsv file found in zip")
}

func (p *Parser) parseCitiesFromReader(reader io.Reader) ([]CityRecord, error) {
	var cities []CityRecord
	seen := make(map[CityRecord]bool)
	err := scanTSV(reader, 2, func(parts []string) {
		rec := CityRecord{CountryCode: strings.ToUpper(parts[0]), Name: parts[1]}
		if seen[rec] {
			return
		}
		seen[rec] = true
		cities = append(cities, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cities: %w", err)
	}
	return cities, nil
}

// scanTSV calls fn for every line with at least n non-empty, trimmed
// columns. Blank lines and lines starting with # are skipped.
func scanTSV(r io.Reader, n int, fn func(parts []string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < n {
			continue
		}
		valid := true
		for i := 0; i < n; i++ {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] == "" {
				valid = false
			}
		}
		if valid {
			fn(parts)
		}
	}
	return scanner.Err()
}

// CreateCountryIDMap maps country codes to their stored ids
func CreateCountryIDMap(countries []model.Country) map[string]int64 {
	m := make(map[string]int64, len(countries))
	for _, country := range countries {
		m[country.Code] = country.ID
	}
	return m
}
