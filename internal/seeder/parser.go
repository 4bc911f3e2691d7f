package seeder

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexivanou/geotemp-api/internal/config"
)

const countryInfoFile = "countryInfo.txt"

// CountryRecord is one row of countryInfo.txt
type CountryRecord struct {
	Code    string
	Name    string
	Capital string
}

// CityRecord is one row of a GeoNames cities dump
type CityRecord struct {
	GeonameID   int
	Name        string
	CountryCode string
	Population  int
	Lat         float64
	Lon         float64
}

// Parser parses GeoNames data files
type Parser struct {
	dataDir       string
	citiesFile    string
	minPopulation int
}

// NewParser creates a new parser instance with config
func NewParser(cfg config.SeederConfig) *Parser {
	return &Parser{
		dataDir:       cfg.DataDir,
		citiesFile:    cfg.CitiesFile,
		minPopulation: cfg.MinPopulation,
	}
}

// ParseCountries parses countryInfo.txt
func (p *Parser) ParseCountries() ([]CountryRecord, error) {
	file, err := os.Open(filepath.Join(p.dataDir, countryInfoFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", countryInfoFile, err)
	}
	defer file.Close()

	var countries []CountryRecord
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 6 {
			continue
		}

		code := parts[0]
		name := parts[4]
		if code == "" || name == "" {
			continue
		}

		countries = append(countries, CountryRecord{
			Code:    code,
			Name:    name,
			Capital: parts[5],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", countryInfoFile, err)
	}

	return countries, nil
}

// ParseCities parses the configured cities dump, preferring a zipped copy, and
// keeps the cities reaching the minimum population.
func (p *Parser) ParseCities() ([]CityRecord, error) {
	zipPath := filepath.Join(p.dataDir, strings.TrimSuffix(p.citiesFile, ".txt")+".zip")
	if _, err := os.Stat(zipPath); err == nil {
		return p.parseCitiesFromZip(zipPath)
	}

	file, err := os.Open(filepath.Join(p.dataDir, p.citiesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p.citiesFile, err)
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
		if strings.HasSuffix(f.Name, ".txt") {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open file in zip: %w", err)
			}
			defer rc.Close()
			return p.parseCitiesFromReader(rc)
		}
	}

	return nil, fmt.Errorf("no txt file found in zip")
}

func (p *Parser) parseCitiesFromReader(reader io.Reader) ([]CityRecord, error) {
	scanner := bufio.NewScanner(reader)
	var cities []CityRecord

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 15 {
			continue
		}

		id, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		population, err := strconv.Atoi(parts[14])
		if err != nil || population < p.minPopulation {
			continue
		}

		lat, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			continue
		}

		lon, err := strconv.ParseFloat(parts[5], 64)
		if err != nil {
			continue
		}

		if parts[1] == "" || parts[8] == "" {
			continue
		}

		cities = append(cities, CityRecord{
			GeonameID:   id,
			Name:        parts[1],
			CountryCode: parts[8],
			Population:  population,
			Lat:         lat,
			Lon:         lon,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cities: %w", err)
	}

	return cities, nil
}
