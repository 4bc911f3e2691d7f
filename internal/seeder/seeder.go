package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/service"
	"go.uber.org/zap"
)

// EntityCreator is the part of the service the seeder writes through
type EntityCreator interface {
	CreateCountry(ctx context.Context, p model.Payload) (int, error)
	CreateCity(ctx context.Context, p model.Payload) (int, error)
}

// Result summarizes one import
type Result struct {
	Countries        int
	Cities           int
	SkippedCountries int
	SkippedCities    int
}

// Seeder imports parsed GeoNames records through the entity service, so every
// uniqueness and reference check applies to imported data as well.
type Seeder struct {
	svc    EntityCreator
	logger *zap.Logger
}

// New creates a seeder
func New(svc EntityCreator, logger *zap.Logger) *Seeder {
	return &Seeder{svc: svc, logger: logger}
}

// Seed creates every country that has at least one city, then its cities.
// A country is placed at its capital, or at its most populous city when the
// capital is not among the parsed cities. Records rejected as conflicts are
// skipped and counted; any other failure aborts the import.
func (s *Seeder) Seed(ctx context.Context, countries []CountryRecord, cities []CityRecord) (Result, error) {
	var res Result

	byCountry := make(map[string][]CityRecord)
	for _, c := range cities {
		byCountry[c.CountryCode] = append(byCountry[c.CountryCode], c)
	}

	countryIDs := make(map[string]int, len(countries))
	for _, country := range countries {
		anchor, ok := locate(country, byCountry[country.Code])
		if !ok {
			res.SkippedCountries++
			s.logger.Debug("Skipping country without cities", zap.String("code", country.Code))
			continue
		}

		id, err := s.svc.CreateCountry(ctx, model.Payload{
			"nume": country.Name,
			"lat":  anchor.Lat,
			"lon":  anchor.Lon,
		})
		if errors.Is(err, service.ErrConflict) {
			res.SkippedCountries++
			s.logger.Debug("Skipping duplicate country", zap.String("name", country.Name))
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to create country %s: %w", country.Code, err)
		}
		countryIDs[country.Code] = id
		res.Countries++
	}

	for _, city := range cities {
		countryID, ok := countryIDs[city.CountryCode]
		if !ok {
			res.SkippedCities++
			continue
		}

		_, err := s.svc.CreateCity(ctx, model.Payload{
			"idTara": countryID,
			"nume":   city.Name,
			"lat":    city.Lat,
			"lon":    city.Lon,
		})
		if errors.Is(err, service.ErrConflict) {
			res.SkippedCities++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to create city %d: %w", city.GeonameID, err)
		}
		res.Cities++
	}

	s.logger.Info("Seeding finished",
		zap.Int("countries", res.Countries),
		zap.Int("cities", res.Cities),
		zap.Int("skipped_countries", res.SkippedCountries),
		zap.Int("skipped_cities", res.SkippedCities),
	)
	return res, nil
}

// locate picks the city whose coordinates stand for the country
func locate(country CountryRecord, cities []CityRecord) (CityRecord, bool) {
	var (
		capital, largest CityRecord
		hasCapital       bool
	)
	for i, c := range cities {
		if i == 0 || c.Population > largest.Population {
			largest = c
		}
		if country.Capital != "" && c.Name == country.Capital &&
			(!hasCapital || c.Population > capital.Population) {
			capital, hasCapital = c, true
		}
	}
	if hasCapital {
		return capital, true
	}
	return largest, len(cities) > 0
}
