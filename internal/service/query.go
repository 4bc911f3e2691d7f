package service

import (
	"context"
	"time"

	"github.com/alexivanou/geotemp-api/internal/model"
	"golang.org/x/sync/errgroup"
)

// DateRange bounds readings by calendar day. Both ends are inclusive and
// compared as UTC dates; a nil end is unbounded.
type DateRange struct {
	From  *time.Time
	Until *time.Time
}

// Contains reports whether ts falls on a day inside the range
func (r DateRange) Contains(ts time.Time) bool {
	day := truncateDay(ts)
	if r.From != nil && day.Before(truncateDay(*r.From)) {
		return false
	}
	if r.Until != nil && day.After(truncateDay(*r.Until)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TemperatureFilter selects readings by the coordinates of their city and by day.
type TemperatureFilter struct {
	Lat *float64
	Lon *float64
	DateRange
}

func (f TemperatureFilter) hasCoordinates() bool {
	return f.Lat != nil || f.Lon != nil
}

// matchesCity compares coordinates exactly, as they were stored
func (f TemperatureFilter) matchesCity(c model.City) bool {
	if f.Lat != nil && c.Lat != *f.Lat {
		return false
	}
	if f.Lon != nil && c.Lon != *f.Lon {
		return false
	}
	return true
}

// snapshot loads every reading together with the cities they may refer to
func (s *Service) snapshot(ctx context.Context) ([]model.Temperature, map[int]model.City, error) {
	var (
		temps  []model.Temperature
		cities []model.City
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		temps, err = s.temperatures.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		cities, err = s.cities.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	byID := make(map[int]model.City, len(cities))
	for _, c := range cities {
		byID[c.ID] = c
	}
	return temps, byID, nil
}

// SearchTemperatures returns the readings matching every supplied filter. A
// reading whose city no longer exists matches only when no coordinate is given.
func (s *Service) SearchTemperatures(ctx context.Context, f TemperatureFilter) (out []model.Temperature, err error) {
	defer s.observe(kindTemperature, "search", time.Now(), &err)

	temps, cities, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out = make([]model.Temperature, 0)
	for _, t := range temps {
		if !f.Contains(t.Timestamp) {
			continue
		}
		if f.hasCoordinates() {
			city, ok := cities[t.CityID]
			if !ok || !f.matchesCity(city) {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

// CitiesByCountry returns the cities referring to countryID. An unknown
// country yields an empty list.
func (s *Service) CitiesByCountry(ctx context.Context, countryID int) (out []model.City, err error) {
	defer s.observe(kindCity, "by_country", time.Now(), &err)

	cities, err := s.cities.List(ctx)
	if err != nil {
		return nil, err
	}

	out = make([]model.City, 0)
	for _, c := range cities {
		if c.CountryID == countryID {
			out = append(out, c)
		}
	}
	return out, nil
}

// TemperaturesByCity returns the readings of a live city within r
func (s *Service) TemperaturesByCity(ctx context.Context, cityID int, r DateRange) (out []model.Temperature, err error) {
	defer s.observe(kindTemperature, "by_city", time.Now(), &err)

	temps, cities, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out = make([]model.Temperature, 0)
	if _, ok := cities[cityID]; !ok {
		return out, nil
	}
	for _, t := range temps {
		if t.CityID == cityID && r.Contains(t.Timestamp) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TemperaturesByCountry returns the readings within r taken in any live city of countryID
func (s *Service) TemperaturesByCountry(ctx context.Context, countryID int, r DateRange) (out []model.Temperature, err error) {
	defer s.observe(kindTemperature, "by_country", time.Now(), &err)

	temps, cities, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out = make([]model.Temperature, 0)
	for _, t := range temps {
		city, ok := cities[t.CityID]
		if !ok || city.CountryID != countryID {
			continue
		}
		if r.Contains(t.Timestamp) {
			out = append(out, t)
		}
	}
	return out, nil
}
