package service

import (
	"context"
	"time"

	"github.com/alexivanou/geotemp-api/internal/model"
	"go.uber.org/zap"
)

const kindCity = "city"

type cityFields struct {
	countryID int
	name      string
	lat, lon  float64
}

func parseCity(p model.Payload) (cityFields, error) {
	var (
		f   cityFields
		err error
	)
	if f.countryID, err = p.ID("idTara"); err != nil {
		return f, payloadError(err)
	}
	if f.name, err = p.String("nume"); err != nil {
		return f, payloadError(err)
	}
	if f.lat, err = p.Float("lat"); err != nil {
		return f, payloadError(err)
	}
	if f.lon, err = p.Float("lon"); err != nil {
		return f, payloadError(err)
	}
	return f, nil
}

// CreateCity stores a new city in an existing country and returns its identifier
func (s *Service) CreateCity(ctx context.Context, p model.Payload) (id int, err error) {
	defer s.observe(kindCity, "create", time.Now(), &err)

	f, err := parseCity(p)
	if err != nil {
		return 0, err
	}

	defer s.locks.lockCity()()

	if err := requireParent(ctx, s.countries, f.countryID); err != nil {
		return 0, err
	}

	key := model.CityKey{CountryID: f.countryID, Name: f.name}
	id, err = create(ctx, s, s.cities, key, func(id int) model.City {
		return model.City{ID: id, CountryID: f.countryID, Name: f.name, Lat: f.lat, Lon: f.lon}
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("City created", zap.Int("id", id), zap.Int("country_id", f.countryID))
	return id, nil
}

// GetCity returns a single city
func (s *Service) GetCity(ctx context.Context, id int) (c *model.City, err error) {
	defer s.observe(kindCity, "get", time.Now(), &err)
	return get(ctx, s.cities, id)
}

// ListCities returns every live city
func (s *Service) ListCities(ctx context.Context) (list []model.City, err error) {
	defer s.observe(kindCity, "list", time.Now(), &err)
	return s.cities.List(ctx)
}

// UpdateCity replaces the city filed under id, possibly moving it to a new
// identifier and/or a different country.
func (s *Service) UpdateCity(ctx context.Context, id int, p model.Payload) (err error) {
	defer s.observe(kindCity, "update", time.Now(), &err)
	defer s.locks.lockCity()()

	current, err := get(ctx, s.cities, id)
	if err != nil {
		return err
	}

	newID, err := p.ID("id")
	if err != nil {
		return payloadError(err)
	}
	f, err := parseCity(p)
	if err != nil {
		return err
	}

	c := change[model.City]{
		id:      id,
		current: *current,
		oldKey:  current.Key(),
		newID:   newID,
		updated: model.City{ID: newID, CountryID: f.countryID, Name: f.name, Lat: f.lat, Lon: f.lon},
	}
	c.newKey = c.updated.Key()

	if err := checkRenameTarget(ctx, s.cities, id, newID); err != nil {
		return err
	}
	if err := requireParent(ctx, s.countries, f.countryID); err != nil {
		return err
	}
	if err := checkRekey(ctx, s.cities, c); err != nil {
		return err
	}
	if err := update(ctx, s, s.cities, c); err != nil {
		return err
	}

	s.logger.Debug("City updated", zap.Int("id", id), zap.Int("new_id", newID))
	return nil
}

// DeleteCity removes a city. Readings taken there are left in place.
func (s *Service) DeleteCity(ctx context.Context, id int) (err error) {
	defer s.observe(kindCity, "delete", time.Now(), &err)
	defer s.locks.lockCity()()

	current, err := get(ctx, s.cities, id)
	if err != nil {
		return err
	}
	if err := remove(ctx, s, s.cities, id, *current, current.Key()); err != nil {
		return err
	}

	s.logger.Debug("City deleted", zap.Int("id", id))
	return nil
}
