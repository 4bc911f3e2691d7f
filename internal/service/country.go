package service

import (
	"context"
	"time"

	"github.com/alexivanou/geotemp-api/internal/model"
	"go.uber.org/zap"
)

const kindCountry = "country"

type countryFields struct {
	name     string
	lat, lon float64
}

func parseCountry(p model.Payload) (countryFields, error) {
	var (
		f   countryFields
		err error
	)
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

// CreateCountry stores a new country and returns its identifier
func (s *Service) CreateCountry(ctx context.Context, p model.Payload) (id int, err error) {
	defer s.observe(kindCountry, "create", time.Now(), &err)

	f, err := parseCountry(p)
	if err != nil {
		return 0, err
	}

	defer s.locks.lockCountry()()

	id, err = create(ctx, s, s.countries, model.CountryKey{Name: f.name}, func(id int) model.Country {
		return model.Country{ID: id, Name: f.name, Lat: f.lat, Lon: f.lon}
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("Country created", zap.Int("id", id), zap.String("name", f.name))
	return id, nil
}

// GetCountry returns a single country
func (s *Service) GetCountry(ctx context.Context, id int) (c *model.Country, err error) {
	defer s.observe(kindCountry, "get", time.Now(), &err)
	return get(ctx, s.countries, id)
}

// ListCountries returns every live country
func (s *Service) ListCountries(ctx context.Context) (list []model.Country, err error) {
	defer s.observe(kindCountry, "list", time.Now(), &err)
	return s.countries.List(ctx)
}

// UpdateCountry replaces the country filed under id. The payload's id may name
// a new, unused identifier, in which case the record is moved there.
func (s *Service) UpdateCountry(ctx context.Context, id int, p model.Payload) (err error) {
	defer s.observe(kindCountry, "update", time.Now(), &err)
	defer s.locks.lockCountry()()

	current, err := get(ctx, s.countries, id)
	if err != nil {
		return err
	}

	newID, err := p.ID("id")
	if err != nil {
		return payloadError(err)
	}
	f, err := parseCountry(p)
	if err != nil {
		return err
	}

	c := change[model.Country]{
		id:      id,
		current: *current,
		oldKey:  current.Key(),
		newID:   newID,
		updated: model.Country{ID: newID, Name: f.name, Lat: f.lat, Lon: f.lon},
	}
	c.newKey = c.updated.Key()

	if err := checkRenameTarget(ctx, s.countries, id, newID); err != nil {
		return err
	}
	if err := checkRekey(ctx, s.countries, c); err != nil {
		return err
	}
	if err := update(ctx, s, s.countries, c); err != nil {
		return err
	}

	s.logger.Debug("Country updated", zap.Int("id", id), zap.Int("new_id", newID))
	return nil
}

// DeleteCountry removes a country. Cities referring to it are left in place.
func (s *Service) DeleteCountry(ctx context.Context, id int) (err error) {
	defer s.observe(kindCountry, "delete", time.Now(), &err)
	defer s.locks.lockCountry()()

	current, err := get(ctx, s.countries, id)
	if err != nil {
		return err
	}
	if err := remove(ctx, s, s.countries, id, *current, current.Key()); err != nil {
		return err
	}

	s.logger.Debug("Country deleted", zap.Int("id", id))
	return nil
}
