package service

import (
	"context"
	"time"

	"github.com/alexivanou/geotemp-api/internal/model"
	"go.uber.org/zap"
)

const kindTemperature = "temperature"

type temperatureFields struct {
	cityID int
	value  float64
}

func parseTemperature(p model.Payload) (temperatureFields, error) {
	var (
		f   temperatureFields
		err error
	)
	if f.cityID, err = p.ID("idOras"); err != nil {
		return f, payloadError(err)
	}
	if f.value, err = p.Float("valoare"); err != nil {
		return f, payloadError(err)
	}
	return f, nil
}

// stamp returns the current time at the precision readings are stored with
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// CreateTemperature records a reading for an existing city, stamped with the
// current time, and returns its identifier. A second reading for the same city
// within the same second is a conflict.
func (s *Service) CreateTemperature(ctx context.Context, p model.Payload) (id int, err error) {
	defer s.observe(kindTemperature, "create", time.Now(), &err)

	f, err := parseTemperature(p)
	if err != nil {
		return 0, err
	}

	defer s.locks.lockTemperature()()

	if err := requireParent(ctx, s.cities, f.cityID); err != nil {
		return 0, err
	}

	ts := s.stamp()
	key := model.TemperatureKey{CityID: f.cityID, Timestamp: ts}
	id, err = create(ctx, s, s.temperatures, key, func(id int) model.Temperature {
		return model.Temperature{ID: id, CityID: f.cityID, Value: f.value, Timestamp: ts}
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("Temperature created", zap.Int("id", id), zap.Int("city_id", f.cityID))
	return id, nil
}

// GetTemperature returns a single reading
func (s *Service) GetTemperature(ctx context.Context, id int) (t *model.Temperature, err error) {
	defer s.observe(kindTemperature, "get", time.Now(), &err)
	return get(ctx, s.temperatures, id)
}

// ListTemperatures returns every live reading
func (s *Service) ListTemperatures(ctx context.Context) (list []model.Temperature, err error) {
	defer s.observe(kindTemperature, "list", time.Now(), &err)
	return s.temperatures.List(ctx)
}

// UpdateTemperature replaces the reading filed under id. The update counts as a
// new measurement: the reading is re-stamped with the current time.
func (s *Service) UpdateTemperature(ctx context.Context, id int, p model.Payload) (err error) {
	defer s.observe(kindTemperature, "update", time.Now(), &err)
	defer s.locks.lockTemperature()()

	current, err := get(ctx, s.temperatures, id)
	if err != nil {
		return err
	}

	newID, err := p.ID("id")
	if err != nil {
		return payloadError(err)
	}
	f, err := parseTemperature(p)
	if err != nil {
		return err
	}

	c := change[model.Temperature]{
		id:      id,
		current: *current,
		oldKey:  current.Key(),
		newID:   newID,
		updated: model.Temperature{ID: newID, CityID: f.cityID, Value: f.value, Timestamp: s.stamp()},
	}
	c.newKey = c.updated.Key()

	if err := checkRenameTarget(ctx, s.temperatures, id, newID); err != nil {
		return err
	}
	if err := requireParent(ctx, s.cities, f.cityID); err != nil {
		return err
	}
	if err := checkRekey(ctx, s.temperatures, c); err != nil {
		return err
	}
	if err := update(ctx, s, s.temperatures, c); err != nil {
		return err
	}

	s.logger.Debug("Temperature updated", zap.Int("id", id), zap.Int("new_id", newID))
	return nil
}

// DeleteTemperature removes a reading
func (s *Service) DeleteTemperature(ctx context.Context, id int) (err error) {
	defer s.observe(kindTemperature, "delete", time.Now(), &err)
	defer s.locks.lockTemperature()()

	current, err := get(ctx, s.temperatures, id)
	if err != nil {
		return err
	}
	if err := remove(ctx, s, s.temperatures, id, *current, current.Key()); err != nil {
		return err
	}

	s.logger.Debug("Temperature deleted", zap.Int("id", id))
	return nil
}
