package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexivanou/geotemp-api/internal/kv"
	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/repository"
	"github.com/alexivanou/geotemp-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc   *Service
	repos *repository.Container
	store kv.Store
	clock *fakeClock
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store := kv.NewSQLStore(testutil.NewMemoryDB(t))
	return setupWithStore(t, store, opts...)
}

func setupWithStore(t *testing.T, store kv.Store, opts ...Option) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	repos := repository.NewRepositories(store)
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return &fixture{
		svc:   NewService(repos, opts...),
		repos: repos,
		store: store,
		clock: clock,
	}
}

func countryPayload(name string, lat, lon float64) model.Payload {
	return model.Payload{"nume": name, "lat": lat, "lon": lon}
}

func cityPayload(countryID int, name string, lat, lon float64) model.Payload {
	return model.Payload{"idTara": countryID, "nume": name, "lat": lat, "lon": lon}
}

func temperaturePayload(cityID int, value float64) model.Payload {
	return model.Payload{"idOras": cityID, "valoare": value}
}

func withID(p model.Payload, id int) model.Payload {
	out := model.Payload{"id": id}
	for k, v := range p {
		out[k] = v
	}
	return out
}

func mustCreateCountry(t *testing.T, f *fixture, name string) int {
	t.Helper()
	id, err := f.svc.CreateCountry(context.Background(), countryPayload(name, 45, 25))
	require.NoError(t, err)
	return id
}

func mustCreateCity(t *testing.T, f *fixture, countryID int, name string, lat, lon float64) int {
	t.Helper()
	id, err := f.svc.CreateCity(context.Background(), cityPayload(countryID, name, lat, lon))
	require.NoError(t, err)
	return id
}

func indexed(t *testing.T, index *repository.UniqueIndex, key model.UniqueKey) bool {
	t.Helper()
	ok, err := index.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func TestCountry_CreateAndRead(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.svc.CreateCountry(ctx, countryPayload("Romania", 45, 25))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = f.svc.CreateCountry(ctx, countryPayload("Romania", 1, 2))
	assert.ErrorIs(t, err, ErrConflict)

	id, err = f.svc.CreateCountry(ctx, countryPayload("Moldova", 47, 28.5))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	country, err := f.svc.GetCountry(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.Country{ID: 1, Name: "Romania", Lat: 45, Lon: 25}, *country)

	_, err = f.svc.GetCountry(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	countries, err := f.svc.ListCountries(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "Romania", countries[0].Name)
	assert.Equal(t, "Moldova", countries[1].Name)
}

func TestCreate_BadRequest(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	countryID := mustCreateCountry(t, f, "Romania")
	mustCreateCity(t, f, countryID, "Cluj", 46.77, 23.6)

	tests := []struct {
		name   string
		create func(context.Context, model.Payload) (int, error)
		p      model.Payload
	}{
		{"country missing name", f.svc.CreateCountry, model.Payload{"lat": 1.0, "lon": 2.0}},
		{"country empty name", f.svc.CreateCountry, countryPayload("", 1, 2)},
		{"country numeric name", f.svc.CreateCountry, model.Payload{"nume": 5, "lat": 1.0, "lon": 2.0}},
		{"country string lat", f.svc.CreateCountry, model.Payload{"nume": "X", "lat": "1", "lon": 2.0}},
		{"country missing lon", f.svc.CreateCountry, model.Payload{"nume": "X", "lat": 1.0}},
		{"city missing country", f.svc.CreateCity, model.Payload{"nume": "X", "lat": 1.0, "lon": 2.0}},
		{"city fractional country", f.svc.CreateCity, model.Payload{"idTara": 1.5, "nume": "X", "lat": 1.0, "lon": 2.0}},
		{"city zero country", f.svc.CreateCity, cityPayload(0, "X", 1, 2)},
		{"temperature string value", f.svc.CreateTemperature, model.Payload{"idOras": 1, "valoare": "hot"}},
		{"temperature missing city", f.svc.CreateTemperature, model.Payload{"valoare": 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.create(ctx, tt.p)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}

	// Nothing beyond the fixtures was written.
	countries, err := f.svc.ListCountries(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, 1)
	temps, err := f.svc.ListTemperatures(ctx)
	require.NoError(t, err)
	assert.Empty(t, temps)
}

func TestCity_Uniqueness(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	md := mustCreateCountry(t, f, "Moldova")

	mustCreateCity(t, f, ro, "Cluj", 46.77, 23.6)

	_, err := f.svc.CreateCity(ctx, cityPayload(ro, "Cluj", 0, 0))
	assert.ErrorIs(t, err, ErrConflict)

	// Names are scoped to their country.
	id, err := f.svc.CreateCity(ctx, cityPayload(md, "Cluj", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	cities, err := f.svc.ListCities(ctx)
	require.NoError(t, err)
	assert.Len(t, cities, 2)
}

func TestCity_UnknownCountry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateCity(ctx, cityPayload(999, "Cluj", 46.77, 23.6))
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := f.repos.City.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, indexed(t, f.repos.City.Index(), model.CityKey{CountryID: 999, Name: "Cluj"}))

	// The failed create did not consume an identifier.
	ro := mustCreateCountry(t, f, "Romania")
	assert.Equal(t, 1, mustCreateCity(t, f, ro, "Cluj", 46.77, 23.6))
}

func TestUpdateCity_UnknownCountryLeavesCityUntouched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	id := mustCreateCity(t, f, ro, "Cluj", 46.77, 23.6)

	err := f.svc.UpdateCity(ctx, id, withID(cityPayload(999, "Cluj", 46.77, 23.6), id))
	assert.ErrorIs(t, err, ErrNotFound)

	city, err := f.svc.GetCity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ro, city.CountryID)
	assert.True(t, indexed(t, f.repos.City.Index(), model.CityKey{CountryID: ro, Name: "Cluj"}))
	assert.False(t, indexed(t, f.repos.City.Index(), model.CityKey{CountryID: 999, Name: "Cluj"}))
}

func TestUpdate_Rename(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := mustCreateCountry(t, f, "Romania")

	require.NoError(t, f.svc.UpdateCountry(ctx, id, withID(countryPayload("Romania", 45, 25), 5)))

	_, err := f.svc.GetCountry(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	country, err := f.svc.GetCountry(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.Country{ID: 5, Name: "Romania", Lat: 45, Lon: 25}, *country)

	exists, err := f.store.HExists(ctx, repository.CountryKind.RecordKey(id))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.True(t, indexed(t, f.repos.Country.Index(), model.CountryKey{Name: "Romania"}))

	// The allocator steps over the slot taken by the rename.
	var ids []int
	for _, name := range []string{"A", "B", "C", "D"} {
		ids = append(ids, mustCreateCountry(t, f, name))
	}
	assert.Equal(t, []int{2, 3, 4, 6}, ids)
}

func TestUpdate_RenameConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	md := mustCreateCountry(t, f, "Moldova")

	err := f.svc.UpdateCountry(ctx, ro, withID(countryPayload("Bulgaria", 1, 1), md))
	assert.ErrorIs(t, err, ErrConflict)

	country, err := f.svc.GetCountry(ctx, ro)
	require.NoError(t, err)
	assert.Equal(t, "Romania", country.Name)
	country, err = f.svc.GetCountry(ctx, md)
	require.NoError(t, err)
	assert.Equal(t, "Moldova", country.Name)
	assert.False(t, indexed(t, f.repos.Country.Index(), model.CountryKey{Name: "Bulgaria"}))
}

func TestUpdate_KeyChange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	mustCreateCountry(t, f, "Moldova")

	err := f.svc.UpdateCountry(ctx, ro, withID(countryPayload("Moldova", 45, 25), ro))
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, f.svc.UpdateCountry(ctx, ro, withID(countryPayload("Romania Mare", 45.5, 25.5), ro)))

	country, err := f.svc.GetCountry(ctx, ro)
	require.NoError(t, err)
	assert.Equal(t, model.Country{ID: ro, Name: "Romania Mare", Lat: 45.5, Lon: 25.5}, *country)

	// The old name is free again.
	assert.False(t, indexed(t, f.repos.Country.Index(), model.CountryKey{Name: "Romania"}))
	mustCreateCountry(t, f, "Romania")

	// Updating a record onto its own key is not a conflict.
	require.NoError(t, f.svc.UpdateCountry(ctx, ro, withID(countryPayload("Romania Mare", 1, 1), ro)))
}

func TestUpdateCity_MoveToAnotherCountry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	md := mustCreateCountry(t, f, "Moldova")
	id := mustCreateCity(t, f, ro, "Ungheni", 47.2, 27.8)

	require.NoError(t, f.svc.UpdateCity(ctx, id, withID(cityPayload(md, "Ungheni", 47.2, 27.8), 10)))

	city, err := f.svc.GetCity(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, md, city.CountryID)
	assert.False(t, indexed(t, f.repos.City.Index(), model.CityKey{CountryID: ro, Name: "Ungheni"}))
	assert.True(t, indexed(t, f.repos.City.Index(), model.CityKey{CountryID: md, Name: "Ungheni"}))
}

func TestUpdate_CheckOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	cluj := mustCreateCity(t, f, ro, "Cluj", 46.77, 23.6)
	iasi := mustCreateCity(t, f, ro, "Iasi", 47.16, 27.58)

	tests := []struct {
		name string
		id   int
		p    model.Payload
		want error
	}{
		{"unknown id before payload", 99, model.Payload{}, ErrNotFound},
		{"payload before rename", cluj, model.Payload{"id": iasi}, ErrBadRequest},
		{"missing id", cluj, cityPayload(ro, "Cluj", 1, 1), ErrBadRequest},
		{"rename before parent", cluj, withID(cityPayload(999, "Cluj", 1, 1), iasi), ErrConflict},
		{"unknown parent", cluj, withID(cityPayload(999, "Iasi", 1, 1), cluj), ErrNotFound},
		{"key taken", cluj, withID(cityPayload(ro, "Iasi", 1, 1), cluj), ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.UpdateCity(ctx, tt.id, tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	city, err := f.svc.GetCity(ctx, cluj)
	require.NoError(t, err)
	assert.Equal(t, model.City{ID: cluj, CountryID: ro, Name: "Cluj", Lat: 46.77, Lon: 23.6}, *city)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	cluj := mustCreateCity(t, f, ro, "Cluj", 46.77, 23.6)

	require.NoError(t, f.svc.DeleteCountry(ctx, ro))

	_, err := f.svc.GetCountry(ctx, ro)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteCountry(ctx, ro), ErrNotFound)
	assert.ErrorIs(t, f.svc.UpdateCountry(ctx, ro, withID(countryPayload("Romania", 1, 1), ro)), ErrNotFound)

	// Deletes do not cascade.
	city, err := f.svc.GetCity(ctx, cluj)
	require.NoError(t, err)
	assert.Equal(t, ro, city.CountryID)

	// The name is free again and gets a fresh identifier.
	assert.Equal(t, 2, mustCreateCountry(t, f, "Romania"))
}

func TestTemperature_Lifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")
	cluj := mustCreateCity(t, f, ro, "Cluj", 46.77, 23.6)

	_, err := f.svc.CreateTemperature(ctx, temperaturePayload(999, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := f.svc.CreateTemperature(ctx, temperaturePayload(cluj, 21.5))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	temp, err := f.svc.GetTemperature(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 21.5, temp.Value)
	assert.True(t, temp.Timestamp.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	// One reading per city per second.
	f.clock.Advance(400 * time.Millisecond)
	_, err = f.svc.CreateTemperature(ctx, temperaturePayload(cluj, 22))
	assert.ErrorIs(t, err, ErrConflict)

	f.clock.Advance(time.Second)
	second, err := f.svc.CreateTemperature(ctx, temperaturePayload(cluj, 22))
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	// An update is a new measurement and moves the reading's key.
	f.clock.Advance(time.Hour)
	require.NoError(t, f.svc.UpdateTemperature(ctx, id, withID(temperaturePayload(cluj, 19), id)))

	temp, err = f.svc.GetTemperature(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 19.0, temp.Value)
	assert.True(t, temp.Timestamp.Equal(time.Date(2024, 3, 1, 13, 0, 1, 0, time.UTC)))
	assert.False(t, indexed(t, f.repos.Temperature.Index(),
		model.TemperatureKey{CityID: cluj, Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}))

	require.NoError(t, f.svc.DeleteTemperature(ctx, id))
	_, err = f.svc.GetTemperature(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	temps, err := f.svc.ListTemperatures(ctx)
	require.NoError(t, err)
	require.Len(t, temps, 1)
	assert.Equal(t, second, temps[0].ID)
}

func TestConcurrentCreatesOfSameKey(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateCountry(ctx, countryPayload("Romania", 45, 25))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)

	countries, err := f.svc.ListCountries(ctx)
	require.NoError(t, err)
	assert.Len(t, countries, 1)
}

func TestConcurrentChildCreateAndParentDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ro := mustCreateCountry(t, f, "Romania")

	var (
		wg      sync.WaitGroup
		cityErr error
		cityID  int
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cityID, cityErr = f.svc.CreateCity(ctx, cityPayload(ro, "Cluj", 46.77, 23.6))
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, f.svc.DeleteCountry(ctx, ro))
	}()
	wg.Wait()

	// Either the city was written while its country was live, or it was rejected.
	if cityErr != nil {
		assert.ErrorIs(t, cityErr, ErrNotFound)
		return
	}
	city, err := f.svc.GetCity(ctx, cityID)
	require.NoError(t, err)
	assert.Equal(t, ro, city.CountryID)
}
