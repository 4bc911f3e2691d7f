package repository

import (
	"context"

	"github.com/alexivanou/geotemp-api/internal/kv"
	"github.com/alexivanou/geotemp-api/internal/model"
)

// Repository defines storage operations for one entity kind
type Repository[T any] interface {
	Kind() Kind
	Index() *UniqueIndex
	Allocate(ctx context.Context) (int, error)
	Exists(ctx context.Context, id int) (bool, error)
	Get(ctx context.Context, id int) (*T, error)
	List(ctx context.Context) ([]T, error)
	Put(ctx context.Context, v T) error
	Remove(ctx context.Context, id int) error
	Count(ctx context.Context) (int64, error)
}

// CountryRepository defines operations for countries
type CountryRepository = Repository[model.Country]

// CityRepository defines operations for cities
type CityRepository = Repository[model.City]

// TemperatureRepository defines operations for temperature readings
type TemperatureRepository = Repository[model.Temperature]

// Container holds all repositories
type Container struct {
	Country     CountryRepository
	City        CityRepository
	Temperature TemperatureRepository
}

// NewRepositories creates the repositories of every kind over one store
func NewRepositories(store kv.Store) *Container {
	return &Container{
		Country:     newRecords(store, CountryKind, countryCodec),
		City:        newRecords(store, CityKind, cityCodec),
		Temperature: newRecords(store, TemperatureKind, temperatureCodec),
	}
}

// IsStoreEmpty reports whether no country has been stored yet (used by main)
func IsStoreEmpty(ctx context.Context, c *Container) (bool, error) {
	n, err := c.Country.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
