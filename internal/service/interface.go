package service

import (
	"context"

	"github.com/alexivanou/geotemp-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	CreateCountry(ctx context.Context, p model.Payload) (int, error)
	GetCountry(ctx context.Context, id int) (*model.Country, error)
	ListCountries(ctx context.Context) ([]model.Country, error)
	UpdateCountry(ctx context.Context, id int, p model.Payload) error
	DeleteCountry(ctx context.Context, id int) error

	CreateCity(ctx context.Context, p model.Payload) (int, error)
	GetCity(ctx context.Context, id int) (*model.City, error)
	ListCities(ctx context.Context) ([]model.City, error)
	UpdateCity(ctx context.Context, id int, p model.Payload) error
	DeleteCity(ctx context.Context, id int) error
	CitiesByCountry(ctx context.Context, countryID int) ([]model.City, error)

	CreateTemperature(ctx context.Context, p model.Payload) (int, error)
	GetTemperature(ctx context.Context, id int) (*model.Temperature, error)
	ListTemperatures(ctx context.Context) ([]model.Temperature, error)
	UpdateTemperature(ctx context.Context, id int, p model.Payload) error
	DeleteTemperature(ctx context.Context, id int) error
	SearchTemperatures(ctx context.Context, f TemperatureFilter) ([]model.Temperature, error)
	TemperaturesByCity(ctx context.Context, cityID int, r DateRange) ([]model.Temperature, error)
	TemperaturesByCountry(ctx context.Context, countryID int, r DateRange) ([]model.Temperature, error)
}

var _ ServiceInterface = (*Service)(nil)
