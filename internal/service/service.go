package service

import (
	"time"

	"github.com/alexivanou/geotemp-api/internal/repository"
	"go.uber.org/zap"
)

// MetricsRecorder receives the outcome of every entity operation
type MetricsRecorder interface {
	RecordOperation(kind, op, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string, string, time.Duration) {}

// Service provides the entity-integrity logic of the API: validation, uniqueness
// and referential checks, identifier renames and the cross-entity queries.
type Service struct {
	countries    repository.CountryRepository
	cities       repository.CityRepository
	temperatures repository.TemperatureRepository

	locks   kindLocks
	now     func() time.Time
	logger  *zap.Logger
	metrics MetricsRecorder
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used to stamp temperature readings
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger used for mutation and rollback messages
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the recorder notified after every operation
func WithMetrics(recorder MetricsRecorder) Option {
	return func(s *Service) { s.metrics = recorder }
}

// NewService creates a new service instance
func NewService(repos *repository.Container, opts ...Option) *Service {
	s := &Service{
		countries:    repos.Country,
		cities:       repos.City,
		temperatures: repos.Temperature,
		now:          time.Now,
		logger:       zap.NewNop(),
		metrics:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe reports the outcome of an operation; call it deferred with a pointer to the named error.
func (s *Service) observe(kind, op string, start time.Time, err *error) {
	s.metrics.RecordOperation(kind, op, Outcome(*err), time.Since(start))
}
