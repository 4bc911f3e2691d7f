package api

import (
	"net/http"

	"github.com/alexivanou/geotemp-api/internal/metrics"
	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/service"
	"github.com/alexivanou/geotemp-api/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, m *metrics.Metrics, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(RequestID, AccessLog(logger))
	if m != nil {
		router.Use(m.Middleware)
		router.Handle("/metrics", m.Handler()).Methods("GET")
	}

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	api.HandleFunc("/countries", handler.CreateCountry).Methods("POST")
	api.HandleFunc("/countries", handler.ListCountries).Methods("GET")
	api.HandleFunc("/countries/{id}", handler.GetCountry).Methods("GET")
	api.HandleFunc("/countries/{id}", handler.UpdateCountry).Methods("PUT")
	api.HandleFunc("/countries/{id}", handler.DeleteCountry).Methods("DELETE")

	api.HandleFunc("/cities", handler.CreateCity).Methods("POST")
	api.HandleFunc("/cities", handler.ListCities).Methods("GET")
	api.HandleFunc("/cities/country/{id}", handler.CitiesByCountry).Methods("GET")
	api.HandleFunc("/cities/{id}", handler.GetCity).Methods("GET")
	api.HandleFunc("/cities/{id}", handler.UpdateCity).Methods("PUT")
	api.HandleFunc("/cities/{id}", handler.DeleteCity).Methods("DELETE")

	api.HandleFunc("/temperatures", handler.CreateTemperature).Methods("POST")
	api.HandleFunc("/temperatures", handler.SearchTemperatures).Methods("GET")
	api.HandleFunc("/temperatures/cities/{id}", handler.TemperaturesByCity).Methods("GET")
	api.HandleFunc("/temperatures/countries/{id}", handler.TemperaturesByCountry).Methods("GET")
	api.HandleFunc("/temperatures/{id}", handler.GetTemperature).Methods("GET")
	api.HandleFunc("/temperatures/{id}", handler.UpdateTemperature).Methods("PUT")
	api.HandleFunc("/temperatures/{id}", handler.DeleteTemperature).Methods("DELETE")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.writeJSON(w, r, http.StatusNotFound, model.StatusResponse{Status: statusNotFound})
	})

	return router
}
