package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the size of a request payload
const maxBodyBytes = 1 << 20

const (
	statusOK            = "OK"
	statusBadRequest    = "BAD REQUEST"
	statusNotFound      = "NOT FOUND"
	statusConflict      = "CONFLICT"
	statusInternalError = "INTERNAL SERVER ERROR"
)

var errInvalidParam = errors.New("invalid parameter")

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	writeJSON(w, r, h.logger, code, body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Error encoding response",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
}

func (h *Handler) writeOK(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, model.StatusResponse{Status: statusOK})
}

// writeError maps a service or parameter error to its status code
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		code   int
		status string
	)
	switch {
	case errors.Is(err, service.ErrBadRequest), errors.Is(err, errInvalidParam):
		code, status = http.StatusBadRequest, statusBadRequest
	case errors.Is(err, service.ErrNotFound):
		code, status = http.StatusNotFound, statusNotFound
	case errors.Is(err, service.ErrConflict):
		code, status = http.StatusConflict, statusConflict
	default:
		code, status = http.StatusInternalServerError, statusInternalError
		h.logger.Error("Request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	h.writeJSON(w, r, code, model.StatusResponse{Status: status})
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", errInvalidParam, raw)
	}
	return id, nil
}

// decodePayload reads the request body as a JSON object, keeping numbers as
// json.Number so integers and floats can be told apart.
func decodePayload(r *http.Request) (model.Payload, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()

	var p model.Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: body: %v", errInvalidParam, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", errInvalidParam)
	}
	return p, nil
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", errInvalidParam, name, raw)
	}
	return &v, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", errInvalidParam, name, raw)
	}
	return &t, nil
}

func queryDateRange(r *http.Request) (service.DateRange, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return service.DateRange{}, err
	}
	until, err := queryDate(r, "until")
	if err != nil {
		return service.DateRange{}, err
	}
	return service.DateRange{From: from, Until: until}, nil
}
