package api

import (
	"net/http"

	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/service"
)

// CreateTemperature handles POST /api/temperatures
func (h *Handler) CreateTemperature(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.service.CreateTemperature(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, model.CreatedResponse{ID: id})
}

// SearchTemperatures handles GET /api/temperatures?lat=&lon=&from=&until=
func (h *Handler) SearchTemperatures(w http.ResponseWriter, r *http.Request) {
	var (
		f   service.TemperatureFilter
		err error
	)
	if f.Lat, err = queryFloat(r, "lat"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.Lon, err = queryFloat(r, "lon"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.DateRange, err = queryDateRange(r); err != nil {
		h.writeError(w, r, err)
		return
	}

	temps, err := h.service.SearchTemperatures(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, model.NewTemperatureResponses(temps))
}

// TemperaturesByCity handles GET /api/temperatures/cities/{id}?from=&until=
func (h *Handler) TemperaturesByCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	dates, err := queryDateRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	temps, err := h.service.TemperaturesByCity(r.Context(), id, dates)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, model.NewTemperatureResponses(temps))
}

// TemperaturesByCountry handles GET /api/temperatures/countries/{id}?from=&until=
func (h *Handler) TemperaturesByCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	dates, err := queryDateRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	temps, err := h.service.TemperaturesByCountry(r.Context(), id, dates)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, model.NewTemperatureResponses(temps))
}

// GetTemperature handles GET /api/temperatures/{id}
func (h *Handler) GetTemperature(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	temp, err := h.service.GetTemperature(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, model.NewTemperatureResponse(*temp))
}

// UpdateTemperature handles PUT /api/temperatures/{id}
func (h *Handler) UpdateTemperature(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := decodePayload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.UpdateTemperature(r.Context(), id, p); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, r)
}

// DeleteTemperature handles DELETE /api/temperatures/{id}
func (h *Handler) DeleteTemperature(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeleteTemperature(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, r)
}
