package api

import (
	"net/http"

	"github.com/alexivanou/geotemp-api/internal/model"
)

// CreateCity handles POST /api/cities
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.service.CreateCity(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, model.CreatedResponse{ID: id})
}

// ListCities handles GET /api/cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.ListCities(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCities(w, r, cities)
}

// CitiesByCountry handles GET /api/cities/country/{id}
func (h *Handler) CitiesByCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cities, err := h.service.CitiesByCountry(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCities(w, r, cities)
}

func (h *Handler) writeCities(w http.ResponseWriter, r *http.Request, cities []model.City) {
	if cities == nil {
		cities = []model.City{}
	}
	h.writeJSON(w, r, http.StatusOK, cities)
}

// GetCity handles GET /api/cities/{id}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	city, err := h.service.GetCity(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, city)
}

// UpdateCity handles PUT /api/cities/{id}
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.UpdateCity(r.Context(), id, p); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, r)
}

// DeleteCity handles DELETE /api/cities/{id}
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeleteCity(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, r)
}
