package api

import (
	"net/http"

	"github.com/alexivanou/geotemp-api/internal/model"
)

// CreateCountry handles POST /api/countries
func (h *Handler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.service.CreateCountry(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, model.CreatedResponse{ID: id})
}

// ListCountries handles GET /api/countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.ListCountries(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if countries == nil {
		countries = []model.Country{}
	}
	h.writeJSON(w, r, http.StatusOK, countries)
}

// GetCountry handles GET /api/countries/{id}
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	country, err := h.service.GetCountry(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, country)
}

// UpdateCountry handles PUT /api/countries/{id}
func (h *Handler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.UpdateCountry(r.Context(), id, p); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, r)
}

// DeleteCountry handles DELETE /api/countries/{id}
func (h *Handler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.DeleteCountry(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeOK(w, r)
}
