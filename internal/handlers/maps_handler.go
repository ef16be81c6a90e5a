package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// MapsHandler handles the plain business text-search requests used by the
// maps page. Unlike the MSME pipeline this search does not enrich records;
// each hit is returned with whatever the places API knows about it.
type MapsHandler struct {
	placesService interfaces.PlacesService
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewMapsHandler creates a new maps search handler
func NewMapsHandler(placesService interfaces.PlacesService, logger arbor.ILogger) *MapsHandler {
	return &MapsHandler{
		placesService: placesService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// SearchHandler handles POST /api/search requests
func (h *MapsHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.MapsSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		WriteFailure(w, http.StatusBadRequest, "business and city are required")
		return
	}

	if !h.placesService.Enabled() {
		WriteFailure(w, http.StatusInternalServerError, "GOOGLE_API_KEY not configured")
		return
	}

	summaries, err := h.placesService.SearchBusinesses(r.Context(), req.Business, req.City)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("business", req.Business).
			Str("city", req.City).
			Msg("Business search failed")
		WriteFailure(w, http.StatusInternalServerError, "Server error")
		return
	}

	WriteJSON(w, http.StatusOK, models.MapsSearchResponse{
		Success: true,
		Data:    summaries,
		HasMore: len(summaries) > 0,
	})
}
