package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/services/msme"
)

// Failure messages are part of the wire contract inherited from the
// original deployment; clients display them verbatim.
const (
	msgLocationRequired = "Location must be 'DISTRICT, STATE'"
	msgLocationFormat   = "Use format 'DISTRICT, STATE' (e.g. AHMADABAD, GUJARAT)"
	msgMissingAPIKey    = "DATA_GOV_API_KEY not configured"
	msgServerError      = "Server error"
)

// MSMEHandler handles MSME search HTTP requests
type MSMEHandler struct {
	searchService interfaces.SearchService
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewMSMEHandler creates a new MSME handler with dependencies
func NewMSMEHandler(searchService interfaces.SearchService, logger arbor.ILogger) *MSMEHandler {
	return &MSMEHandler{
		searchService: searchService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// SearchHandler handles POST /api/msme/search requests
func (h *MSMEHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// An empty body is a valid request shape (it just fails location
	// validation below), so EOF is not a decode error.
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		WriteFailure(w, http.StatusBadRequest, msgLocationRequired)
		return
	}

	resp, err := h.searchService.Search(r.Context(), req)
	if err != nil {
		h.writeSearchError(w, req, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// writeSearchError maps the service error taxonomy onto HTTP statuses:
// input validation -> 400, configuration and upstream failures -> 500.
func (h *MSMEHandler) writeSearchError(w http.ResponseWriter, req models.SearchRequest, err error) {
	switch {
	case errors.Is(err, msme.ErrLocationRequired):
		WriteFailure(w, http.StatusBadRequest, msgLocationRequired)
	case errors.Is(err, msme.ErrLocationFormat):
		WriteFailure(w, http.StatusBadRequest, msgLocationFormat)
	case errors.Is(err, msme.ErrMissingAPIKey):
		h.logger.Error().Msg("Dataset API key missing, rejecting search")
		WriteFailure(w, http.StatusInternalServerError, msgMissingAPIKey)
	default:
		h.logger.Error().
			Err(err).
			Str("location", req.Location).
			Str("activity", req.Activity).
			Msg("MSME search failed")
		WriteFailure(w, http.StatusInternalServerError, msgServerError)
	}
}
