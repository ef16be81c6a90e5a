package msme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

var (
	// ErrLocationRequired is returned when the request carries no location.
	ErrLocationRequired = errors.New("location is required")

	// ErrLocationFormat is returned when the location does not split into
	// two non-empty comma-separated parts.
	ErrLocationFormat = errors.New("location must be 'DISTRICT, STATE'")

	// ErrMissingAPIKey is returned when no dataset credential is configured.
	ErrMissingAPIKey = errors.New("dataset API key not configured")
)

// Service drives the search-and-enrichment pipeline: one dataset query,
// local normalization and activity filtering, then a concurrent place
// lookup per filtered unit. The service is stateless per request;
// pagination state is owned entirely by the caller.
type Service struct {
	datasets interfaces.DatasetService
	places   interfaces.PlacesService
	config   *common.Config
	logger   arbor.ILogger
}

// NewService creates a new MSME search service.
func NewService(datasets interfaces.DatasetService, places interfaces.PlacesService, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		datasets: datasets,
		places:   places,
		config:   config,
		logger:   logger,
	}
}

// Search validates the request, fetches one page of registration records,
// filters them by activity keyword and enriches every remaining unit.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	if req.Location == "" {
		return nil, ErrLocationRequired
	}
	if s.config.DataGov.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	district, state, err := splitLocation(req.Location)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := s.config.Enrichment.PageSize
	if limit <= 0 {
		limit = 1000
	}
	offset := (page - 1) * limit

	s.logger.Info().
		Str("state", state).
		Str("district", district).
		Str("activity", req.Activity).
		Int("page", page).
		Msg("MSME search started")

	records, err := s.datasets.FetchRecords(ctx, state, district, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("dataset query failed: %w", err)
	}

	units := make([]models.Unit, len(records))
	for i, record := range records {
		units[i] = NormalizeRecord(record)
	}

	filtered := FilterByActivity(units, req.Activity)

	s.logger.Info().
		Int("total", len(records)).
		Int("filtered", len(filtered)).
		Msg("Activity filter applied")

	enriched := s.enrichAll(ctx, filtered)

	stats := models.SearchStats{
		TotalGov:        len(records),
		GoogleAttempted: len(filtered),
	}
	for _, unit := range enriched {
		if unit.GooglePlaceID != nil {
			stats.GoogleMatched++
		}
		if unit.GooglePhone != nil {
			stats.PhoneWithNumber++
		}
	}

	s.logger.Info().
		Int("matched", stats.GoogleMatched).
		Int("with_phone", stats.PhoneWithNumber).
		Msg("MSME search completed")

	return &models.SearchResponse{
		Success: true,
		Data:    enriched,
		// Known imprecision kept for output compatibility: the flag compares
		// the post-filter count to the page size, so a raw full page that
		// filters down reads as "no more". totalGov carries the raw count.
		HasMore: len(filtered) == limit,
		Stats:   stats,
	}, nil
}

// enrichAll resolves a place match for every unit concurrently, preserving
// input order and length. Resolution never fails, so the output is complete
// once every goroutine finishes; a slow lookup delays the response but never
// blocks its peers. max_concurrency gates the burst of outbound calls; zero
// disables the gate.
func (s *Service) enrichAll(ctx context.Context, units []models.Unit) []models.EnrichedUnit {
	enriched := make([]models.EnrichedUnit, len(units))

	var sem chan struct{}
	if max := s.config.Enrichment.MaxConcurrency; max > 0 {
		sem = make(chan struct{}, max)
	}

	var wg sync.WaitGroup
	for i, unit := range units {
		wg.Add(1)
		go func(i int, unit models.Unit) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			enriched[i] = models.EnrichedUnit{
				Unit:       unit,
				PlaceMatch: s.places.ResolveUnit(ctx, unit),
			}
		}(i, unit)
	}
	wg.Wait()

	return enriched
}

// splitLocation splits "DISTRICT, STATE" on the first comma, trims and
// upper-cases both parts.
func splitLocation(location string) (district, state string, err error) {
	parts := strings.SplitN(location, ",", 2)
	if len(parts) != 2 {
		return "", "", ErrLocationFormat
	}

	district = strings.ToUpper(strings.TrimSpace(parts[0]))
	state = strings.ToUpper(strings.TrimSpace(parts[1]))
	if district == "" || state == "" {
		return "", "", ErrLocationFormat
	}

	return district, state, nil
}
