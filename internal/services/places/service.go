package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Google Maps Places API.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	// detailFields is the exact field list requested from the details API.
	detailFields = "name,formatted_address,formatted_phone_number,international_phone_number,website"

	// detailsConcurrency bounds the detail lookups behind SearchBusinesses.
	detailsConcurrency = 4
)

// Service implements the PlacesService interface
type Service struct {
	config     *common.PlacesAPIConfig
	cache      interfaces.PlaceCache
	logger     arbor.ILogger
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	warnOnce   sync.Once
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ServiceOption {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// NewService creates a new Places service instance.
// cache may be nil, in which case every resolution hits the API.
func NewService(config *common.PlacesAPIConfig, cache interfaces.PlaceCache, logger arbor.ILogger, opts ...ServiceOption) *Service {
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = 10
	}

	s := &Service{
		config:  config,
		cache:   cache,
		logger:  logger,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Enabled reports whether a Places API key is configured.
func (s *Service) Enabled() bool {
	return s.config.APIKey != ""
}

// ResolveUnit attempts three query variants from most to least specific and
// returns the first successful match's details. Every failure mode resolves
// to nil fields; the method never returns an error.
func (s *Service) ResolveUnit(ctx context.Context, unit models.Unit) models.PlaceMatch {
	if !s.Enabled() {
		s.warnOnce.Do(func() {
			s.logger.Warn().Msg("Places API key not set, skipping place lookups")
		})
		return models.PlaceMatch{}
	}

	for _, query := range queryVariants(unit) {
		if s.cache != nil {
			if cached, ok := s.cache.Get(ctx, query); ok {
				s.logger.Debug().Str("query", query).Msg("Place match served from cache")
				return *cached
			}
		}

		placeID, ok := s.firstMatch(ctx, query)
		if !ok {
			continue
		}

		// The place id attempt is considered resolved even when detail
		// retrieval fails; never fall back to a broader variant here.
		match := s.lookupDetails(ctx, placeID)

		if s.cache != nil && match.GooglePlaceID != nil {
			if err := s.cache.Put(ctx, query, match); err != nil {
				s.logger.Warn().Err(err).Str("query", query).Msg("Failed to cache place match")
			}
		}

		return match
	}

	return models.PlaceMatch{}
}

// queryVariants builds the degrading query list for a unit. Upstream address
// text is noisy, so over-specific queries frequently return zero results even
// when a match exists under a looser query; recall wins over precision and the
// first hit of the first non-empty result set is taken as the match.
func queryVariants(unit models.Unit) []string {
	return []string{
		strings.Join([]string{unit.EnterpriseName, unit.CommunicationAddress, unit.District, unit.State, unit.Pincode}, " "),
		strings.Join([]string{unit.EnterpriseName, unit.District, unit.State, unit.Pincode}, " "),
		strings.Join([]string{unit.EnterpriseName, unit.District, unit.State}, " "),
	}
}

// firstMatch runs one text search and returns the first result's place id.
// A transport error, a non-OK API status or an empty result set all report
// !ok so the caller advances to the next variant.
func (s *Service) firstMatch(ctx context.Context, query string) (string, bool) {
	results, err := s.textSearch(ctx, query)
	if err != nil {
		s.logger.Debug().Err(err).Str("query", query).Msg("Place text search failed, trying next variant")
		return "", false
	}
	if len(results) == 0 {
		s.logger.Debug().Str("query", query).Msg("No place result, trying next variant")
		return "", false
	}
	return results[0].PlaceID, true
}

// textSearch performs a Google Places Text Search
func (s *Service) textSearch(ctx context.Context, query string) ([]PlaceResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", s.config.APIKey)

	fullURL := fmt.Sprintf("%s/textsearch/json?%s", s.baseURL, params.Encode())

	// Redact API key in logs
	s.logger.Debug().
		Str("url", fmt.Sprintf("%s/textsearch/json?query=%s&key=***REDACTED***", s.baseURL, url.QueryEscape(query))).
		Msg("Calling Google Places Text Search API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Google Places API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp PlacesTextSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	if apiResp.Status != "OK" && apiResp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("API error: %s - %s", apiResp.Status, apiResp.ErrorMessage)
	}

	return apiResp.Results, nil
}

// lookupDetails requests the five detail fields for a place id. When the
// call fails or the payload has no result object, the returned match carries
// the place id alone with nil detail fields.
func (s *Service) lookupDetails(ctx context.Context, placeID string) models.PlaceMatch {
	match := models.PlaceMatch{
		GooglePlaceID: optional(placeID),
	}

	details, err := s.placeDetails(ctx, placeID)
	if err != nil {
		s.logger.Debug().Err(err).Str("place_id", placeID).Msg("Place details lookup failed")
		return match
	}
	if details == nil {
		s.logger.Debug().Str("place_id", placeID).Msg("Place details payload has no result")
		return match
	}

	match.GoogleName = optional(details.Name)
	match.GoogleAddress = optional(details.FormattedAddress)
	match.GooglePhone = optional(details.FormattedPhoneNumber)
	match.GoogleIntlPhone = optional(details.InternationalPhoneNumber)
	match.GoogleWebsite = optional(details.Website)

	s.logger.Info().
		Str("place_id", placeID).
		Str("name", details.Name).
		Str("address", details.FormattedAddress).
		Msg("Place match resolved")

	return match
}

// placeDetails performs a Google Places Details call for the five fields.
func (s *Service) placeDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)
	params.Set("key", s.config.APIKey)

	fullURL := fmt.Sprintf("%s/details/json?%s", s.baseURL, params.Encode())

	s.logger.Debug().
		Str("url", fmt.Sprintf("%s/details/json?place_id=%s&fields=%s&key=***REDACTED***", s.baseURL, placeID, detailFields)).
		Msg("Calling Google Places Details API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Google Places API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp PlaceDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	if apiResp.Status != "OK" {
		return nil, fmt.Errorf("API error: %s - %s", apiResp.Status, apiResp.ErrorMessage)
	}

	return apiResp.Result, nil
}

// SearchBusinesses performs a plain text search for "business city" and
// fills in phone/website from the details API for each hit.
func (s *Service) SearchBusinesses(ctx context.Context, business, city string) ([]models.PlaceSummary, error) {
	query := strings.TrimSpace(business + " " + city)

	results, err := s.textSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search places: %w", err)
	}

	summaries := make([]models.PlaceSummary, len(results))

	var wg sync.WaitGroup
	sem := make(chan struct{}, detailsConcurrency)
	for i, result := range results {
		wg.Add(1)
		go func(i int, result PlaceResult) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			summary := models.PlaceSummary{
				Name:         result.Name,
				Address:      result.FormattedAddress,
				Rating:       result.Rating,
				TotalRatings: result.UserRatingsTotal,
			}

			// Phone and website only exist on the details payload.
			if details, err := s.placeDetails(ctx, result.PlaceID); err == nil && details != nil {
				summary.Phone = details.FormattedPhoneNumber
				summary.Website = details.Website
			}

			summaries[i] = summary
		}(i, result)
	}
	wg.Wait()

	s.logger.Info().
		Str("query", query).
		Int("results", len(summaries)).
		Msg("Business search completed")

	return summaries, nil
}

// optional maps an absent (empty) payload field to nil, never to a sentinel.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
