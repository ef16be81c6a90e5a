package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// PlacesService resolves business-listing metadata from the Google Places API.
type PlacesService interface {
	// ResolveUnit attempts a sequence of progressively less specific text
	// searches for the unit and returns the first match's details. It never
	// fails: every error resolves to nil fields in the returned match.
	ResolveUnit(ctx context.Context, unit models.Unit) models.PlaceMatch

	// SearchBusinesses performs a plain text search for "business city" and
	// returns summaries of all hits (no query degradation, no unit context).
	SearchBusinesses(ctx context.Context, business, city string) ([]models.PlaceSummary, error)

	// Enabled reports whether an API key is configured. When false,
	// ResolveUnit short-circuits to an all-nil match.
	Enabled() bool
}
