package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// PlaceCache stores resolved place matches keyed by search query so that
// re-resolving the same enterprise skips the two-call lookup sequence.
// Only lookups are cached, never search results.
type PlaceCache interface {
	Get(ctx context.Context, query string) (*models.PlaceMatch, bool)
	Put(ctx context.Context, query string, match models.PlaceMatch) error
	Close() error
}
