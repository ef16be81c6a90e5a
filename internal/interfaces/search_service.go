package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// SearchService runs the MSME search-and-enrichment pipeline.
type SearchService interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
}
