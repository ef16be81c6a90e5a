package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// DatasetService queries the government MSME registration dataset.
type DatasetService interface {
	// FetchRecords returns one page of raw records for the given state and
	// district (exact-match upstream filters). The activity field is never
	// filtered server-side; its free-text blob is filtered locally.
	FetchRecords(ctx context.Context, state, district string, limit, offset int) ([]models.DatasetRecord, error)
}
