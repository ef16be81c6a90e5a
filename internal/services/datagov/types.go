package datagov

import (
	"fmt"

	"github.com/ternarybob/reperio/internal/models"
)

// resourceResponse is the envelope returned by the data.gov.in resource API.
// Only the records array matters here; the envelope also carries catalog
// metadata (title, field descriptors, counts) that the pipeline ignores.
type resourceResponse struct {
	Total   int                    `json:"total,omitempty"`
	Count   int                    `json:"count,omitempty"`
	Limit   string                 `json:"limit,omitempty"`
	Offset  string                 `json:"offset,omitempty"`
	Records []models.DatasetRecord `json:"records"`
}

// APIError represents a non-200 response from the dataset API.
type APIError struct {
	StatusCode int
	Message    string
	Resource   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data.gov.in API returned status %d for resource %s: %s", e.StatusCode, e.Resource, e.Message)
}
