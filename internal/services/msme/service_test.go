package msme

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/models"
)

// mockDatasetService records the query it received and returns canned records.
type mockDatasetService struct {
	records  []models.DatasetRecord
	err      error
	calls    int
	state    string
	district string
	limit    int
	offset   int
}

func (m *mockDatasetService) FetchRecords(ctx context.Context, state, district string, limit, offset int) ([]models.DatasetRecord, error) {
	m.calls++
	m.state = state
	m.district = district
	m.limit = limit
	m.offset = offset
	return m.records, m.err
}

// mockPlacesService resolves every unit to the same match.
type mockPlacesService struct {
	match   models.PlaceMatch
	enabled bool
	calls   int
}

func (m *mockPlacesService) ResolveUnit(ctx context.Context, unit models.Unit) models.PlaceMatch {
	m.calls++
	if !m.enabled {
		return models.PlaceMatch{}
	}
	return m.match
}

func (m *mockPlacesService) SearchBusinesses(ctx context.Context, business, city string) ([]models.PlaceSummary, error) {
	return nil, nil
}

func (m *mockPlacesService) Enabled() bool {
	return m.enabled
}

func testConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.DataGov.APIKey = "test-key"
	return cfg
}

func strptr(s string) *string { return &s }

func TestSearchValidation(t *testing.T) {
	datasets := &mockDatasetService{}
	places := &mockPlacesService{}
	svc := NewService(datasets, places, testConfig(), arbor.NewLogger())

	tests := []struct {
		name     string
		location string
		wantErr  error
	}{
		{"empty location", "", ErrLocationRequired},
		{"no comma", "AHMADABAD GUJARAT", ErrLocationFormat},
		{"empty district", ", GUJARAT", ErrLocationFormat},
		{"empty state", "AHMADABAD, ", ErrLocationFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), models.SearchRequest{Location: tt.location})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Search() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Validation failures must never reach the dataset API.
	if datasets.calls != 0 {
		t.Errorf("dataset service called %d times on invalid input", datasets.calls)
	}
}

func TestSearchMissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.DataGov.APIKey = ""

	datasets := &mockDatasetService{}
	svc := NewService(datasets, &mockPlacesService{}, cfg, arbor.NewLogger())

	_, err := svc.Search(context.Background(), models.SearchRequest{Location: "AHMADABAD, GUJARAT"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Search() error = %v, want ErrMissingAPIKey", err)
	}
	if datasets.calls != 0 {
		t.Errorf("dataset service called without a credential")
	}
}

func TestSearchLocationParsing(t *testing.T) {
	datasets := &mockDatasetService{}
	svc := NewService(datasets, &mockPlacesService{}, testConfig(), arbor.NewLogger())

	// Mixed case and stray whitespace normalize to upper-cased parts.
	_, err := svc.Search(context.Background(), models.SearchRequest{Location: "  ahmadabad ,  Gujarat "})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if datasets.district != "AHMADABAD" || datasets.state != "GUJARAT" {
		t.Errorf("query filters = %q/%q, want AHMADABAD/GUJARAT", datasets.district, datasets.state)
	}
}

func TestSearchPagination(t *testing.T) {
	datasets := &mockDatasetService{}
	svc := NewService(datasets, &mockPlacesService{}, testConfig(), arbor.NewLogger())

	_, err := svc.Search(context.Background(), models.SearchRequest{Location: "PUNE, MAHARASHTRA", Page: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if datasets.limit != 1000 || datasets.offset != 2000 {
		t.Errorf("limit/offset = %d/%d, want 1000/2000", datasets.limit, datasets.offset)
	}

	// Page zero and negatives clamp to the first page.
	_, err = svc.Search(context.Background(), models.SearchRequest{Location: "PUNE, MAHARASHTRA", Page: -2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if datasets.offset != 0 {
		t.Errorf("offset = %d, want 0 for clamped page", datasets.offset)
	}
}

func TestSearchPipeline(t *testing.T) {
	datasets := &mockDatasetService{
		records: []models.DatasetRecord{
			{"EnterpriseName": "SHREE FOODS", "Activities": "Food processing", "Pincode": "380001.0"},
			{"EnterpriseName": "TEXTILE CO", "Activities": "Weaving"},
			{"EnterpriseName": "SEA FOODS", "Activities": "SEAFOOD export"},
		},
	}
	places := &mockPlacesService{
		enabled: true,
		match: models.PlaceMatch{
			GooglePlaceID: strptr("place-1"),
			GooglePhone:   strptr("+91 12345 67890"),
		},
	}
	svc := NewService(datasets, places, testConfig(), arbor.NewLogger())

	resp, err := svc.Search(context.Background(), models.SearchRequest{
		Activity: "food",
		Location: "AHMADABAD, GUJARAT",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if !resp.Success {
		t.Error("Success = false")
	}
	if len(resp.Data) != 2 {
		t.Fatalf("got %d enriched units, want 2", len(resp.Data))
	}
	if resp.Data[0].EnterpriseName != "SHREE FOODS" || resp.Data[1].EnterpriseName != "SEA FOODS" {
		t.Errorf("unexpected order: %s, %s", resp.Data[0].EnterpriseName, resp.Data[1].EnterpriseName)
	}
	if resp.Data[0].Pincode != "380001" {
		t.Errorf("Pincode = %q, want float artifact stripped", resp.Data[0].Pincode)
	}
	if resp.Data[0].GooglePlaceID == nil || *resp.Data[0].GooglePlaceID != "place-1" {
		t.Errorf("GooglePlaceID not carried through enrichment")
	}

	// Stats count the raw page, the filtered set and the match outcomes.
	want := models.SearchStats{TotalGov: 3, GoogleAttempted: 2, GoogleMatched: 2, PhoneWithNumber: 2}
	if resp.Stats != want {
		t.Errorf("Stats = %+v, want %+v", resp.Stats, want)
	}

	if places.calls != 2 {
		t.Errorf("ResolveUnit called %d times, want once per filtered unit", places.calls)
	}

	// Three raw records against a 1000 page size.
	if resp.HasMore {
		t.Error("HasMore = true for a partial page")
	}
}

func TestSearchDisabledEnrichment(t *testing.T) {
	datasets := &mockDatasetService{
		records: []models.DatasetRecord{
			{"EnterpriseName": "A", "Activities": "Food"},
			{"EnterpriseName": "B", "Activities": "Food"},
		},
	}
	places := &mockPlacesService{enabled: false}
	svc := NewService(datasets, places, testConfig(), arbor.NewLogger())

	resp, err := svc.Search(context.Background(), models.SearchRequest{Location: "PUNE, MAHARASHTRA"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// The pipeline completes with null enrichment fields on every unit.
	for i, unit := range resp.Data {
		if unit.GooglePlaceID != nil || unit.GooglePhone != nil {
			t.Errorf("unit %d carries enrichment data with places disabled", i)
		}
	}
	if resp.Stats.GoogleMatched != 0 || resp.Stats.PhoneWithNumber != 0 {
		t.Errorf("Stats = %+v, want zero matches", resp.Stats)
	}
	if resp.Stats.GoogleAttempted != 2 {
		t.Errorf("GoogleAttempted = %d, want 2", resp.Stats.GoogleAttempted)
	}
}

func TestSearchHasMore(t *testing.T) {
	cfg := testConfig()
	cfg.Enrichment.PageSize = 2

	datasets := &mockDatasetService{
		records: []models.DatasetRecord{
			{"EnterpriseName": "A", "Activities": "Food"},
			{"EnterpriseName": "B", "Activities": "Food"},
		},
	}
	svc := NewService(datasets, &mockPlacesService{}, cfg, arbor.NewLogger())

	resp, err := svc.Search(context.Background(), models.SearchRequest{Location: "PUNE, MAHARASHTRA"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !resp.HasMore {
		t.Error("HasMore = false when the post-filter count fills the page")
	}

	// A full raw page that filters below the page size reads as "no more".
	resp, err = svc.Search(context.Background(), models.SearchRequest{Activity: "food", Location: "PUNE, MAHARASHTRA"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !resp.HasMore {
		t.Error("HasMore = false, want true when every record passes the filter")
	}

	datasets.records[1] = models.DatasetRecord{"EnterpriseName": "B", "Activities": "Textiles"}
	resp, err = svc.Search(context.Background(), models.SearchRequest{Activity: "food", Location: "PUNE, MAHARASHTRA"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.HasMore {
		t.Error("HasMore = true after the filter shrank a full page")
	}
	if resp.Stats.TotalGov != 2 {
		t.Errorf("TotalGov = %d, want the raw page count", resp.Stats.TotalGov)
	}
}

func TestSearchDatasetError(t *testing.T) {
	datasets := &mockDatasetService{err: errors.New("upstream unavailable")}
	svc := NewService(datasets, &mockPlacesService{}, testConfig(), arbor.NewLogger())

	_, err := svc.Search(context.Background(), models.SearchRequest{Location: "PUNE, MAHARASHTRA"})
	if err == nil {
		t.Fatal("Search() error = nil, want wrapped dataset error")
	}
	if errors.Is(err, ErrLocationRequired) || errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("dataset failure mapped onto a validation sentinel: %v", err)
	}
}
