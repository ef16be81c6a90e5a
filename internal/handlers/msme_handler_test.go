package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/services/msme"
)

// mockSearchService returns a canned response or error.
type mockSearchService struct {
	resp  *models.SearchResponse
	err   error
	calls int
}

func (m *mockSearchService) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func postSearch(t *testing.T, handler *MSMEHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/msme/search", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.SearchHandler(w, req)
	return w
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) (success bool, message string) {
	t.Helper()

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body.Success, body.Message
}

func TestSearchHandlerSuccess(t *testing.T) {
	svc := &mockSearchService{
		resp: &models.SearchResponse{
			Success: true,
			Data:    []models.EnrichedUnit{{Unit: models.Unit{EnterpriseName: "SHREE FOODS"}}},
			Stats:   models.SearchStats{TotalGov: 1, GoogleAttempted: 1},
		},
	}
	handler := NewMSMEHandler(svc, arbor.NewLogger())

	w := postSearch(t, handler, `{"activity": "food", "location": "AHMADABAD, GUJARAT"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp models.SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearchHandlerMissingLocation(t *testing.T) {
	svc := &mockSearchService{}
	handler := NewMSMEHandler(svc, arbor.NewLogger())

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"empty object", `{}`},
		{"activity only", `{"activity": "food"}`},
		{"empty location", `{"location": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postSearch(t, handler, tt.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			success, message := decodeFailure(t, w)
			if success {
				t.Error("success = true on a failure response")
			}
			if message != "Location must be 'DISTRICT, STATE'" {
				t.Errorf("message = %q", message)
			}
		})
	}

	if svc.calls != 0 {
		t.Errorf("search service called %d times on invalid requests", svc.calls)
	}
}

func TestSearchHandlerMalformedBody(t *testing.T) {
	handler := NewMSMEHandler(&mockSearchService{}, arbor.NewLogger())

	w := postSearch(t, handler, `{"location": `)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	_, message := decodeFailure(t, w)
	if message != "Invalid request body" {
		t.Errorf("message = %q", message)
	}
}

func TestSearchHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"bad format", msme.ErrLocationFormat, http.StatusBadRequest, "Use format 'DISTRICT, STATE' (e.g. AHMADABAD, GUJARAT)"},
		{"missing key", msme.ErrMissingAPIKey, http.StatusInternalServerError, "DATA_GOV_API_KEY not configured"},
		{"upstream failure", context.DeadlineExceeded, http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewMSMEHandler(&mockSearchService{err: tt.err}, arbor.NewLogger())

			w := postSearch(t, handler, `{"location": "AHMADABAD, GUJARAT"}`)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			success, message := decodeFailure(t, w)
			if success {
				t.Error("success = true on a failure response")
			}
			if message != tt.wantMessage {
				t.Errorf("message = %q, want %q", message, tt.wantMessage)
			}
		})
	}
}

func TestSearchHandlerMethodNotAllowed(t *testing.T) {
	handler := NewMSMEHandler(&mockSearchService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/msme/search", nil)
	w := httptest.NewRecorder()
	handler.SearchHandler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
