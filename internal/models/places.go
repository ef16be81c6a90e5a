package models

// PlaceSummary is one row of the simple maps text-search endpoint.
type PlaceSummary struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Website      string  `json:"website"`
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`
}

// MapsSearchRequest is the body of POST /api/search.
type MapsSearchRequest struct {
	Business string `json:"business" validate:"required"`
	City     string `json:"city" validate:"required"`
	Page     int    `json:"page"`
}

// MapsSearchResponse is the success payload of POST /api/search.
type MapsSearchResponse struct {
	Success bool           `json:"success"`
	Data    []PlaceSummary `json:"data"`
	HasMore bool           `json:"hasMore"`
}
