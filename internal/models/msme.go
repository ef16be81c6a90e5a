package models

// Unit is one canonical MSME enterprise record after normalization.
// All fields are strings; fields absent from the upstream record carry
// the literal "N/A" sentinel, never an empty string.
type Unit struct {
	EnterpriseName       string `json:"enterpriseName"`
	State                string `json:"state"`
	District             string `json:"district"`
	Pincode              string `json:"pincode"`
	RegistrationDate     string `json:"registrationDate"`
	Activities           string `json:"activities"`
	CommunicationAddress string `json:"communicationAddress"`
}

// PlaceMatch holds business-listing metadata attached to a unit.
// Each field is independently nullable. GooglePlaceID is non-nil exactly
// when one of the search attempts returned a usable result; the detail
// fields may still be nil on a partial match.
type PlaceMatch struct {
	GoogleName      *string `json:"googleName"`
	GoogleAddress   *string `json:"googleAddress"`
	GooglePhone     *string `json:"googlePhone"`
	GoogleIntlPhone *string `json:"googleIntlPhone"`
	GoogleWebsite   *string `json:"googleWebsite"`
	GooglePlaceID   *string `json:"googlePlaceId"`
}

// EnrichedUnit is a Unit with its place-lookup result merged in.
type EnrichedUnit struct {
	Unit
	PlaceMatch
}

// SearchRequest is the body of POST /api/msme/search.
type SearchRequest struct {
	Activity string `json:"activity"`
	Location string `json:"location" validate:"required"` // "DISTRICT, STATE"
	Page     int    `json:"page"`                         // 1-based, default 1
}

// SearchStats summarizes a search for the caller.
type SearchStats struct {
	TotalGov        int `json:"totalGov"`        // raw records returned by the dataset query
	GoogleAttempted int `json:"googleAttempted"` // units that entered enrichment
	GoogleMatched   int `json:"googleMatched"`   // enriched units with a place id
	PhoneWithNumber int `json:"phoneWithNumber"` // enriched units with a formatted phone
}

// SearchResponse is the success payload of POST /api/msme/search.
type SearchResponse struct {
	Success bool           `json:"success"`
	Data    []EnrichedUnit `json:"data"`
	HasMore bool           `json:"hasMore"`
	Stats   SearchStats    `json:"stats"`
}
