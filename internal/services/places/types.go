package places

// PlacesTextSearchResponse represents the Google Places Text Search API response
type PlacesTextSearchResponse struct {
	HTMLAttributions []string      `json:"html_attributions"`
	Results          []PlaceResult `json:"results"`
	Status           string        `json:"status"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	NextPageToken    string        `json:"next_page_token,omitempty"`
}

// PlaceResult represents a single place result from Google Places API
type PlaceResult struct {
	BusinessStatus   string   `json:"business_status,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	Name             string   `json:"name"`
	PlaceID          string   `json:"place_id"`
	Rating           float64  `json:"rating,omitempty"`
	Reference        string   `json:"reference,omitempty"`
	Types            []string `json:"types,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	Vicinity         string   `json:"vicinity,omitempty"`
}

// PlaceDetailsResponse represents the Google Places Details API response
type PlaceDetailsResponse struct {
	HTMLAttributions []string      `json:"html_attributions"`
	Result           *PlaceDetails `json:"result,omitempty"`
	Status           string        `json:"status"`
	ErrorMessage     string        `json:"error_message,omitempty"`
}

// PlaceDetails is the subset of detail fields the resolver requests.
// Fields absent from the payload decode to "" and are mapped to nil
// downstream, never to a sentinel string.
type PlaceDetails struct {
	Name                     string `json:"name,omitempty"`
	FormattedAddress         string `json:"formatted_address,omitempty"`
	FormattedPhoneNumber     string `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string `json:"international_phone_number,omitempty"`
	Website                  string `json:"website,omitempty"`
}
