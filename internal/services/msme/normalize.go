package msme

import (
	"strings"

	"github.com/ternarybob/reperio/internal/models"
)

// notAvailable is the sentinel carried by every absent source field.
// Output compatibility depends on the literal string, not an empty value.
const notAvailable = "N/A"

// NormalizeRecord maps a raw dataset record onto the canonical unit shape.
// Every missing field defaults to "N/A"; no other validation happens here.
func NormalizeRecord(record models.DatasetRecord) models.Unit {
	return models.Unit{
		EnterpriseName:       fieldOrNA(record, "EnterpriseName"),
		State:                fieldOrNA(record, "State"),
		District:             fieldOrNA(record, "District"),
		Pincode:              NormalizePincode(fieldOrNA(record, "Pincode")),
		RegistrationDate:     fieldOrNA(record, "RegistrationDate"),
		Activities:           fieldOrNA(record, "Activities"),
		CommunicationAddress: fieldOrNA(record, "CommunicationAddress"),
	}
}

func fieldOrNA(record models.DatasetRecord, key string) string {
	if v := record.Field(key); v != "" {
		return v
	}
	return notAvailable
}

// NormalizePincode strips the upstream float-serialization artifact,
// e.g. "110018.0" -> "110018". Anything else passes through unchanged,
// including the "N/A" sentinel.
func NormalizePincode(pin string) string {
	return strings.TrimSuffix(pin, ".0")
}

// FilterByActivity retains units whose activities blob contains the keyword,
// case-insensitively, preserving input order. An empty keyword short-circuits
// to the unfiltered set.
func FilterByActivity(units []models.Unit, keyword string) []models.Unit {
	if keyword == "" {
		return units
	}

	needle := strings.ToLower(keyword)
	filtered := make([]models.Unit, 0, len(units))
	for _, unit := range units {
		if strings.Contains(strings.ToLower(unit.Activities), needle) {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}
