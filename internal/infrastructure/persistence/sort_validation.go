package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// SellerSortFields contains allowed sort fields for sellers
var SellerSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"channel_id":   true,
	"catalog_slug": true,
	"display_name": true,
	"active":       true,
}

// ListingSortFields contains allowed sort fields for listings
var ListingSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"seller_id":  true,
	"name":       true,
	"price":      true,
	"status":     true,
	"removed_at": true,
}

// InterestSortFields contains allowed sort fields for interest signals
var InterestSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"listing_id": true,
	"seller_id":  true,
}

// AuditRecordSortFields contains allowed sort fields for audit records
var AuditRecordSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"kind":       true,
	"seller_id":  true,
	"listing_id": true,
}
