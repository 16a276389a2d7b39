package persistence

import (
	"errors"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"gorm.io/gorm"
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

// applyPaging orders by a whitelisted column and applies offset/limit
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern. Callers compare against LOWER(column).
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// translateNotFound maps gorm.ErrRecordNotFound to the domain not-found error
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PortSortFields contains allowed sort fields for ports
var PortSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"country":    true,
	"region":     true,
	"type":       true,
}

// PortAliasSortFields contains allowed sort fields for port aliases
var PortAliasSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"alias":            true,
	"normalized_alias": true,
	"alias_type":       true,
	"is_active":        true,
}

// TariffSortFields contains allowed sort fields for carrier tariffs
var TariffSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"base_freight": true,
	"valid_from":   true,
	"valid_until":  true,
	"unit_basis":   true,
}

// ArticleSortFields contains allowed sort fields for articles
var ArticleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"category":       true,
	"carrier":        true,
	"unit_price":     true,
	"last_synced_at": true,
}

// MarginRuleSortFields contains allowed sort fields for margin rules
var MarginRuleSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"name":             true,
	"priority":         true,
	"vehicle_category": true,
	"unit_basis":       true,
}

// PricingProfileSortFields contains allowed sort fields for pricing profiles
var PricingProfileSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"name":       true,
	"valid_from": true,
}

// QuotationSortFields contains allowed sort fields for quotation requests
var QuotationSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"status":         true,
	"contact_name":   true,
	"client_name":    true,
	"total_amount":   true,
	"pol_code":       true,
	"pod_code":       true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"name":          true,
	"role":          true,
	"last_login_at": true,
}

// ScheduleSortFields contains allowed sort fields for sailing schedules
var ScheduleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"carrier":    true,
	"ets":        true,
	"eta":        true,
	"pol_code":   true,
	"pod_code":   true,
}
