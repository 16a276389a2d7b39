package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the error envelope. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"

	ErrCodeExternalService = "ERR_EXTERNAL_SERVICE"
	ErrCodeUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeExternalService: http.StatusBadGateway,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// DomainErrorCodeMapping maps domain error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"UPLOAD_NOT_FOUND":         ErrCodeNotFound,
	"ALREADY_EXISTS":           ErrCodeAlreadyExists,
	"DUPLICATE_ARTICLE":        ErrCodeAlreadyExists,
	"ALIAS_CONFLICT":           ErrCodeConflict,
	"SYNC_IN_PROGRESS":         ErrCodeConflict,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_STATE":            ErrCodeInvalidState,
	"INVALID_STATE_TRANSITION": ErrCodeInvalidState,
	"UNAUTHORIZED":             ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":      ErrCodeUnauthorized,
	"ACCOUNT_INACTIVE":         ErrCodeUnauthorized,
	"ACCOUNT_LOCKED":           ErrCodeUnauthorized,
	"ACCOUNT_DEACTIVATED":      ErrCodeUnauthorized,
	"TOKEN_EXPIRED":            ErrCodeTokenExpired,
	"FORBIDDEN":                ErrCodeForbidden,
	"EXTERNAL_SERVICE_ERROR":   ErrCodeExternalService,
	"ROBAWS_EXPORT_FAILED":     ErrCodeExternalService,
	"ROBAWS_AUTH_FAILED":       ErrCodeExternalService,
	"ROBAWS_UNAVAILABLE":       ErrCodeUnavailable,
	"ROBAWS_NOT_CONFIGURED":    ErrCodeUnavailable,
	"PDF_RENDERER_UNAVAILABLE": ErrCodeUnavailable,
	"INTERNAL_ERROR":           ErrCodeInternal,
	"TARIFF_SAVE_FAILED":       ErrCodeInternal,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode converts a domain error code to an API code. Codes
// without an explicit mapping are classified by their prefix.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"),
		strings.HasSuffix(code, "_TOO_LARGE"),
		strings.HasPrefix(code, "NO_"),
		strings.HasPrefix(code, "NOT_AN_"):
		return ErrCodeInvalidInput
	case strings.HasPrefix(code, "TOKEN_"):
		return ErrCodeTokenInvalid
	case strings.HasPrefix(code, "ALREADY_"),
		strings.HasPrefix(code, "CANNOT_"),
		strings.HasPrefix(code, "NOT_"),
		strings.HasSuffix(code, "_DELETED"),
		strings.HasSuffix(code, "_EXCEEDED"),
		strings.HasSuffix(code, "_NOT_ACTIVE"):
		return ErrCodeBusinessRule
	case strings.HasSuffix(code, "_FAILED"):
		return ErrCodeExternalService
	}
	return ErrCodeInternal
}

// StatusForDomainCode is NormalizeErrorCode followed by GetHTTPStatus
func StatusForDomainCode(code string) (string, int) {
	normalized := NormalizeErrorCode(code)
	return normalized, GetHTTPStatus(normalized)
}
