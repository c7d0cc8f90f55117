package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeCreditLimitExceeded is used when a charge would push the balance over the limit
	ErrCodeCreditLimitExceeded = "ERR_CREDIT_LIMIT_EXCEEDED"
	// ErrCodeOverpayment is used when a payment exceeds the remaining due of an invoice
	ErrCodeOverpayment = "ERR_OVERPAYMENT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeCreditLimitExceeded: http.StatusUnprocessableEntity,
	ErrCodeOverpayment:         http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to the API format.
// Validation-flavored domain codes all collapse to ERR_INVALID_INPUT.
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVOICE_CANCELLED":    ErrCodeInvalidState,
	"ALREADY_CANCELLED":    ErrCodeInvalidState,
	"INVOICE_MISMATCH":     ErrCodeBusinessRule,

	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_NAME":         ErrCodeInvalidInput,
	"INVALID_PHONE":        ErrCodeInvalidInput,
	"INVALID_ADDRESS":      ErrCodeInvalidInput,
	"INVALID_CREDIT_LIMIT": ErrCodeInvalidInput,
	"INVALID_CUSTOMER":     ErrCodeInvalidInput,
	"INVALID_INVOICE":      ErrCodeInvalidInput,
	"INVALID_ITEM":         ErrCodeInvalidInput,
	"INVALID_ITEMS":        ErrCodeInvalidInput,
	"INVALID_DUE_DATE":     ErrCodeInvalidInput,
	"INVALID_AMOUNT":       ErrCodeInvalidInput,
	"INVALID_METHOD":       ErrCodeInvalidInput,
	"INVALID_TYPE":         ErrCodeInvalidInput,
	"INVALID_CONTENT":      ErrCodeInvalidInput,
	"INVALID_CONTENT_TYPE": ErrCodeInvalidInput,
	"INVALID_FILE":         ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
