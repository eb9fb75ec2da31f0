package constants

import "net/http"

// HTTP status codes re-exported for consistency with the rest of the
// constants surface.
const (
	StatusOK                  = http.StatusOK
	StatusNoContent           = http.StatusNoContent
	StatusBadRequest          = http.StatusBadRequest
	StatusUnauthorized        = http.StatusUnauthorized
	StatusForbidden           = http.StatusForbidden
	StatusNotFound            = http.StatusNotFound
	StatusMethodNotAllowed    = http.StatusMethodNotAllowed
	StatusConflict            = http.StatusConflict
	StatusInternalServerError = http.StatusInternalServerError
	StatusServiceUnavailable  = http.StatusServiceUnavailable
)

// Machine-readable error codes returned in API error responses.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeConflict           = "conflict"
	CodeValidationError    = "validation_error"
	CodeDuplicateResource  = "duplicate_resource"
	CodeInternalError      = "internal_error"
	CodeServiceUnavailable = "service_unavailable"
)

// Response success flags.
const (
	ResponseSuccess = true
	ResponseFailure = false
)

// Common response messages.
const (
	MsgResourceNotFound    = "The requested resource could not be found"
	MsgMethodNotAllowed    = "The requested method is not allowed for this resource"
	MsgInternalServerError = "An internal server error occurred"
	MsgAuthRequired        = "Authentication required"
	MsgAccessDenied        = "You don't have permission to access this resource"
	MsgEmptyRequestBody    = "Request body must not be empty"
	MsgMalformedJSON       = "Request body contains malformed JSON"
	MsgRequestBodyTooLarge = "Request body must not be larger than 1MB"
	MsgServiceUnhealthy    = "Service is not healthy"
)

// Header names and content types.
const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderAPIKey       = "X-API-Key"
	ContentTypeJSON    = "application/json"
)

// Query parameter names.
const (
	QueryParamPage     = "page"
	QueryParamPageSize = "page_size"
	QueryParamLimit    = "limit"
	QueryParamSince    = "since"
	QueryParamSport    = "sport"
	QueryParamWeight   = "weight"
)

// RequestIDContextKey is the log field name for request correlation.
const RequestIDContextKey = "request_id"
