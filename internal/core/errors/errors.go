package errors

const (
	HttpInternalError          = "internal_error"
	HttpInvalidJsonError       = "invalid_json"
	HttpInvalidQueryError      = "invalid_query"
	HttpInvalidStatusError     = "invalid_status"
	HttpReportNotFoundError    = "report_not_found"
	HttpUnknownCollectionError = "unknown_collection"
	HttpStoreError             = "store_error"
	HttpStoreUnavailableError  = "store_unavailable"
)

// ErrorResponse is the error response body for every API error.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
