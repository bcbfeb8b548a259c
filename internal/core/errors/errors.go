package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidRequestError  = "invalid_request"
	HttpSchemaError          = "schema_error"
	HttpDatasetNotFoundError = "dataset_not_found"
	HttpPayloadTooLargeError = "payload_too_large"
	HttpEmptyDatasetError    = "empty_dataset"
)

// ErrorResponse is the error response body for dashboard API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
