package errors

const (
	HttpInternalError     = "internal_error"
	HttpInvalidJsonError  = "invalid_json"
	HttpValidationError   = "validation_error"
	HttpCampaignNotFound  = "campaign_not_found"
	HttpCampaignInactive  = "campaign_inactive"
	HttpBatchTooLarge     = "batch_too_large"
	HttpPersistenceFailed = "persistence_failure"
	HttpInvalidQueryError = "invalid_query"
)

// ErrorResponse is the error response body for every API error.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
