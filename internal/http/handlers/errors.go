// Error codes returned in the ErrorResponse envelope.
//
// Codes are lowercase snake_case and stable; the dialogue platform and
// operators branch on them rather than on message text. Generic codes mirror
// the HTTP status; notify_failed is the one domain code and exists so the
// platform's retry can be told apart from an internal fault in dashboards.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "bad_request",
//	  "message": "malformed JSON body"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "service_unavailable"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeNotifyFailed = "notify_failed"
)
