// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (e.g., incomplete_order, upstream_failure) are
//     reserved for pipeline errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "incomplete_order",
//	  "error": "Dados do pedido incompletos: campo 'telefone' está ausente ou vazio."
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeIncompleteOrder  = "incomplete_order"
	ErrCodeUnparseable      = "unparseable_response"
	ErrCodeUpstreamFailure  = "upstream_failure"
	ErrCodeWebhookFailed    = "webhook_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
