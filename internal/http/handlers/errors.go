// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// the *_failed codes report a store operation that did not take effect.
// Clients are expected to branch on the code, not the message.

package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeInvalidID        = "invalid_id"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeListFailed       = "list_failed"
	ErrCodeGetFailed        = "get_failed"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeUpdateFailed     = "update_failed"
	ErrCodeDeleteFailed     = "delete_failed"
	ErrCodeLoginUnavailable = "login_unavailable"
)

// Messages returned when a replace or delete changed nothing.
const (
	msgUpdateFailed = "Some error occurred while updating the pokemon."
	msgDeleteFailed = "Some error occurred while deleting the pokemon."
)
