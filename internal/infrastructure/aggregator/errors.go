package aggregator

import (
	"errors"
	"fmt"
)

// Error codes reported by the aggregator API.
const (
	CodeRateLimited        = "RATE_LIMITED"
	CodeInvalidAccessToken = "INVALID_ACCESS_TOKEN"
	CodeItemError          = "ITEM_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// APIError is a typed error returned by the aggregator boundary. Code is
// always one of the constants above.
type APIError struct {
	Code       string `json:"error_code"`
	Message    string `json:"error_message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator error %s: %s", e.Code, e.Message)
}

// IsRateLimited reports whether err is an APIError with code RATE_LIMITED.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeRateLimited
}

// IsInvalidAccessToken reports whether err is an APIError with code
// INVALID_ACCESS_TOKEN (revoked or expired credential).
func IsInvalidAccessToken(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeInvalidAccessToken
}
