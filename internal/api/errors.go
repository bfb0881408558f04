// Task 8.1: API error definitions
package api

import "errors"

var (
	// ErrMissingAccountID is returned when account_id is missing from context
	ErrMissingAccountID = errors.New("missing account_id in context")
)
