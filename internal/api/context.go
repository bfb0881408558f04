// Task 8.1: Shared context helpers for API middleware
package api

import (
	"context"

	"github.com/srilakshmipotnuru/mindsdb/internal/api/ctxkeys"
)

// WithAccountID adds account_id to the request context.
// Uses ctxkeys.AccountID — shared key used by middleware and handlers alike.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, ctxkeys.AccountID, accountID)
}

// GetAccountID retrieves account_id from context.
func GetAccountID(ctx context.Context) (string, error) {
	accountID, ok := ctx.Value(ctxkeys.AccountID).(string)
	if !ok || accountID == "" {
		return "", ErrMissingAccountID
	}
	return accountID, nil
}
