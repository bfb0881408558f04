// Task 6.2: priority-ordered resolution of model options and credentials.
package model

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ErrMissingCredential is returned when a strictly required API key cannot
// be found in any source.
var ErrMissingCredential = fmt.Errorf("missing credential")

// Args is the free-form argument bag captured at model creation and
// overlaid per prediction.
type Args map[string]any

// StringOpt returns the first source that carries key as a string.
// Later sources are fallbacks; the final fallback is def.
func StringOpt(key, def string, sources ...Args) string {
	for _, src := range sources {
		if v, ok := src[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return def
}

// FloatOpt returns the first source that carries key as a number.
// JSON round-trips land numbers as float64; ints are accepted too.
func FloatOpt(key string, def float64, sources ...Args) float64 {
	for _, src := range sources {
		if v, ok := src[key]; ok {
			switch n := v.(type) {
			case float64:
				return n
			case int:
				return float64(n)
			}
		}
	}
	return def
}

// IntOpt returns the first source that carries key as an integer.
func IntOpt(key string, def int, sources ...Args) int {
	for _, src := range sources {
		if v, ok := src[key]; ok {
			switch n := v.(type) {
			case float64:
				return int(n)
			case int:
				return n
			}
		}
	}
	return def
}

// BoolOpt returns the first source that carries key as a bool.
func BoolOpt(key string, def bool, sources ...Args) bool {
	for _, src := range sources {
		if v, ok := src[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return def
}

// StringsOpt returns the first source that carries key as a string list.
func StringsOpt(key string, def []string, sources ...Args) []string {
	for _, src := range sources {
		v, ok := src[key]
		if !ok {
			continue
		}
		switch list := v.(type) {
		case []string:
			return list
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return def
}

// CredentialResolver locates provider API keys across the argument bags,
// the shared connection-args table and the process environment, in that
// order.
type CredentialResolver struct {
	storage *Storage
}

// NewCredentialResolver wraps model storage for connection-args lookups.
func NewCredentialResolver(storage *Storage) *CredentialResolver {
	return &CredentialResolver{storage: storage}
}

// Resolve walks the sources for key. provider selects the connection-args
// record; the environment variable is the uppercased key. When strict is
// set a miss is an error, otherwise the empty string is returned.
func (r *CredentialResolver) Resolve(ctx context.Context, provider, key string, strict bool, sources ...Args) (string, error) {
	if v := StringOpt(key, "", sources...); v != "" {
		return v, nil
	}
	if r.storage != nil {
		stored, err := r.storage.GetConnectionArgs(ctx, provider)
		if err != nil {
			return "", err
		}
		if v := stored[key]; v != "" {
			return v, nil
		}
	}
	if v := os.Getenv(strings.ToUpper(key)); v != "" {
		return v, nil
	}
	if strict {
		return "", fmt.Errorf("%w: %q not found in model arguments, stored connection arguments or the %s environment variable", ErrMissingCredential, key, strings.ToUpper(key))
	}
	return "", nil
}
