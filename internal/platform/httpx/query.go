package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// QueryDate parses an optional YYYY-MM-DD query parameter. A missing value
// yields the zero time.
func QueryDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: %w", key, raw, shared.ErrValidation)
	}
	return t, nil
}

// QueryInt64Ptr parses an optional integer query parameter.
func QueryInt64Ptr(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, raw, shared.ErrValidation)
	}
	return &v, nil
}

// QueryInt parses an optional integer query parameter with a fallback.
func QueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, shared.ErrValidation)
	}
	return v, nil
}

// PathID parses a positive integer path segment.
func PathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", raw, shared.ErrValidation)
	}
	return id, nil
}
