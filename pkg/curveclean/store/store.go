// Package store provides the key-value store adapter used to read sensor
// series and to read and write boundary-marker coordinates.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNotFound indicates the key holds no value.
var ErrNotFound = errors.New("key not found")

// ErrMalformedValue indicates a stored value is not a finite number.
var ErrMalformedValue = errors.New("malformed value")

// Store is the capability set the figure model needs from the shared store.
// Scalar values and list items are strings, as in redis.
type Store interface {
	// Get returns the scalar stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// SetMany stores every key/value pair. An empty map is a no-op.
	SetMany(ctx context.Context, values map[string]string) error
	// Range returns list items between start and stop inclusive.
	// Negative indexes count from the end, -1 being the last item.
	Range(ctx context.Context, key string, start, stop int64) ([]string, error)
	// Push appends values to the list at key.
	Push(ctx context.Context, key string, values ...string) error
	// Delete removes the keys. Absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Close releases the backend.
	Close() error
}

// GetFloat reads a scalar and parses it as a float.
// A value that does not parse is an error distinct from ErrNotFound.
func GetFloat(ctx context.Context, s Store, key string) (float64, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := parseFinite(raw)
	if err != nil {
		return 0, fmt.Errorf("%w at %s: %v", ErrMalformedValue, key, err)
	}
	return v, nil
}

// Exists reports whether key holds a scalar.
func Exists(ctx context.Context, s Store, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FloatList reads a whole list and parses each item as a float.
func FloatList(ctx context.Context, s Store, key string) ([]float64, error) {
	items, err := s.Range(ctx, key, 0, -1)
	if err != nil {
		return nil, err
	}
	result := make([]float64, 0, len(items))
	for i, item := range items {
		v, err := parseFinite(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d at %s: %v", ErrMalformedValue, i, key, err)
		}
		result = append(result, v)
	}
	return result, nil
}

// parseFinite parses a float, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}

// FormatFloat renders a coordinate the way it is written to the store.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rangeBounds converts redis style inclusive indexes to slice bounds.
// ok is false when the range selects nothing.
func rangeBounds(length, start, stop int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop || start >= length {
		return 0, 0, false
	}
	return start, stop + 1, true
}
