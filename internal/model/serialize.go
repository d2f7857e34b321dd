package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a stored collection cannot be decoded.
var ErrMalformed = errors.New("malformed collection")

// Record is the set of types stored as whole collections.
type Record interface {
	Category | Product
}

// EncodeCollection serializes a collection as a JSON array.
// A nil collection encodes as [] so it is never confused with an absent key.
func EncodeCollection[T Record](records []T) (string, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}
	return string(data), nil
}

// DecodeCollection parses a JSON array of records.
// Unknown fields are ignored; anything that is not an array is malformed.
func DecodeCollection[T Record](raw string) ([]T, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected JSON array", ErrMalformed)
	}

	var records []T
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// CloneCategories returns a deep copy so callers can mutate freely.
func CloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Image = cloneString(c.Image)
	}
	return out
}

// CloneProducts returns a deep copy so callers can mutate freely.
func CloneProducts(in []Product) []Product {
	if in == nil {
		return nil
	}
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Image = cloneString(p.Image)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
