package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidID is returned when an ID cannot be parsed.
	ErrInvalidID = errors.New("invalid ID format")

	// legacyIDRegex matches seed IDs ("1".."11") and the short random
	// tokens older installs generated.
	legacyIDRegex = regexp.MustCompile(`^[0-9a-z]{1,12}$`)
)

// NewID returns a new record ID.
// UUIDv7 values are unique without a registry and sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the random source fails.
		return uuid.NewString()
	}
	return id.String()
}

// ValidateID checks that s is a UUID or a legacy short ID.
// Returns ErrInvalidID if the format is invalid.
func ValidateID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%w: empty ID", ErrInvalidID)
	}
	if _, err := uuid.Parse(s); err == nil {
		return nil
	}
	if legacyIDRegex.MatchString(s) {
		return nil
	}
	return fmt.Errorf("%w: %q is not a valid ID", ErrInvalidID, s)
}

// NormalizeID returns the canonical lowercase form of an ID.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if u, err := uuid.Parse(s); err == nil {
		return u.String()
	}
	return strings.ToLower(s)
}

// ShortID returns a display form of an ID: legacy IDs as-is and the last
// 8 hex digits of a UUID, which carry the random part of a v7 ID.
func ShortID(id string) string {
	if _, err := uuid.Parse(id); err != nil {
		return id
	}
	compact := strings.ReplaceAll(id, "-", "")
	return compact[len(compact)-8:]
}

// MatchID reports whether query identifies id, either exactly or as the
// short form printed by list commands.
func MatchID(id, query string) bool {
	query = NormalizeID(query)
	if query == "" {
		return false
	}
	if NormalizeID(id) == query {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil && len(query) >= 6 && strings.HasSuffix(strings.ReplaceAll(id, "-", ""), query)
}
