package ops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an update or delete names an id that is not
// in the collection. Nothing is written in that case.
var ErrNotFound = errors.New("not found")

// NotFoundError identifies the missing record.
type NotFoundError struct {
	Kind string // "category" or "product"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// ValidationError is a field-level input error. The operation that
// returned it wrote nothing.
type ValidationError struct {
	Field   string // "name", "price", "email", "password"
	Message string // shown next to the field
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateName checks that a name is not empty or whitespace-only.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	return nil
}

// ValidatePrice checks that a price is present. When strict is set the
// price must also be a non-negative decimal number.
func ValidatePrice(price string, strict bool) error {
	price = strings.TrimSpace(price)
	if price == "" {
		return &ValidationError{Field: "price", Message: "must not be empty"}
	}
	if !strict {
		return nil
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return &ValidationError{Field: "price", Message: fmt.Sprintf("%q is not a number", price)}
	}
	if d.IsNegative() {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	return nil
}

// normalizeImage treats an empty URI as no image.
func normalizeImage(image *string) *string {
	if image == nil || strings.TrimSpace(*image) == "" {
		return nil
	}
	v := strings.TrimSpace(*image)
	return &v
}
