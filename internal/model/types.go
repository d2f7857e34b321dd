// Package model defines the core data structures for storefront.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Collection keys in the key-value store.
const (
	KeyLogin      = "login"
	KeyCategories = "categories"
	KeyProducts   = "products"
)

// Category is a named group of products shown on the home screen.
type Category struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Image *string `json:"image" yaml:"image,omitempty"`
}

// Product belongs to a category by foreign key only. Nothing enforces that
// CategoryID references an existing category.
type Product struct {
	ID         string  `json:"id" yaml:"id"`
	CategoryID string  `json:"categoryId" yaml:"category_id"`
	Name       string  `json:"name" yaml:"name"`
	Price      string  `json:"price" yaml:"price"`
	Image      *string `json:"image" yaml:"image,omitempty"`
}

// ImageURI returns the image reference or "" when none is set.
func (c *Category) ImageURI() string {
	if c.Image == nil {
		return ""
	}
	return *c.Image
}

// ImageURI returns the image reference or "" when none is set.
func (p *Product) ImageURI() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

// PriceValue parses the price as a decimal.
// Prices are stored as entered, so this can fail for legacy records.
func (p *Product) PriceValue() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(p.Price))
}

// DisplayPrice returns the price with two decimal places when it parses,
// otherwise the raw stored string.
func (p *Product) DisplayPrice() string {
	d, err := p.PriceValue()
	if err != nil {
		return p.Price
	}
	return d.StringFixed(2)
}

// StringPtr returns a pointer to s, or nil when s is empty.
// Used for nullable image references.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
