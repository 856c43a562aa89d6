// Package listing is the product listing view: it loads the catalog once per
// mount, filters it by name and gates purchases behind a session.
package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const PlaceholderImage = "/placeholder.svg"

// ProductID is the catalog identifier. The backend may send it as a JSON
// string or integer; both decode to the same textual form.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("product id: %w", ErrMalformed)
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return fmt.Errorf("product id is empty: %w", ErrMalformed)
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", ErrMalformed)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("product id %s is not an integer: %w", n, ErrMalformed)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string { return string(id) }

type Product struct {
	ID          ProductID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Image       string          `json:"image,omitempty"`
}

// ImageURL falls back to the placeholder asset when the product has no image.
func (p Product) ImageURL() string {
	if strings.TrimSpace(p.Image) == "" {
		return PlaceholderImage
	}
	return p.Image
}

// Validate rejects records that do not satisfy the catalog invariants.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product without id: %w", ErrMalformed)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %s has negative price: %w", p.ID, ErrMalformed)
	}
	if p.Stock < 0 {
		return fmt.Errorf("product %s has negative stock: %w", p.ID, ErrMalformed)
	}
	return nil
}
