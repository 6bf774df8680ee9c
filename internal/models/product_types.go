package models

import (
	"time"
)

// Product is the model for the 'products' table.
// The order flow reads these prices as the authoritative source; whatever
// the storefront client sends for a line item is never trusted.
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Slug        string  `json:"slug" db:"slug"` // Unique, URL-safe
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	InStock     int     `json:"inStock" db:"stock_quantity"`

	// Media & tags are stored as JSON columns and parsed manually.
	Images []string `json:"images"`
	Tags   []string `json:"tags"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FirstImage returns the lead image for order-item snapshots.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
