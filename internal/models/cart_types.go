package models

// CartLine is a cart item joined with live catalog data. Prices always come
// from the products table, not from anything stored in the cart.
type CartLine struct {
	ProductID int64   `json:"productId" db:"product_id"`
	Title     string  `json:"title" db:"title"`
	Slug      string  `json:"slug" db:"slug"`
	Image     string  `json:"image" db:"-"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
	InStock   int     `json:"inStock" db:"stock_quantity"`
}
