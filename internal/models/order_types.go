package models

import (
	"time"
)

// ShippingAddress holds the delivery fields stored on the order row.
type ShippingAddress struct {
	FirstName string  `json:"firstName" db:"first_name"`
	LastName  string  `json:"lastName" db:"last_name"`
	Address   string  `json:"address" db:"address"`
	Address2  *string `json:"address2,omitempty" db:"address_2"`
	City      string  `json:"city" db:"city"`
	Zip       string  `json:"zip" db:"zip"`
	Country   string  `json:"country" db:"country"`
	Phone     string  `json:"phone" db:"phone"`
}

// Order is the model for the 'orders' table.
// An order is created once at checkout and mutated exactly once afterwards:
// the payment capture flips IsPaid and attaches the provider transaction id.
type Order struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"userId" db:"user_id"`

	NumberOfItems int     `json:"numberOfItems" db:"number_of_items"`
	SubTotal      float64 `json:"subTotal" db:"sub_total"`
	Tax           float64 `json:"tax" db:"tax"`
	Total         float64 `json:"total" db:"total"`

	IsPaid        bool       `json:"isPaid" db:"is_paid"`
	TransactionID *string    `json:"transactionId,omitempty" db:"transaction_id"`
	PaidAt        *time.Time `json:"paidAt,omitempty" db:"paid_at"`

	ShippingAddress ShippingAddress `json:"shippingAddress"`

	// Joined rows, populated manually
	Items []OrderItem `json:"orderItems,omitempty" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table.
// Title, image and unit price are snapshots taken from the catalog at
// order-creation time so later catalog edits don't rewrite order history.
type OrderItem struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"orderId" db:"order_id"`
	ProductID int64   `json:"productId" db:"product_id"`
	Title     string  `json:"title" db:"title"`
	Image     string  `json:"image" db:"image"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unitPrice" db:"unit_price"`
}

// AdminOrder is an order row joined with its buyer, for the admin order list.
type AdminOrder struct {
	Order
	UserName  string `json:"userName" db:"full_name"`
	UserEmail string `json:"userEmail" db:"email"`
}
