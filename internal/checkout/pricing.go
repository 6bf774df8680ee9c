// Package checkout recomputes order money amounts from authoritative catalog
// prices. Whatever totals the storefront client submits are advisory input
// for cross-checking only; the numbers persisted on an order always come
// from here.
package checkout

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/dvalle/modastore-golang/internal/models"
)

var (
	// ErrProductNotFound means a line item references a product that no
	// longer exists in the catalog.
	ErrProductNotFound = errors.New("verify your cart again, a product no longer exists")

	// ErrTotalMismatch means the client-submitted total disagrees with the
	// server-side recomputation.
	ErrTotalMismatch = errors.New("order total does not add up, verify with the administrator")
)

// Line is one proposed order line: a product reference and a quantity.
// No client-side price belongs here.
type Line struct {
	ProductID int64
	Quantity  int
}

// Totals are the recomputed money amounts, rounded to currency precision.
type Totals struct {
	NumberOfItems int
	SubTotal      float64
	Tax           float64
	Total         float64
}

// PriceOrder recomputes subtotal, tax and total for the proposed lines using
// the catalog prices, then compares the result against the client-claimed
// total. All arithmetic runs in decimal and is rounded to two places before
// the comparison, so 110 and 110.00 agree and 110.01 does not.
func PriceOrder(lines []Line, catalog map[int64]models.Product, taxRate float64, claimedTotal float64) (Totals, error) {
	subTotal := decimal.Zero
	numberOfItems := 0

	for _, line := range lines {
		product, ok := catalog[line.ProductID]
		if !ok {
			return Totals{}, ErrProductNotFound
		}

		price := decimal.NewFromFloat(product.Price)
		subTotal = subTotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		numberOfItems += line.Quantity
	}

	tax := subTotal.Mul(decimal.NewFromFloat(taxRate))
	total := subTotal.Add(tax).Round(2)

	if !total.Equal(decimal.NewFromFloat(claimedTotal).Round(2)) {
		return Totals{}, ErrTotalMismatch
	}

	return Totals{
		NumberOfItems: numberOfItems,
		SubTotal:      subTotal.Round(2).InexactFloat64(),
		Tax:           tax.Round(2).InexactFloat64(),
		Total:         total.InexactFloat64(),
	}, nil
}
