package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/modastore-golang/internal/models"
)

func testCatalog() map[int64]models.Product {
	return map[int64]models.Product{
		1: {ID: 1, Title: "Cotton Tee", Price: 25.00},
		2: {ID: 2, Title: "Hoodie", Price: 50.00},
		3: {ID: 3, Title: "Cap", Price: 0.10},
	}
}

func TestPriceOrder_RecomputesFromCatalogPrices(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 2}, // 50.00
		{ProductID: 2, Quantity: 1}, // 50.00
	}

	totals, err := PriceOrder(lines, testCatalog(), 0.1, 110.00)
	require.NoError(t, err)

	assert.Equal(t, 3, totals.NumberOfItems)
	assert.Equal(t, 100.00, totals.SubTotal)
	assert.Equal(t, 10.00, totals.Tax)
	assert.Equal(t, 110.00, totals.Total)
}

func TestPriceOrder_TotalMismatch(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	// Subtotal 100 at 10% tax must be exactly 110.00; a cent off fails.
	_, err := PriceOrder(lines, testCatalog(), 0.1, 110.01)
	assert.ErrorIs(t, err, ErrTotalMismatch)
}

func TestPriceOrder_AcceptsEquivalentRoundedTotal(t *testing.T) {
	lines := []Line{{ProductID: 1, Quantity: 2}}

	// 50 * 1.0 = 50; the client may submit 50 or 50.00.
	_, err := PriceOrder(lines, testCatalog(), 0, 50)
	assert.NoError(t, err)
}

func TestPriceOrder_UnknownProduct(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}

	_, err := PriceOrder(lines, testCatalog(), 0.1, 27.50)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPriceOrder_RoundsToCurrencyPrecision(t *testing.T) {
	// 3 * 0.10 = 0.30, 15% tax = 0.045 -> total 0.345 rounds to 0.35 (bankers
	// rounding is not used; decimal.Round does half away from zero).
	lines := []Line{{ProductID: 3, Quantity: 3}}

	totals, err := PriceOrder(lines, testCatalog(), 0.15, 0.35)
	require.NoError(t, err)
	assert.Equal(t, 0.35, totals.Total)
	assert.Equal(t, 0.30, totals.SubTotal)
	assert.Equal(t, 0.05, totals.Tax)
}

func TestPriceOrder_IgnoresClientPrices(t *testing.T) {
	// The Line type carries no price field at all; this test pins the
	// subtotal to the catalog regardless of what the handler was sent.
	lines := []Line{{ProductID: 2, Quantity: 2}}

	totals, err := PriceOrder(lines, testCatalog(), 0, 100.00)
	require.NoError(t, err)
	assert.Equal(t, 100.00, totals.SubTotal)
}

func TestPriceOrder_EmptyLines(t *testing.T) {
	totals, err := PriceOrder(nil, testCatalog(), 0.1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.NumberOfItems)
	assert.Equal(t, 0.00, totals.Total)
}
