package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvalle/modastore-golang/internal/models"
)

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	app := newTestApp(t)
	clientToken := app.addUser(t, 7, "client")

	w := app.do(t, http.MethodGet, "/v1/admin/products", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/v1/admin/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProduct_DerivesSlugFromTitle(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.addUser(t, 1, "admin")

	w := app.do(t, http.MethodPost, "/v1/admin/products", adminToken, map[string]any{
		"title":   "Winter Jacket 2.0",
		"price":   79.90,
		"inStock": 15,
		"images":  []string{"jacket.jpg"},
		"tags":    []string{"winter"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	product := decode(t, w)["product"].(map[string]any)
	assert.Equal(t, "winter-jacket-2-0", product["slug"])
}

func TestCreateProduct_DuplicateSlug(t *testing.T) {
	app := newTestApp(t, models.Product{ID: 1, Title: "Hoodie", Slug: "hoodie", Price: 50})
	adminToken := app.addUser(t, 1, "admin")

	w := app.do(t, http.MethodPost, "/v1/admin/products", adminToken, map[string]any{
		"title": "Hoodie", "price": 45.00, "inStock": 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "slug already exists")
}

func TestUpdateProduct_NotFound(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.addUser(t, 1, "admin")

	w := app.do(t, http.MethodPut, "/v1/admin/products/42", adminToken, map[string]any{
		"title": "Ghost Product", "price": 10.00, "inStock": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	app := newTestApp(t, models.Product{ID: 1, Title: "Hoodie", Slug: "hoodie", Price: 50})
	adminToken := app.addUser(t, 1, "admin")

	w := app.do(t, http.MethodDelete, "/v1/admin/products/1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, "/v1/admin/products/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	app := newTestApp(t,
		models.Product{ID: 1, Title: "Tee", Slug: "tee", Price: 25, InStock: 50},
		models.Product{ID: 2, Title: "Hoodie", Slug: "hoodie", Price: 50, InStock: 0},
		models.Product{ID: 3, Title: "Cap", Slug: "cap", Price: 10, InStock: 4},
	)
	adminToken := app.addUser(t, 1, "admin")
	app.addUser(t, 7, "client")

	// One paid and one unpaid order.
	paidID := seedOrder(t, app, 7, 25.00)
	app.verifier.amount = 25.00
	w := app.do(t, http.MethodPost, "/v1/orders/pay", adminToken, map[string]any{
		"transactionId": "TX-1", "orderId": paidID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	seedOrder(t, app, 7, 50.00)

	w = app.do(t, http.MethodGet, "/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(2), body["numberOfOrders"])
	assert.Equal(t, float64(1), body["paidOrders"])
	assert.Equal(t, float64(1), body["notPaidOrders"])
	assert.Equal(t, float64(1), body["numberOfClients"])
	assert.Equal(t, float64(3), body["numberOfProducts"])
	assert.Equal(t, float64(1), body["productsWithNoInventory"])
	assert.Equal(t, float64(1), body["lowInventory"])
}

func TestGetAdminOrders_ListsEverything(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.addUser(t, 1, "admin")
	seedOrder(t, app, 7, 25.00)
	seedOrder(t, app, 8, 50.00)

	w := app.do(t, http.MethodGet, "/v1/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Len(t, body["orders"], 2)
}
