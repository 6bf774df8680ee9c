package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Admin Dashboard ---
//

// DashboardSummary is the KPI payload the admin dashboard polls.
type DashboardSummary struct {
	NumberOfOrders          int `json:"numberOfOrders"`
	PaidOrders              int `json:"paidOrders"`
	NotPaidOrders           int `json:"notPaidOrders"`
	NumberOfClients         int `json:"numberOfClients"`
	NumberOfProducts        int `json:"numberOfProducts"`
	ProductsWithNoInventory int `json:"productsWithNoInventory"`
	LowInventory            int `json:"lowInventory"`
}

// GetDashboardSummary is the handler for GET /v1/admin/dashboard
func (h *Handlers) GetDashboardSummary(c *gin.Context) {
	summary := DashboardSummary{}

	// 1. Order Counts
	totalOrders, paidOrders, err := h.Store.Orders.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}
	summary.NumberOfOrders = totalOrders
	summary.PaidOrders = paidOrders
	summary.NotPaidOrders = totalOrders - paidOrders

	// 2. Client Count
	summary.NumberOfClients, err = h.Store.Users.CountClients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count clients"})
		return
	}

	// 3. Inventory Counts
	totalProducts, noStock, lowStock, err := h.Store.Products.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}
	summary.NumberOfProducts = totalProducts
	summary.ProductsWithNoInventory = noStock
	summary.LowInventory = lowStock

	c.JSON(http.StatusOK, summary)
}
