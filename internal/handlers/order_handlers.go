package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dvalle/modastore-golang/internal/checkout"
	"github.com/dvalle/modastore-golang/internal/models"
	"github.com/dvalle/modastore-golang/internal/paypal"
	"github.com/dvalle/modastore-golang/internal/store"
)

//
// --- Order Handlers ---
//

// OrderItemInput is one proposed line item. The price field is whatever the
// client's cart displayed at the time; it is accepted but never used for
// pricing.
type OrderItemInput struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price"` // Advisory only; pricing uses the catalog
}

// ShippingAddressInput defines the delivery fields for checkout.
type ShippingAddressInput struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Address2  *string `json:"address2"`
	City      string  `json:"city" binding:"required"`
	Zip       string  `json:"zip" binding:"required"`
	Country   string  `json:"country" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
}

// CreateOrderInput is the JSON body for POST /v1/orders
type CreateOrderInput struct {
	OrderItems      []OrderItemInput     `json:"orderItems" binding:"required,min=1,dive"`
	Total           float64              `json:"total" binding:"required"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress" binding:"required"`
}

// CreateOrder is the handler for POST /v1/orders
// It recomputes every money amount from the catalog and rejects the order if
// the client's claimed total disagrees.
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Get User ID ---
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	// 2. --- Bind & Validate JSON ---
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. --- Fetch the Referenced Products ---
	ids := make([]int64, 0, len(input.OrderItems))
	lines := make([]checkout.Line, 0, len(input.OrderItems))
	for _, item := range input.OrderItems {
		ids = append(ids, item.ProductID)
		lines = append(lines, checkout.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	catalog, err := h.Store.Products.GetByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	// 4. --- Recompute & Verify Totals ---
	totals, err := checkout.PriceOrder(lines, catalog, h.Config.TaxRate, input.Total)
	if err != nil {
		if errors.Is(err, checkout.ErrProductNotFound) || errors.Is(err, checkout.ErrTotalMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price order"})
		return
	}

	// 5. --- Build the Order with Catalog Snapshots ---
	order := &models.Order{
		UserID:        userID,
		NumberOfItems: totals.NumberOfItems,
		SubTotal:      totals.SubTotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		IsPaid:        false,
		ShippingAddress: models.ShippingAddress{
			FirstName: input.ShippingAddress.FirstName,
			LastName:  input.ShippingAddress.LastName,
			Address:   input.ShippingAddress.Address,
			Address2:  input.ShippingAddress.Address2,
			City:      input.ShippingAddress.City,
			Zip:       input.ShippingAddress.Zip,
			Country:   input.ShippingAddress.Country,
			Phone:     input.ShippingAddress.Phone,
		},
	}

	for _, item := range input.OrderItems {
		product := catalog[item.ProductID]
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Image:     product.FirstImage(),
			Quantity:  item.Quantity,
			UnitPrice: product.Price, // Snapshot of the authoritative price
		})
	}

	// 6. --- Persist ---
	if err := h.Store.Orders.Create(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	// 7. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// PayOrderInput is the JSON body for POST /v1/orders/pay
type PayOrderInput struct {
	TransactionID string `json:"transactionId" binding:"required"`
	OrderID       int64  `json:"orderId" binding:"required"`
}

// PayOrder is the handler for POST /v1/orders/pay
// The storefront calls it after PayPal reports a completed capture. We
// verify the capture on PayPal's side before touching the order.
func (h *Handlers) PayOrder(c *gin.Context) {
	// 1. --- Get IDs ---
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	userRole := c.GetString("userRole")

	var input PayOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Verify the Capture with PayPal ---
	capture, err := h.PayPal.VerifyCapture(input.TransactionID)
	if err != nil {
		if errors.Is(err, paypal.ErrTransactionNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction not recognized by PayPal"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment with provider"})
		return
	}

	if capture.Status != paypal.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment is not completed on PayPal"})
		return
	}

	// 3. --- Fetch the Order & Verify Ownership ---
	order, err := h.Store.Orders.GetByID(input.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if order.UserID != userID && userRole != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order belongs to another user"})
		return
	}

	// 4. --- The Captured Amount Must Match the Order Total ---
	if !decimal.NewFromFloat(capture.Amount).Round(2).Equal(decimal.NewFromFloat(order.Total).Round(2)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paid amount does not match the order total"})
		return
	}

	// 5. --- Mark Paid (Exactly Once) ---
	// The store does this as a conditional update, so a concurrent duplicate
	// capture call cannot double-apply.
	updated, err := h.Store.Orders.MarkPaid(order.ID, input.TransactionID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyPaid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order is already paid"})
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order paid",
		"order":   updated,
	})
}

// GetMyOrders is the handler for GET /v1/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	orders, err := h.Store.Orders.GetByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// GetOrderByID is the handler for GET /v1/orders/:id
// A malformed id is treated the same as an unknown one: not found.
func (h *Handlers) GetOrderByID(c *gin.Context) {
	// 1. --- Get IDs ---
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	userRole := c.GetString("userRole")

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	// 2. --- Fetch Order ---
	order, err := h.Store.Orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	// 3. --- Verify Ownership (admins can see everything) ---
	if order.UserID != userID && userRole != "admin" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
