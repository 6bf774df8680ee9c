package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"

	"github.com/dvalle/modastore-golang/internal/models"
	"github.com/dvalle/modastore-golang/internal/store"
)

//
// --- Admin Console Handlers (Admin-Only) ---
//

// GetAdminProducts is the handler for GET /v1/admin/products
func (h *Handlers) GetAdminProducts(c *gin.Context) {
	products, err := h.Store.Products.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// ProductInput is the JSON body for creating or updating a product.
type ProductInput struct {
	Title       string   `json:"title" binding:"required,min=2"`
	Slug        string   `json:"slug"` // Derived from the title when omitted
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	InStock     int      `json:"inStock" binding:"gte=0"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
}

// buildProduct normalizes the input into a model. Slugs always pass through
// slug.Make so they stay unique-comparable and URL-safe.
func buildProduct(input ProductInput) *models.Product {
	source := input.Slug
	if source == "" {
		source = input.Title
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	return &models.Product{
		Title:       input.Title,
		Slug:        slug.Make(source),
		Description: input.Description,
		Price:       input.Price,
		InStock:     input.InStock,
		Images:      images,
		Tags:        tags,
	}
}

// CreateProduct is the handler for POST /v1/admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := buildProduct(input)
	if err := h.Store.Products.Create(product); err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A product with that slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct is the handler for PUT /v1/admin/products/:id
// The admin form always submits the whole product, so this is a full update.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := buildProduct(input)
	product.ID = productID

	if err := h.Store.Products.Update(product); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, store.ErrDuplicateSlug):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A product with that slug already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct is the handler for DELETE /v1/admin/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := h.Store.Products.Delete(productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetAdminOrders is the handler for GET /v1/admin/orders
func (h *Handlers) GetAdminOrders(c *gin.Context) {
	orders, err := h.Store.Orders.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// GetAdminOrderByID is the handler for GET /v1/admin/orders/:id
// Unlike the storefront route there is no ownership check.
func (h *Handlers) GetAdminOrderByID(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	order, err := h.Store.Orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
