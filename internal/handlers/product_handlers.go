package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dvalle/modastore-golang/internal/store"
)

//
// --- Public Catalog Handlers ---
//

// ListProducts is the handler for GET /v1/products
// Optional ?q= filters by title or tags.
func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.Store.Products.List(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// GetProductBySlug is the handler for GET /v1/products/:slug
func (h *Handlers) GetProductBySlug(c *gin.Context) {
	product, err := h.Store.Products.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
