package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/grocery-service/internal/catalog"
)

// CreateProductRequest is the payload for a crowdsourced price submission
type CreateProductRequest struct {
	Name    string   `json:"name" binding:"required"`
	StoreID int64    `json:"store_id" binding:"required"`
	Price   *float64 `json:"price" binding:"required"`
}

// CreateProduct records a single product price against an existing store
// POST /products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: name, store_id, price"})
		return
	}
	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}

	id, err := h.catalog.InsertProduct(c.Request.Context(), req.Name, req.StoreID, *req.Price)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Store does not exist"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Product added successfully"})
}
