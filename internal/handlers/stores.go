package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/grocery-service/internal/catalog"
)

// StoreDetailResponse is a store with its product list
type StoreDetailResponse struct {
	StoreName string            `json:"store_name"`
	Products  []catalog.Product `json:"products"`
}

// ListStores returns all stores
// GET /stores
func (h *Handlers) ListStores(c *gin.Context) {
	stores, err := h.catalog.ListStores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stores"})
		return
	}
	if stores == nil {
		stores = []catalog.Store{}
	}
	c.JSON(http.StatusOK, stores)
}

// GetStore returns a store and its products
// GET /stores/:storeId
func (h *Handlers) GetStore(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	store, err := h.catalog.GetStore(c.Request.Context(), storeID)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	products, err := h.catalog.StoreProducts(c.Request.Context(), storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	c.JSON(http.StatusOK, StoreDetailResponse{StoreName: store.Name, Products: products})
}

func storeIDParam(c *gin.Context) (int64, bool) {
	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return 0, false
	}
	return storeID, true
}
