package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchStoreResult is one store's offer for a searched item
type SearchStoreResult struct {
	Store string  `json:"store"`
	Price float64 `json:"price"`
	Zip   string  `json:"zip"`
}

// SearchResult groups the offers found for one searched item
type SearchResult struct {
	Name   string              `json:"name"`
	Stores []SearchStoreResult `json:"stores"`
}

// SearchProducts compares prices for a comma-separated list of items
// GET /search?query=milk,eggs
func (h *Handlers) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No search query provided"})
		return
	}

	items := strings.Split(query, ",")
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item))
		if name != "" {
			normalized = append(normalized, name)
		}
	}

	offers, err := h.catalog.FindOffers(c.Request.Context(), normalized)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}

	// One entry per requested item, empty store list when nothing matched.
	results := make([]SearchResult, 0, len(normalized))
	for _, name := range normalized {
		result := SearchResult{Name: name, Stores: []SearchStoreResult{}}
		for _, o := range offers {
			if strings.ToLower(o.ItemName) == name {
				result.Stores = append(result.Stores, SearchStoreResult{
					Store: o.StoreName,
					Price: o.Price,
					Zip:   o.StoreZip,
				})
			}
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, results)
}
