package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartwise/grocery-service/internal/catalog"
)

// maxFlyerUploadBytes caps multipart flyer uploads.
const maxFlyerUploadBytes = 10 << 20

// CreateFlyerRequest records a flyer by URL
type CreateFlyerRequest struct {
	StoreID  int64  `json:"store_id" binding:"required"`
	ImageURL string `json:"image_url" binding:"required"`
}

// CreateFlyer stores a flyer image URL for a store
// POST /flyers
func (h *Handlers) CreateFlyer(c *gin.Context) {
	var req CreateFlyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: store_id, image_url"})
		return
	}

	if _, err := h.catalog.GetStore(c.Request.Context(), req.StoreID); err != nil {
		if errors.Is(err, catalog.ErrStoreNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Store does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add flyer"})
		return
	}

	id, err := h.catalog.InsertFlyer(c.Request.Context(), req.StoreID, req.ImageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add flyer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Flyer added successfully"})
}

// ListStoreFlyers returns all flyers for a store
// GET /stores/:storeId/flyers
func (h *Handlers) ListStoreFlyers(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	if _, err := h.catalog.GetStore(c.Request.Context(), storeID); err != nil {
		if errors.Is(err, catalog.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flyers"})
		return
	}

	flyers, err := h.catalog.StoreFlyers(c.Request.Context(), storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flyers"})
		return
	}
	if flyers == nil {
		flyers = []catalog.Flyer{}
	}
	c.JSON(http.StatusOK, flyers)
}

// UploadFlyerImage accepts a multipart flyer image, stores it on the configured
// backend, and records the resulting URL as a flyer for the store
// POST /stores/:storeId/flyers/image
func (h *Handlers) UploadFlyerImage(c *gin.Context) {
	storeID, ok := storeIDParam(c)
	if !ok {
		return
	}

	if _, err := h.catalog.GetStore(c.Request.Context(), storeID); err != nil {
		if errors.Is(err, catalog.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload flyer"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	if fileHeader.Size > maxFlyerUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	contentType := contentTypeForExt(ext)
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxFlyerUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	key := fmt.Sprintf("flyers/%d/%d%s", storeID, time.Now().UnixNano(), ext)
	if err := h.storage.Put(c.Request.Context(), key, content, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	imageURL := h.storage.URL(key)
	id, err := h.catalog.InsertFlyer(c.Request.Context(), storeID, imageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record flyer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "image_url": imageURL})
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}
