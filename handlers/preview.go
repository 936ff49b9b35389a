package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ke1ruuu/us/internal/links"
	"github.com/ke1ruuu/us/pkg/logger"
)

// PreviewHandler resolves a pasted URL into display metadata plus the
// embed decision the client needs to render a card.
type PreviewHandler struct {
	resolver links.Resolver
}

func NewPreviewHandler(resolver links.Resolver) *PreviewHandler {
	return &PreviewHandler{resolver: resolver}
}

func (h *PreviewHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/link-preview", h.Preview)
}

func (h *PreviewHandler) Preview(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	d, err := h.resolver.Resolve(c.Request.Context(), rawURL)
	if err != nil {
		logger.Warnf("link-preview: resolve %q failed: %v", rawURL, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch preview"})
		return
	}

	dec := links.Decide(d)
	c.JSON(http.StatusOK, gin.H{
		"provider":      d.Provider,
		"title":         d.Title,
		"author_name":   d.AuthorName,
		"thumbnail_url": d.ThumbnailURL,
		"url":           d.SourceURL,
		"embed":         dec,
	})
}
