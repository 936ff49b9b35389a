package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ke1ruuu/us/internal/compose"
	"github.com/ke1ruuu/us/internal/entries"
	"github.com/ke1ruuu/us/internal/links"
	"github.com/ke1ruuu/us/pkg/logger"
	"github.com/ke1ruuu/us/pkg/middleware"
)

// maxUploadBytes caps a single multipart file read.
const maxUploadBytes = 10 << 20

// EntriesHandler serves the shared feed: list, create (through the
// submission pipeline) and author-scoped delete.
type EntriesHandler struct {
	entriesSvc *entries.Service
	composeSvc *compose.Service
}

func NewEntriesHandler(entriesSvc *entries.Service, composeSvc *compose.Service) *EntriesHandler {
	return &EntriesHandler{entriesSvc: entriesSvc, composeSvc: composeSvc}
}

func (h *EntriesHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/entries", h.List)
	api.POST("/entries", h.Create)
	api.DELETE("/entries/:id", h.Delete)
}

// List returns every entry, newest first, with the author joined in.
func (h *EntriesHandler) List(c *gin.Context) {
	items, err := h.entriesSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}
	if items == nil {
		items = []*entries.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// Create accepts a multipart form: content, type, image_url, link_data
// (JSON-encoded descriptor) and any number of files under "images".
func (h *EntriesHandler) Create(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	in := compose.Input{
		Content:  c.PostForm("content"),
		Type:     c.PostForm("type"),
		ImageURL: c.PostForm("image_url"),
	}

	if raw := c.PostForm("link_data"); raw != "" {
		var d links.Descriptor
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			// a bad descriptor never blocks the entry itself
			logger.Warnf("entries: discarding unparseable link_data: %v", err)
		} else {
			in.Link = &d
		}
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				logger.Warnf("entries: cannot open upload %q: %v", fh.Filename, err)
				continue
			}
			data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
			f.Close()
			if err != nil {
				logger.Warnf("entries: cannot read upload %q: %v", fh.Filename, err)
				continue
			}
			in.Files = append(in.Files, compose.PendingUpload{
				Name:        fh.Filename,
				Data:        data,
				ContentType: fh.Header.Get("Content-Type"),
			})
		}
	}

	id, err := h.composeSvc.CreateEntry(c.Request.Context(), u.ID, in)
	if err != nil {
		if errors.Is(err, compose.ErrEmptySubmission) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
			return
		}
		logger.Errorf("entries: create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Delete removes an entry, but only for its author.
func (h *EntriesHandler) Delete(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if err := h.entriesSvc.Delete(c.Request.Context(), c.Param("id"), u.ID); err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}
	c.Status(http.StatusNoContent)
}
