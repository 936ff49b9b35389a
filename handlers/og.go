package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OGHandler renders the share image used for link previews of the app
// itself. SVG keeps it dependency-free and cheap to generate per request.
type OGHandler struct{}

func NewOGHandler() *OGHandler { return &OGHandler{} }

func (h *OGHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/og", h.Image)
}

func (h *OGHandler) Image(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		title = "us"
	}
	subtitle := c.Query("subtitle")
	if subtitle == "" {
		subtitle = "a journal for two"
	}
	title = truncateRunes(title, 80)
	subtitle = truncateRunes(subtitle, 120)

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630" viewBox="0 0 1200 630">
  <rect width="1200" height="630" fill="#18181b"/>
  <rect x="40" y="40" width="1120" height="550" rx="24" fill="#27272a"/>
  <text x="100" y="300" font-family="Georgia, serif" font-size="72" fill="#fafafa">%s</text>
  <text x="100" y="380" font-family="Georgia, serif" font-size="36" fill="#a1a1aa">%s</text>
</svg>`, html.EscapeString(title), html.EscapeString(subtitle))

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

// truncateRunes cuts on rune boundaries so a multi-byte character is never
// split into invalid UTF-8.
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
