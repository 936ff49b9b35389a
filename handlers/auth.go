package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ke1ruuu/us/internal/config"
	"github.com/ke1ruuu/us/internal/sessions"
	"github.com/ke1ruuu/us/internal/users"
	"github.com/ke1ruuu/us/pkg/logger"
)

// AuthHandler serves the login/logout form endpoints. Authentication is a
// username/password check against the two provisioned users; a successful
// login issues an opaque session cookie.
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
}

func NewAuthHandler(cfg *config.Config, usersSvc *users.Service, sessionsSvc *sessions.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: usersSvc, sessionsSvc: sessionsSvc}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Login handles POST /auth/login (form-encoded).
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	u, err := h.usersSvc.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		// uniform response regardless of which check failed
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := h.sessionsSvc.Create(c.Request.Context(), u.ID, h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("session create failed for %s: %v", u.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.Session.TTL.Seconds()))
	c.Redirect(http.StatusFound, "/")
}

// Logout handles POST /auth/logout: the server-side session is removed and
// the cookie cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.Session.CookieName); err == nil && token != "" {
		if err := h.sessionsSvc.Delete(c.Request.Context(), token); err != nil {
			logger.Warnf("session delete failed: %v", err)
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := h.cfg.Server.Environment == "production"
	c.SetCookie(h.cfg.Session.CookieName, value, maxAge, "/", "", secure, true)
}
