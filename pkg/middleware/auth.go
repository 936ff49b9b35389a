package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ke1ruuu/us/internal/models"
	"github.com/ke1ruuu/us/internal/sessions"
	"github.com/ke1ruuu/us/internal/users"
	"github.com/ke1ruuu/us/pkg/logger"
)

// ContextUserKey is where SessionAuth stores the authenticated user.
const ContextUserKey = "user"

// SessionAuth validates the session cookie and loads the user into the
// request context. API requests get a 401 JSON response; page requests are
// redirected to the login form. An auth failure is never a silent no-op.
func SessionAuth(cookieName string, sessionsSvc *sessions.Service, usersSvc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			reject(c)
			return
		}
		sess, err := sessionsSvc.Validate(c.Request.Context(), token)
		if err != nil {
			logger.Errorf("session validation failed: %v", err)
			reject(c)
			return
		}
		if sess == nil {
			reject(c)
			return
		}
		u, err := usersSvc.GetByID(c.Request.Context(), sess.UserID)
		if err != nil || u == nil {
			reject(c)
			return
		}
		c.Set(ContextUserKey, u)
		c.Next()
	}
}

func reject(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// CurrentUser fetches the authenticated user placed by SessionAuth.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok2 := v.(*models.User); ok2 {
			return u
		}
	}
	return nil
}
