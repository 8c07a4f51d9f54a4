package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/service"
)

const sessionUserKey = "sessionUserID"

// Session gates protected routes: it validates the access cookie, confirms
// the subject is a live user, and exposes the resolved id for the request.
type Session struct {
	Auth *service.AuthService
}

// Require is the gin middleware enforcing an authenticated session.
func (m *Session) Require(c *gin.Context) {
	accessToken, err := c.Cookie("accessToken")
	if err != nil {
		abort(c, http.StatusUnauthorized, "Access denied, no access token provided")
		return
	}

	userID, err := m.Auth.ResolveSession(c.Request.Context(), accessToken)
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			abort(c, domainErr.Status, domainErr.Message)
			return
		}
		abort(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

// GetSessionUserID returns the authenticated user id for this request.
func GetSessionUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(sessionUserKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": status, "message": message, "data": nil})
}
