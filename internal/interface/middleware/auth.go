package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
	"github.com/oksasatya/go-notes-sync/pkg/metrics"
	"github.com/oksasatya/go-notes-sync/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// SessionValidator is satisfied by helpers.JWTManager.
type SessionValidator interface {
	Validate(token string) (string, error)
}

// UserLookup is satisfied by application.AuthService.
type UserLookup interface {
	CurrentUser(ctx context.Context, userID string) (*entity.User, error)
}

// Auth validates the session cookie and re-fetches the user on every request,
// so a deleted account stops working even while its token is unexpired.
// It sets userID and user in the Gin context on success.
func Auth(sessions SessionValidator, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.SessionToken(c)
		if token == "" {
			reject(c)
			return
		}
		uid, err := sessions.Validate(token)
		if err != nil {
			reject(c)
			return
		}
		u, err := users.CurrentUser(c.Request.Context(), uid)
		if err != nil {
			reject(c)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

func reject(c *gin.Context) {
	metrics.SessionRejectionsTotal.Inc()
	response.Error(c, http.StatusUnauthorized, "Not authorized", nil)
}

// CurrentUser returns the user stored by Auth, or nil outside the gate.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
