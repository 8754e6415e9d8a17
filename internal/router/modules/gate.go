package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-notes-sync/internal/interface/middleware"
)

// Gate bundles what protected route groups need: the session check and a
// per-user limiter applied after it.
type Gate struct {
	JWT   middleware.SessionValidator
	Users middleware.UserLookup
	Redis *redis.Client
}

func (g Gate) Protect(rg *gin.RouterGroup, perUserPerMinute int) *gin.RouterGroup {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(g.JWT, g.Users))
	auth.Use(middleware.RateLimit(g.Redis, perUserPerMinute, time.Minute, middleware.KeyByUserID(), nil))
	return auth
}

func (g Gate) PerIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, time.Minute, middleware.KeyByIPAndPath(), nil)
}
