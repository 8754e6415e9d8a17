package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-notes-sync/internal/interface/http"
)

// AuthModule
// Public: POST /api/auth/register, /api/auth/login, /api/auth/logout
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    Gate
}

func NewAuthModule(h *handlers.AuthHandler, gate Gate) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Gate.PerIP(10), m.Handler.Register)
	rg.POST("/auth/login", m.Gate.PerIP(10), m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)

	auth := m.Gate.Protect(rg, 120)
	auth.GET("/auth/me", m.Handler.Me)
}
