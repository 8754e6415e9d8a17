package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-notes-sync/internal/interface/http"
)

// UserModule
// Protected: PUT /api/users/profile
type UserModule struct {
	Handler *handlers.UserHandler
	Gate    Gate
}

func NewUserModule(h *handlers.UserHandler, gate Gate) *UserModule {
	return &UserModule{Handler: h, Gate: gate}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := m.Gate.Protect(rg, 30)
	auth.PUT("/users/profile", m.Handler.UpdateProfile)
}
