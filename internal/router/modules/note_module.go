package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-notes-sync/internal/interface/http"
)

// NoteModule: every route is owner-scoped and requires a session.
type NoteModule struct {
	Handler *handlers.NoteHandler
	Gate    Gate
}

func NewNoteModule(h *handlers.NoteHandler, gate Gate) *NoteModule {
	return &NoteModule{Handler: h, Gate: gate}
}

func (m *NoteModule) Register(rg *gin.RouterGroup) {
	auth := m.Gate.Protect(rg, 300)
	auth.GET("/notes", m.Handler.List)
	auth.POST("/notes", m.Handler.Create)
	auth.GET("/notes/search", m.Handler.Search)
	auth.POST("/notes/export", m.Handler.Export)
	auth.PUT("/notes/:id", m.Handler.Update)
	auth.DELETE("/notes/:id", m.Handler.Delete)
}
