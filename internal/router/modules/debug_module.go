package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/go-notes-sync/internal/interface/middleware"
)

// DebugModule serves /healthz and, when enabled, Prometheus /metrics to
// private networks only.
type DebugModule struct {
	Metrics bool
}

func NewDebugModule(metrics bool) *DebugModule { return &DebugModule{Metrics: metrics} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m.Metrics {
		rg.GET("/metrics", middleware.RequireAllowed(middleware.AllowPrivateIP()), gin.WrapH(promhttp.Handler()))
	}
}
