package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/internal/interface/middleware"
)

type EngineOptions struct {
	CORSOrigins    []string
	AccessLog      bool
	MetricsEnabled bool
	Logger         *logrus.Logger
}

// NewEngine builds the gin engine with the global middleware chain.
func NewEngine(opts EngineOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestIDMiddleware())
	if opts.MetricsEnabled {
		r.Use(middleware.HTTPMetrics())
	}
	if opts.AccessLog && opts.Logger != nil {
		r.Use(middleware.AccessLog(opts.Logger))
	}
	// cors.New panics on an empty origin list
	if len(opts.CORSOrigins) == 0 {
		return r
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return r
}
