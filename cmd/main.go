package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/config"
	"github.com/oksasatya/go-notes-sync/internal/container"
	"github.com/oksasatya/go-notes-sync/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-notes-sync/internal/infrastructure/postgres"
	"github.com/oksasatya/go-notes-sync/internal/infrastructure/search"
	"github.com/oksasatya/go-notes-sync/internal/router"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
	"github.com/oksasatya/go-notes-sync/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogFile)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("STORE_DRIVER=memory: users and notes are lost on restart")
		container.SetRepositories(memory.NewUserRepository(), memory.NewNoteRepository())
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.AppName, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		container.SetPGPool(pool)
		container.SetRepositories(pginfra.NewUserRepository(pool), pginfra.NewNoteRepository(pool))
	default:
		logger.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// Redis (rate limiting); nil when REDIS_ADDR is empty
	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	wireOptional(ctx, cfg, logger)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret))

	r := router.NewEngine(router.EngineOptions{
		CORSOrigins:    cfg.CORSOrigins(),
		AccessLog:      cfg.HTTPLogEnabled,
		MetricsEnabled: cfg.MetricsEnabled,
		Logger:         logger,
	})

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg, router.DepsFromContainer())
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	if q := container.GetRabbitQueue(); q != nil {
		q.Close()
	}
	logger.Info("server exited properly")
}

// wireOptional connects search, export and email infrastructure. Each is
// skipped when unconfigured and the feature degrades instead of failing.
func wireOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) {
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	switch {
	case err != nil:
		logger.WithError(err).Warn("elasticsearch disabled")
	case es != nil:
		if err := search.NewNoteIndex(es, cfg.ESNotesIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch disabled; note index unavailable")
		} else {
			container.SetES(es)
		}
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs disabled; note export unavailable")
		} else {
			container.SetGCSUploader(&helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket})
		}
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq disabled; email jobs will not be published")
		} else {
			container.SetRabbitQueue(q)
		}
	}
}
