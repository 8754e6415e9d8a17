package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/config"
	repo "github.com/oksasatya/go-notes-sync/internal/domain/repository"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons. Optional
// infrastructure (redis, ES, GCS, RabbitMQ) stays nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsUploader *helpers.GCSUploader

	jwtManager *helpers.JWTManager

	rabbitQueue *helpers.RabbitQueue
	esClient    *elasticsearch.Client

	userRepo repo.UserRepository
	noteRepo repo.NoteRepository
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetGCSUploader(u *helpers.GCSUploader) { gcsUploader = u }
func GetGCSUploader() *helpers.GCSUploader  { return gcsUploader }
func SetRabbitQueue(q *helpers.RabbitQueue) { rabbitQueue = q }
func GetRabbitQueue() *helpers.RabbitQueue  { return rabbitQueue }
func SetES(c *elasticsearch.Client)         { esClient = c }
func GetES() *elasticsearch.Client          { return esClient }

// SetRepositories installs the store selected by STORE_DRIVER.
func SetRepositories(users repo.UserRepository, notes repo.NoteRepository) {
	userRepo, noteRepo = users, notes
}
func GetUserRepo() repo.UserRepository { return userRepo }
func GetNoteRepo() repo.NoteRepository { return noteRepo }
