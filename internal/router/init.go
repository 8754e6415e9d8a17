package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/internal/application"
	"github.com/oksasatya/go-notes-sync/internal/container"
	repo "github.com/oksasatya/go-notes-sync/internal/domain/repository"
	"github.com/oksasatya/go-notes-sync/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-notes-sync/internal/interface/http"
	"github.com/oksasatya/go-notes-sync/internal/router/modules"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
)

// Deps is everything the HTTP modules need. Optional collaborators
// (Mail, Index, Exports, Redis) may be left nil.
type Deps struct {
	Users   repo.UserRepository
	Notes   repo.NoteRepository
	JWT     *helpers.JWTManager
	Hasher  application.PasswordHasher
	Mail    application.JobPublisher
	Index   application.NoteIndex
	Exports application.ObjectUploader
	Redis   *redis.Client
	Logger  *logrus.Logger

	AppName        string
	CookieDomain   string
	MetricsEnabled bool
}

// DepsFromContainer reads the singletons set up in main. Nil pointers are
// kept out of the interface fields so nil checks in services hold.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	d := Deps{
		Users:          container.GetUserRepo(),
		Notes:          container.GetNoteRepo(),
		JWT:            container.GetJWT(),
		Hasher:         helpers.NewBcryptHasher(cfg.BcryptCost),
		Redis:          container.GetRedis(),
		Logger:         container.GetLogger(),
		AppName:        cfg.AppName,
		CookieDomain:   cfg.CookieDomain,
		MetricsEnabled: cfg.MetricsEnabled,
	}
	if q := container.GetRabbitQueue(); q != nil && cfg.MailSendEnabled {
		d.Mail = q
	}
	if es := container.GetES(); es != nil {
		d.Index = search.NewNoteIndex(es, cfg.ESNotesIndex)
	}
	if u := container.GetGCSUploader(); u != nil {
		d.Exports = u
	}
	return d
}

// InitModules builds services and handlers and registers every module.
func InitModules(r *Registry, d Deps) {
	authSvc := application.NewAuthService(d.Users, d.Hasher, d.JWT, d.Mail, d.Logger, d.AppName)
	noteSvc := application.NewNoteService(d.Notes, d.Index, d.Exports, d.Logger)
	gate := modules.Gate{JWT: d.JWT, Users: authSvc, Redis: d.Redis}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, d.Logger, d.CookieDomain), gate))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(authSvc, d.Logger), gate))
	r.Add(modules.NewNoteModule(handlers.NewNoteHandler(noteSvc, d.Logger), gate))
	r.AddRoot(modules.NewDebugModule(d.MetricsEnabled))
}
