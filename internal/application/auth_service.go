package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	repo "github.com/oksasatya/go-notes-sync/internal/domain/repository"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
	"github.com/oksasatya/go-notes-sync/pkg/mailer"
	"github.com/oksasatya/go-notes-sync/pkg/metrics"
)

const (
	MinPasswordLength = 6
	MaxUsernameLength = 50
)

type AuthService struct {
	Repo     repo.UserRepository
	Hasher   PasswordHasher
	Sessions SessionIssuer
	// Mail is optional; nil disables email jobs.
	Mail    JobPublisher
	Logger  *logrus.Logger
	AppName string

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, sessions SessionIssuer, mail JobPublisher, logger *logrus.Logger, appName string) *AuthService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &AuthService{
		Repo:     users,
		Hasher:   hasher,
		Sessions: sessions,
		Mail:     mail,
		Logger:   logger,
		AppName:  appName,
	}
}

// Session is the result of a successful register or login.
type Session struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Username *string
	Password *string
}

// NormalizeEmail trims and lowercases so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	switch {
	case username == "":
		return nil, invalid("username is required")
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return nil, invalid(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	case email == "":
		return nil, invalid("email is required")
	case utf8.RuneCountInString(in.Password) < MinPasswordLength:
		return nil, invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Username: username, Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		metrics.ObserveAuth("register", err)
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.issue(u)
	metrics.ObserveAuth("register", err)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	s.publish(ctx, mailer.NewWelcomeJob(s.AppName, u.Username, u.Email))
	return sess, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password, and spends a bcrypt comparison in either case.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		s.Hasher.Compare(s.dummy(), password)
		metrics.ObserveAuth("login", ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Compare(u.Password, password) {
		metrics.ObserveAuth("login", ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	sess, err := s.issue(u)
	metrics.ObserveAuth("login", err)
	return sess, err
}

// CurrentUser resolves the identity behind a validated session.
// A user deleted after the token was issued is ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies only the fields present in the input.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if name == "" {
			return nil, invalid("username cannot be empty")
		}
		if utf8.RuneCountInString(name) > MaxUsernameLength {
			return nil, invalid(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
		}
		if name != u.Username {
			u.Username = name
			changes = append(changes, "username")
		}
	}
	if in.Password != nil {
		if utf8.RuneCountInString(*in.Password) < MinPasswordLength {
			return nil, invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
		}
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hash
		changes = append(changes, "password")
	}

	if len(changes) == 0 {
		return u, nil
	}
	err = s.Repo.Update(ctx, u)
	metrics.ObserveAuth("update_profile", err)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "changes": changes}).Info("profile updated")
	s.publish(ctx, mailer.NewProfileUpdatedJob(s.AppName, u.Username, u.Email, changes))
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (*Session, error) {
	token, exp, err := s.Sessions.Issue(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue session failed")
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// publish is best effort; the request already succeeded.
func (s *AuthService) publish(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("publish email job failed")
	}
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash("not-a-real-password")
		if err != nil {
			s.Logger.WithError(err).Warn("dummy hash failed")
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
