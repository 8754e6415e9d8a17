package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/internal/application"
	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/pkg/response"
	"github.com/oksasatya/go-notes-sync/pkg/validation"
)

// PublicUser is the only user shape that leaves the server.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toPublicUser(u *entity.User) PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

type userBody struct {
	User PublicUser `json:"user"`
}

func badPayload(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	response.Error(c, http.StatusBadRequest, validation.Summary(details), details)
}

// writeServiceError maps application errors to status and message in one place.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, verr.Message, nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusBadRequest, "Email is already registered", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "Not authorized", nil)
	case errors.Is(err, application.ErrNoteNotFound):
		response.Error(c, http.StatusNotFound, "Note not found", nil)
	case errors.Is(err, application.ErrExportUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Note export is not available", nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
