package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-notes-sync/internal/application"
	"github.com/oksasatya/go-notes-sync/internal/interface/middleware"
	"github.com/oksasatya/go-notes-sync/pkg/response"
)

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Pointers distinguish an omitted field from an empty one.
type updateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,uname"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

type profileBody struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

// UpdateProfile PUT /api/users/profile (auth required)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.UpdateProfileInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, profileBody{Message: "Profile updated successfully", User: toPublicUser(u)})
}
