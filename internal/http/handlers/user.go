package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
	pageSize    int
}

func NewUserHandler(log *logger.Logger, userService services.UserService, pageSize int) *UserHandler {
	return &UserHandler{
		log:         log.With("handler", "UserHandler"),
		userService: userService,
		pageSize:    pageSize,
	}
}

// GET /api/auth/profile/
func (h *UserHandler) GetProfile(c *gin.Context) {
	me, err := h.userService.GetMe(dbcFrom(c))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, services.NewUserView(me))
}

// PATCH|PUT /api/auth/profile/
// Both verbs apply a partial update; omitted fields are left alone.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var in services.ProfileUpdate
	if !response.BindJSON(c, &in) {
		return
	}
	u, err := h.userService.UpdateProfile(dbcFrom(c), in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, services.NewUserView(u))
}

// POST /api/auth/profile/avatar/
// multipart: file
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	raw, err := readUpload(c)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	u, err := h.userService.UploadAvatarImage(dbcFrom(c), raw)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, services.NewUserView(u))
}

// POST /api/auth/change-password/
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var in services.PasswordChange
	if !response.BindJSON(c, &in) {
		return
	}
	if err := h.userService.ChangePassword(dbcFrom(c), in); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "Password changed successfully")
}

// GET /api/auth/users/
func (h *UserHandler) ListUsers(c *gin.Context) {
	p, err := pageParams(c, h.pageSize)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	page, err := h.userService.ListUsers(dbcFrom(c), p)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, response.MapPage(page, services.NewUserView))
}
