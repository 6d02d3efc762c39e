package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

const defaultSearchSize = 10

type UserHandler struct {
	Users  *application.UserService
	Stats  *application.StatsService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, stats *application.StatsService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Stats: stats, Logger: logger}
}

type updateNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// UploadProfileImage PUT /api/users/upload-profile (multipart: file, userId)
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid_input", map[string]string{"file": "no image uploaded"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid_input", map[string]string{"file": "unreadable upload"})
		return
	}
	defer func() { _ = f.Close() }()

	imageURL, err := h.Users.UploadProfileImage(c.Request.Context(), c.PostForm("userId"), application.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profileImage": imageURL}, "profile image updated", nil)
}

// GetStats GET /api/users/stats/:userId
func (h *UserHandler) GetStats(c *gin.Context) {
	view, err := h.Stats.GetStats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "stats", nil)
}

// UpdateName PUT /api/users/:userId
func (h *UserHandler) UpdateName(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Users.UpdateName(c.Request.Context(), c.Param("userId"), req.Name)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSearchSize)))
	if err != nil || size <= 0 {
		size = defaultSearchSize
	}
	users, err := h.Users.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", map[string]any{"count": len(users)})
}
