package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

type FriendHandler struct {
	Friends *application.FriendService
	Logger  *logrus.Logger
}

func NewFriendHandler(friends *application.FriendService, logger *logrus.Logger) *FriendHandler {
	return &FriendHandler{Friends: friends, Logger: logger}
}

// Ids are validated by FriendService.
type sendRequestRequest struct {
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
}

type requestDecision struct {
	UserID    string `json:"userId"`
	RequestID string `json:"requestId"`
}

// SendRequest POST /api/friends/send-request
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req sendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Friends.SendRequest(c.Request.Context(), req.SenderID, req.RecipientID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": p}, "friend request sent", nil)
}

// AcceptRequest POST /api/friends/accept-request
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	var req requestDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Friends.AcceptRequest(c.Request.Context(), req.UserID, req.RequestID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"friend": p}, "friend request accepted", nil)
}

// RejectRequest POST /api/friends/reject-request
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	var req requestDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Friends.RejectRequest(c.Request.Context(), req.UserID, req.RequestID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "friend request rejected", nil)
}

// List GET /api/friends/list/:userId
func (h *FriendHandler) List(c *gin.Context) {
	out, err := h.Friends.ListFriendsAndRequests(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "friends", nil)
}

// Search GET /api/friends/search?id=
func (h *FriendHandler) Search(c *gin.Context) {
	p, err := h.Friends.SearchUserByID(c.Request.Context(), c.Query("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, []entity.PublicProfile{p}, "users", nil)
}

// GetUser GET /api/friends/user/:id
func (h *FriendHandler) GetUser(c *gin.Context) {
	p, err := h.Friends.SearchUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "user", nil)
}
