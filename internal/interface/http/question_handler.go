package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

type QuestionHandler struct {
	Questions *application.QuestionService
	Stats     *application.StatsService
	Logger    *logrus.Logger
}

func NewQuestionHandler(questions *application.QuestionService, stats *application.StatsService, logger *logrus.Logger) *QuestionHandler {
	return &QuestionHandler{Questions: questions, Stats: stats, Logger: logger}
}

type generateRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
}

type updateStatsRequest struct {
	UserID    string `json:"userId"`
	Topic     string `json:"topic"`
	IsCorrect *bool  `json:"isCorrect" binding:"required"`
}

// Generate POST /api/questions/generate
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	q, err := h.Questions.Generate(c.Request.Context(), req.Topic, req.Difficulty)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, q, "question generated", nil)
}

// UpdateStats POST /api/questions/update-stats
func (h *QuestionHandler) UpdateStats(c *gin.Context) {
	var req updateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	view, err := h.Stats.RecordAnswer(c.Request.Context(), req.UserID, req.Topic, *req.IsCorrect)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": view}, "stats updated", nil)
}
