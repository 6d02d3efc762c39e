package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
)

// StatsService keeps the per-user daily and per-topic answer counters.
type StatsService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger

	store userStore
}

func NewStatsService(r repo.UserRepository, logger *logrus.Logger, clock Clock) *StatsService {
	return &StatsService{Repo: r, Logger: logger, store: newUserStore(r, clock)}
}

type TopicView struct {
	entity.TopicStat
	AccuracyPercentage int `json:"accuracyPercentage"`
	ErrorPercentage    int `json:"errorPercentage"`
}

type StatsView struct {
	Daily           entity.DailyStats `json:"dailyStats"`
	TotalQuestions  int               `json:"totalQuestions"`
	Topics          []TopicView       `json:"topics"`
	OverallAccuracy int               `json:"overallAccuracy"`
}

// NewStatsView derives the percentages; daily counters from an earlier day read as zero.
func NewStatsView(qs entity.QuestionStats, now time.Time) StatsView {
	daily := qs.Daily.At(now)
	topics := make([]TopicView, 0, len(qs.Topics))
	for _, t := range qs.Topics {
		topics = append(topics, TopicView{
			TopicStat:          t,
			AccuracyPercentage: t.AccuracyPercentage(),
			ErrorPercentage:    t.ErrorPercentage(),
		})
	}
	return StatsView{
		Daily:           daily,
		TotalQuestions:  qs.TotalQuestions,
		Topics:          topics,
		OverallAccuracy: entity.Percent(daily.Correct, daily.Total),
	}
}

// RecordAnswer counts one answered question for userID in topic.
func (s *StatsService) RecordAnswer(ctx context.Context, userID, topic string, isCorrect bool) (StatsView, error) {
	if err := requireID("userId", userID); err != nil {
		return StatsView{}, err
	}
	if strings.TrimSpace(topic) == "" {
		return StatsView{}, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	u, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return StatsView{}, err
	}

	now := s.store.now()
	u.QuestionStats.RecordAnswer(topic, isCorrect, now)
	if err := s.store.save(ctx, u); err != nil {
		return StatsView{}, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "topic": topic, "correct": isCorrect}).Debug("answer recorded")
	}
	return NewStatsView(u.QuestionStats, now), nil
}

func (s *StatsService) GetStats(ctx context.Context, userID string) (StatsView, error) {
	if err := requireID("userId", userID); err != nil {
		return StatsView{}, err
	}
	u, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return StatsView{}, err
	}
	return NewStatsView(u.QuestionStats, s.store.now()), nil
}
