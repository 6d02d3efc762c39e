package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

const (
	defaultQuestionAttempts = 7
	defaultDifficulty       = "Difícil"
)

const questionPrompt = `Gere uma questão de física sobre %s com dificuldade %s. Seja muito criativo e único no enunciado das questões. A resposta deve ser APENAS um objeto JSON válido, sem texto adicional, com a seguinte estrutura exata:

{
  "question": "Texto da pergunta",
  "options": ["Opção 1", "Opção 2", "Opção 3", "Opção 4"],
  "correctAnswer": "Opção correta",
  "explanation": "Explicação detalhada"
}

NÃO inclua qualquer texto fora do objeto JSON.`

// QuestionService asks the completion provider for questions nobody has seen yet.
type QuestionService struct {
	Provider    CompletionProvider
	Used        repo.UsedQuestionRepository
	MaxAttempts int
	Logger      *logrus.Logger

	now Clock
}

func NewQuestionService(p CompletionProvider, used repo.UsedQuestionRepository, maxAttempts int, logger *logrus.Logger, clock Clock) *QuestionService {
	if maxAttempts <= 0 {
		maxAttempts = defaultQuestionAttempts
	}
	return &QuestionService{Provider: p, Used: used, MaxAttempts: maxAttempts, Logger: logger, now: clockOrNow(clock)}
}

func buildPrompt(topic, difficulty string) string {
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	return fmt.Sprintf(questionPrompt, topic, difficulty)
}

// parseQuestion accepts the bare JSON object, optionally wrapped in a markdown code fence.
func parseQuestion(content string) (entity.Question, bool) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	var q entity.Question
	if err := json.Unmarshal([]byte(s), &q); err != nil {
		return entity.Question{}, false
	}
	if strings.TrimSpace(q.Question) == "" {
		return entity.Question{}, false
	}
	return q, true
}

// Generate returns a question whose text has never been served before and records it as used.
func (s *QuestionService) Generate(ctx context.Context, topic, difficulty string) (entity.Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return entity.Question{}, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	prompt := buildPrompt(topic, strings.TrimSpace(difficulty))
	log := logrus.Fields{"topic": topic}

	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		content, err := s.Provider.Complete(ctx, prompt)
		if err != nil {
			helpers.LogError(s.Logger, "completion provider failed", err, log)
			return entity.Question{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
		}
		if strings.TrimSpace(content) == "" {
			return entity.Question{}, fmt.Errorf("%w: empty completion", ErrProviderUnavailable)
		}

		q, ok := parseQuestion(content)
		if !ok {
			if s.Logger != nil {
				s.Logger.WithFields(log).WithField("attempt", attempt).Warn("completion is not a question object")
			}
			continue
		}

		used, err := s.Used.Exists(ctx, q.Question)
		if err != nil {
			return entity.Question{}, fmt.Errorf("%w: check used question: %w", ErrInternal, err)
		}
		if used {
			continue
		}

		err = s.Used.Create(ctx, &entity.UsedQuestion{Question: q.Question, Topic: topic, CreatedAt: s.now()})
		if errors.Is(err, repo.ErrDuplicate) {
			// served concurrently by another request
			continue
		}
		if err != nil {
			return entity.Question{}, fmt.Errorf("%w: record used question: %w", ErrInternal, err)
		}
		if s.Logger != nil {
			s.Logger.WithFields(log).WithField("attempt", attempt).Debug("question generated")
		}
		return q, nil
	}
	return entity.Question{}, fmt.Errorf("%w: after %d attempts", ErrNoNovelQuestion, s.MaxAttempts)
}
