package memory

import (
	"context"
	"sync"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// UsedQuestionRepository is a set of served question texts.
type UsedQuestionRepository struct {
	mu    sync.Mutex
	items map[string]entity.UsedQuestion
}

var _ repo.UsedQuestionRepository = (*UsedQuestionRepository)(nil)

func NewUsedQuestionRepository() *UsedQuestionRepository {
	return &UsedQuestionRepository{items: map[string]entity.UsedQuestion{}}
}

func (r *UsedQuestionRepository) Exists(_ context.Context, question string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[question]
	return ok, nil
}

func (r *UsedQuestionRepository) Create(_ context.Context, q *entity.UsedQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[q.Question]; ok {
		return repo.ErrDuplicate
	}
	if q.ID == "" {
		q.ID = helpers.NewID()
	}
	r.items[q.Question] = *q
	return nil
}

func (r *UsedQuestionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
