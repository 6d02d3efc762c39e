package repository

import (
	"context"
	"errors"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
// Save is create-or-update by ID; Create assigns ID and timestamps.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailToken(ctx context.Context, token string) (*entity.User, error)
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)
	GetPublicProfiles(ctx context.Context, ids []string) (map[string]entity.PublicProfile, error)
	Save(ctx context.Context, u *entity.User) error
}

// UsedQuestionRepository is the flat set of question texts already served.
type UsedQuestionRepository interface {
	Exists(ctx context.Context, question string) (bool, error)
	Create(ctx context.Context, q *entity.UsedQuestion) error
}
