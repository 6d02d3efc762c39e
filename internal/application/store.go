package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// Clock returns the current time. Services take one so tests can pin the date.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// userStore is the read-modify-write path shared by every service that
// mutates a user record.
type userStore struct {
	repo repo.UserRepository
	now  Clock
}

func newUserStore(r repo.UserRepository, c Clock) userStore {
	return userStore{repo: r, now: clockOrNow(c)}
}

func requireID(name, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	if !helpers.IsValidID(id) {
		return fmt.Errorf("%w: %s %q is malformed", ErrInvalidInput, name, id)
	}
	return nil
}

func (s userStore) load(ctx context.Context, what, id string) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
		}
		return nil, fmt.Errorf("%w: load %s: %w", ErrInternal, what, err)
	}
	return u, nil
}

// save persists u after the daily rollover guard so stale daily counters
// never survive into a new day, whichever operation writes the record.
func (s userStore) save(ctx context.Context, u *entity.User) error {
	u.QuestionStats.RollDaily(s.now())
	if err := s.repo.Save(ctx, u); err != nil {
		return fmt.Errorf("%w: save user %s: %w", ErrInternal, u.ID, err)
	}
	return nil
}
