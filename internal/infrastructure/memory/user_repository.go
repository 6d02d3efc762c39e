package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// UserRepository keeps users in a map. Records are copied on the way in and
// out so callers never share slices with the stored state.
type UserRepository struct {
	mu    sync.Mutex
	users map[string]*entity.User

	// SaveHook, when set, runs before every Save; a non-nil error aborts it.
	SaveHook func(u *entity.User) error
}

var _ repo.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]*entity.User{}}
}

func clone(u *entity.User) *entity.User {
	c := *u
	c.Friends = slices.Clone(u.Friends)
	c.FriendRequests = slices.Clone(u.FriendRequests)
	c.QuestionStats.Topics = slices.Clone(u.QuestionStats.Topics)
	return &c
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = helpers.NewID()
	}
	if _, ok := r.users[u.ID]; ok {
		return repo.ErrDuplicate
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) findOne(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findOne(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByEmailToken(_ context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repo.ErrNotFound
	}
	return r.findOne(func(u *entity.User) bool { return u.EmailToken == token })
}

func (r *UserRepository) GetByResetToken(_ context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repo.ErrNotFound
	}
	return r.findOne(func(u *entity.User) bool { return u.ResetPasswordToken == token })
}

func (r *UserRepository) GetPublicProfiles(_ context.Context, ids []string) (map[string]entity.PublicProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]entity.PublicProfile, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

func (r *UserRepository) Save(_ context.Context, u *entity.User) error {
	if r.SaveHook != nil {
		if err := r.SaveHook(u); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok {
		u.CreatedAt = time.Now().UTC()
	} else {
		u.CreatedAt = existing.CreatedAt
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = clone(u)
	return nil
}

// Put stores u as-is, for seeding tests.
func (r *UserRepository) Put(u *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = helpers.NewID()
	}
	r.users[u.ID] = clone(u)
}
