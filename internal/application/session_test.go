package application

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/memory"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

var errRedisDown = errors.New("redis down")

// sessionHook answers HGETALL from session without a server and fails
// every pipeline, i.e. every session write.
type sessionHook struct {
	session map[string]string
}

func (h sessionHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(context.Context, string, string) (net.Conn, error) { return nil, errRedisDown }
}

func (h sessionHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		if c, ok := cmd.(*redis.MapStringStringCmd); ok {
			c.SetVal(h.session)
			return nil
		}
		cmd.SetErr(errRedisDown)
		return errRedisDown
	}
}

func (h sessionHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, c := range cmds {
			c.SetErr(errRedisDown)
		}
		return errRedisDown
	}
}

func TestRefresh_FailsWhenSessionCannotRotate(t *testing.T) {
	repo := memory.NewUserRepository()
	u := &entity.User{ID: helpers.NewID(), Name: "Ana", Email: "ana@example.com", IsVerified: true}
	repo.Put(u)

	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	refresh, _, err := jwt.GenerateRefreshToken(u.ID, "sid-1")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(sessionHook{session: map[string]string{"sid": "sid-1"}})
	defer func() { _ = rdb.Close() }()

	svc := NewUserService(&config.Config{}, repo, jwt, rdb, nil, nil, nil, helpers.NewDiscardLogger(), nil)
	pair, uid, err := svc.Refresh(context.Background(), refresh)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errRedisDown)
	assert.Empty(t, pair.AccessToken)
	assert.Empty(t, uid)
}

func TestRefresh_StaleSessionIsRejected(t *testing.T) {
	repo := memory.NewUserRepository()
	u := &entity.User{ID: helpers.NewID(), Name: "Ana", Email: "ana@example.com", IsVerified: true}
	repo.Put(u)

	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	refresh, _, err := jwt.GenerateRefreshToken(u.ID, "sid-old")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(sessionHook{session: map[string]string{"sid": "sid-new"}})
	defer func() { _ = rdb.Close() }()

	svc := NewUserService(&config.Config{}, repo, jwt, rdb, nil, nil, nil, helpers.NewDiscardLogger(), nil)
	_, _, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
