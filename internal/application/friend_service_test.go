package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/memory"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

var day = time.Date(2025, 5, 20, 14, 0, 0, 0, time.Local)

func newFriendFixture(t *testing.T) (*FriendService, *memory.UserRepository, *entity.User, *entity.User) {
	t.Helper()
	r := memory.NewUserRepository()
	a := seedUser(r, "alice")
	b := seedUser(r, "bruno")
	svc := NewFriendService(r, helpers.NewDiscardLogger(), newFixedClock(day).Now)
	return svc, r, a, b
}

func mustGet(t *testing.T, r *memory.UserRepository, id string) *entity.User {
	t.Helper()
	u, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestSendRequest_AppendsToRecipientOnly(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	profile, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PublicProfile{ID: b.ID, Name: "bruno"}, profile)

	gotB := mustGet(t, r, b.ID)
	require.Len(t, gotB.FriendRequests, 1)
	assert.Equal(t, a.ID, gotB.FriendRequests[0].UserID)
	assert.True(t, helpers.IsValidID(gotB.FriendRequests[0].ID))
	assert.True(t, day.Equal(gotB.FriendRequests[0].Date))

	gotA := mustGet(t, r, a.ID)
	assert.Empty(t, gotA.FriendRequests)
	assert.Empty(t, gotA.Friends)
}

func TestSendRequest_Errors(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, "", b.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SendRequest(ctx, a.ID, "u2")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SendRequest(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SendRequest(ctx, a.ID, helpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SendRequest(ctx, helpers.NewID(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	assert.Len(t, mustGet(t, r, b.ID).FriendRequests, 1)
}

func TestSendRequest_AlreadyFriendsEitherSide(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	// only the sender holds the edge
	gotA := mustGet(t, r, a.ID)
	gotA.AddAcceptedFriend(b.ID, day)
	r.Put(gotA)

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyFriends)
	_, err = svc.SendRequest(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestAcceptRequest_EndToEnd(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	pending := mustGet(t, r, b.ID).FriendRequests
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].UserID)

	profile, err := svc.AcceptRequest(ctx, b.ID, pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, profile.ID)

	gotA, gotB := mustGet(t, r, a.ID), mustGet(t, r, b.ID)
	assert.Empty(t, gotB.FriendRequests)
	require.Len(t, gotA.Friends, 1)
	require.Len(t, gotB.Friends, 1)
	assert.Equal(t, entity.FriendEdge{UserID: b.ID, Status: entity.FriendAccepted, Date: day}, gotA.Friends[0])
	assert.Equal(t, entity.FriendEdge{UserID: a.ID, Status: entity.FriendAccepted, Date: day}, gotB.Friends[0])
}

func TestAcceptRequest_Errors(t *testing.T) {
	svc, r, _, b := newFriendFixture(t)
	ctx := context.Background()

	_, err := svc.AcceptRequest(ctx, b.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AcceptRequest(ctx, "", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AcceptRequest(ctx, helpers.NewID(), helpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.AcceptRequest(ctx, b.ID, helpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)

	// requester vanished
	gotB := mustGet(t, r, b.ID)
	gotB.AddFriendRequest(entity.FriendRequest{ID: helpers.NewID(), UserID: helpers.NewID(), Date: day})
	r.Put(gotB)
	_, err = svc.AcceptRequest(ctx, b.ID, gotB.FriendRequests[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptRequest_SecondWriteFailureConvergesOnRetry(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	reqID := mustGet(t, r, b.ID).FriendRequests[0].ID

	r.SaveHook = func(u *entity.User) error {
		if u.ID == b.ID {
			return errStoreDown
		}
		return nil
	}
	_, err = svc.AcceptRequest(ctx, b.ID, reqID)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errStoreDown)

	// one-sided: requester has the edge, request still pending
	assert.True(t, mustGet(t, r, a.ID).HasAcceptedFriend(b.ID))
	assert.Len(t, mustGet(t, r, b.ID).FriendRequests, 1)

	r.SaveHook = nil
	_, err = svc.AcceptRequest(ctx, b.ID, reqID)
	require.NoError(t, err)

	gotA, gotB := mustGet(t, r, a.ID), mustGet(t, r, b.ID)
	assert.Len(t, gotA.Friends, 1)
	assert.Len(t, gotB.Friends, 1)
	assert.Empty(t, gotB.FriendRequests)
}

func TestAcceptRequest_FirstWriteFailureLeavesBothUntouched(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	reqID := mustGet(t, r, b.ID).FriendRequests[0].ID

	r.SaveHook = func(*entity.User) error { return errStoreDown }
	_, err = svc.AcceptRequest(ctx, b.ID, reqID)
	assert.ErrorIs(t, err, ErrInternal)

	assert.Empty(t, mustGet(t, r, a.ID).Friends)
	assert.Empty(t, mustGet(t, r, b.ID).Friends)
	assert.Len(t, mustGet(t, r, b.ID).FriendRequests, 1)
}

func TestRejectRequest_RemovesWithoutSideEffect(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	before := mustGet(t, r, a.ID)
	reqID := mustGet(t, r, b.ID).FriendRequests[0].ID

	require.NoError(t, svc.RejectRequest(ctx, b.ID, reqID))
	assert.Empty(t, mustGet(t, r, b.ID).FriendRequests)
	assert.Empty(t, mustGet(t, r, b.ID).Friends)
	assert.Equal(t, before, mustGet(t, r, a.ID))

	assert.ErrorIs(t, svc.RejectRequest(ctx, b.ID, reqID), ErrNotFound)
	assert.ErrorIs(t, svc.RejectRequest(ctx, b.ID, ""), ErrInvalidInput)
}

func TestListFriendsAndRequests_ResolvesProfiles(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	ctx := context.Background()
	c := seedUser(r, "carla")
	ghost := helpers.NewID()

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, b.ID, mustGet(t, r, b.ID).FriendRequests[0].ID)
	require.NoError(t, err)
	_, err = svc.SendRequest(ctx, c.ID, b.ID)
	require.NoError(t, err)

	gotB := mustGet(t, r, b.ID)
	gotB.Friends = append(gotB.Friends, entity.FriendEdge{UserID: ghost, Status: entity.FriendAccepted, Date: day})
	gotB.Friends = append(gotB.Friends, entity.FriendEdge{UserID: c.ID, Status: entity.FriendPending, Date: day})
	r.Put(gotB)

	out, err := svc.ListFriendsAndRequests(ctx, b.ID)
	require.NoError(t, err)

	require.Len(t, out.Friends, 2)
	assert.Equal(t, a.ID, out.Friends[0].UserID)
	require.NotNil(t, out.Friends[0].Profile)
	assert.Equal(t, "alice", out.Friends[0].Profile.Name)
	assert.Equal(t, ghost, out.Friends[1].UserID)
	assert.Nil(t, out.Friends[1].Profile)

	require.Len(t, out.PendingRequests, 1)
	assert.Equal(t, c.ID, out.PendingRequests[0].UserID)
	require.NotNil(t, out.PendingRequests[0].Profile)
	assert.Equal(t, "carla", out.PendingRequests[0].Profile.Name)

	_, err = svc.ListFriendsAndRequests(ctx, helpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFriendsAndRequests_EmptyListsNotNil(t *testing.T) {
	svc, _, a, _ := newFriendFixture(t)
	out, err := svc.ListFriendsAndRequests(context.Background(), a.ID)
	require.NoError(t, err)
	assert.NotNil(t, out.Friends)
	assert.NotNil(t, out.PendingRequests)
}

func TestSearchUserByID_PublicFieldsOnly(t *testing.T) {
	svc, r, a, _ := newFriendFixture(t)
	full := mustGet(t, r, a.ID)
	full.Password = "hash"
	full.EmailToken = "tok"
	full.ResetPasswordToken = "reset"
	full.ProfileImage = "https://cdn.test/a.png"
	r.Put(full)

	p, err := svc.SearchUserByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PublicProfile{ID: a.ID, Name: "alice", ProfileImage: "https://cdn.test/a.png"}, p)

	_, err = svc.SearchUserByID(context.Background(), helpers.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SearchUserByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFriendWrites_RollStaleDailyStats(t *testing.T) {
	svc, r, a, b := newFriendFixture(t)
	gotB := mustGet(t, r, b.ID)
	gotB.QuestionStats.Daily = entity.DailyStats{Total: 4, Correct: 4, LastUpdated: day.AddDate(0, 0, -1)}
	gotB.QuestionStats.TotalQuestions = 4
	r.Put(gotB)

	_, err := svc.SendRequest(context.Background(), a.ID, b.ID)
	require.NoError(t, err)

	stats := mustGet(t, r, b.ID).QuestionStats
	assert.Equal(t, 0, stats.Daily.Total)
	assert.True(t, day.Equal(stats.Daily.LastUpdated))
	assert.Equal(t, 4, stats.TotalQuestions)
}
