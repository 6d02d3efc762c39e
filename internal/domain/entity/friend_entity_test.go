package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAcceptedFriend_Idempotent(t *testing.T) {
	now := time.Now()
	u := &User{ID: "a"}

	assert.True(t, u.AddAcceptedFriend("b", now))
	assert.False(t, u.AddAcceptedFriend("b", now.Add(time.Minute)))
	require.Len(t, u.Friends, 1)
	assert.True(t, u.HasAcceptedFriend("b"))
	assert.False(t, u.HasAcceptedFriend("c"))

	u.Friends = append(u.Friends, FriendEdge{UserID: "c", Status: FriendPending})
	assert.False(t, u.AddAcceptedFriend("c", now))
	assert.Len(t, u.AcceptedFriends(), 1)
}

func TestRemoveRequest_KeepsOrder(t *testing.T) {
	u := &User{ID: "a"}
	u.AddFriendRequest(FriendRequest{ID: "r1", UserID: "b"})
	u.AddFriendRequest(FriendRequest{ID: "r2", UserID: "c"})
	u.AddFriendRequest(FriendRequest{ID: "r3", UserID: "d"})
	assert.True(t, u.HasRequestFrom("c"))

	got, ok := u.RemoveRequest("r2")
	require.True(t, ok)
	assert.Equal(t, "c", got.UserID)
	assert.Equal(t, []FriendRequest{{ID: "r1", UserID: "b"}, {ID: "r3", UserID: "d"}}, u.FriendRequests)
	assert.False(t, u.HasRequestFrom("c"))

	_, ok = u.RemoveRequest("r2")
	assert.False(t, ok)
	_, ok = u.FindRequest("r3")
	assert.True(t, ok)
}

func TestResetTokenValid(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	u := &User{ResetPasswordToken: "tok", ResetPasswordExpires: now.Add(time.Hour)}

	assert.True(t, u.ResetTokenValid("tok", now))
	assert.False(t, u.ResetTokenValid("other", now))
	assert.False(t, u.ResetTokenValid("tok", now.Add(time.Hour)))
	u.ClearResetToken()
	assert.False(t, u.ResetTokenValid("", now))
}
