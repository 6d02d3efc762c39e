package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
)

func TestUserDoc_PreservesEmbeddedLists(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	friend := primitive.NewObjectID().Hex()
	requester := primitive.NewObjectID().Hex()
	u := &entity.User{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Ana",
		Email: "ana@example.com",
		Friends: []entity.FriendEdge{
			{UserID: friend, Status: entity.FriendAccepted, Date: now},
		},
		FriendRequests: []entity.FriendRequest{
			{ID: primitive.NewObjectID().Hex(), UserID: requester, Date: now},
		},
		QuestionStats: entity.QuestionStats{
			Daily:          entity.DailyStats{Total: 2, Correct: 1, Wrong: 1, LastUpdated: now},
			TotalQuestions: 9,
			Topics:         []entity.TopicStat{{Name: "Calorimetria", Total: 2, Correct: 1, Wrong: 1}},
		},
	}

	doc, err := toUserDoc(u)
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded userDoc
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.toEntity()
	assert.Equal(t, u.Friends, got.Friends)
	assert.Equal(t, u.FriendRequests, got.FriendRequests)
	assert.Equal(t, u.QuestionStats.Topics, got.QuestionStats.Topics)
	assert.True(t, now.Equal(got.QuestionStats.Daily.LastUpdated))
	assert.True(t, got.ResetPasswordExpires.IsZero())
}

func TestUserDoc_OmitsUnsetOptionalFields(t *testing.T) {
	u := &entity.User{ID: primitive.NewObjectID().Hex(), Name: "Ana"}
	doc, err := toUserDoc(u)
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	for _, k := range []string{"emailToken", "resetPasswordToken", "resetPasswordExpires", "profileImage"} {
		assert.NotContains(t, m, k)
	}
}

func TestToUserDoc_RejectsMalformedIDs(t *testing.T) {
	_, err := toUserDoc(&entity.User{ID: "nope"})
	assert.Error(t, err)

	_, err = toUserDoc(&entity.User{
		ID:      primitive.NewObjectID().Hex(),
		Friends: []entity.FriendEdge{{UserID: "u1", Status: entity.FriendAccepted}},
	})
	assert.Error(t, err)
}
