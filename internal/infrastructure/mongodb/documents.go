package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
)

type friendDoc struct {
	UserID primitive.ObjectID `bson:"userId"`
	Status string             `bson:"status"`
	Date   time.Time          `bson:"date"`
}

type friendRequestDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	UserID primitive.ObjectID `bson:"userId"`
	Date   time.Time          `bson:"date"`
}

type dailyDoc struct {
	Total       int        `bson:"total"`
	Correct     int        `bson:"correct"`
	Wrong       int        `bson:"wrong"`
	LastUpdated *time.Time `bson:"lastUpdated,omitempty"`
}

type topicDoc struct {
	Name    string `bson:"name"`
	Total   int    `bson:"total"`
	Correct int    `bson:"correct"`
	Wrong   int    `bson:"wrong"`
}

type questionStatsDoc struct {
	Daily          dailyDoc   `bson:"daily"`
	TotalQuestions int        `bson:"totalQuestions"`
	Topics         []topicDoc `bson:"topics"`
}

type userDoc struct {
	ID                   primitive.ObjectID `bson:"_id"`
	Name                 string             `bson:"name"`
	Email                string             `bson:"email"`
	Password             string             `bson:"password"`
	ProfileImage         string             `bson:"profileImage,omitempty"`
	IsVerified           bool               `bson:"isVerified"`
	EmailToken           string             `bson:"emailToken,omitempty"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty"`
	Friends              []friendDoc        `bson:"friends"`
	FriendRequests       []friendRequestDoc `bson:"friendRequests"`
	QuestionStats        questionStatsDoc   `bson:"questionStats"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

type publicDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	ProfileImage string             `bson:"profileImage,omitempty"`
}

type usedQuestionDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Question  string             `bson:"question"`
	Topic     string             `bson:"topic"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func oid(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q: %w", hex, err)
	}
	return id, nil
}

func toUserDoc(u *entity.User) (userDoc, error) {
	id, err := oid(u.ID)
	if err != nil {
		return userDoc{}, err
	}
	d := userDoc{
		ID:                   id,
		Name:                 u.Name,
		Email:                u.Email,
		Password:             u.Password,
		ProfileImage:         u.ProfileImage,
		IsVerified:           u.IsVerified,
		EmailToken:           u.EmailToken,
		ResetPasswordToken:   u.ResetPasswordToken,
		ResetPasswordExpires: timePtr(u.ResetPasswordExpires),
		Friends:              make([]friendDoc, 0, len(u.Friends)),
		FriendRequests:       make([]friendRequestDoc, 0, len(u.FriendRequests)),
		QuestionStats: questionStatsDoc{
			Daily: dailyDoc{
				Total:       u.QuestionStats.Daily.Total,
				Correct:     u.QuestionStats.Daily.Correct,
				Wrong:       u.QuestionStats.Daily.Wrong,
				LastUpdated: timePtr(u.QuestionStats.Daily.LastUpdated),
			},
			TotalQuestions: u.QuestionStats.TotalQuestions,
			Topics:         make([]topicDoc, 0, len(u.QuestionStats.Topics)),
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	for _, f := range u.Friends {
		fid, err := oid(f.UserID)
		if err != nil {
			return userDoc{}, err
		}
		d.Friends = append(d.Friends, friendDoc{UserID: fid, Status: string(f.Status), Date: f.Date})
	}
	for _, r := range u.FriendRequests {
		rid, err := oid(r.ID)
		if err != nil {
			return userDoc{}, err
		}
		uid, err := oid(r.UserID)
		if err != nil {
			return userDoc{}, err
		}
		d.FriendRequests = append(d.FriendRequests, friendRequestDoc{ID: rid, UserID: uid, Date: r.Date})
	}
	for _, t := range u.QuestionStats.Topics {
		d.QuestionStats.Topics = append(d.QuestionStats.Topics, topicDoc(t))
	}
	return d, nil
}

func (d userDoc) toEntity() *entity.User {
	u := &entity.User{
		ID:                   d.ID.Hex(),
		Name:                 d.Name,
		Email:                d.Email,
		Password:             d.Password,
		ProfileImage:         d.ProfileImage,
		IsVerified:           d.IsVerified,
		EmailToken:           d.EmailToken,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: timeVal(d.ResetPasswordExpires),
		QuestionStats: entity.QuestionStats{
			Daily: entity.DailyStats{
				Total:       d.QuestionStats.Daily.Total,
				Correct:     d.QuestionStats.Daily.Correct,
				Wrong:       d.QuestionStats.Daily.Wrong,
				LastUpdated: timeVal(d.QuestionStats.Daily.LastUpdated),
			},
			TotalQuestions: d.QuestionStats.TotalQuestions,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, f := range d.Friends {
		u.Friends = append(u.Friends, entity.FriendEdge{UserID: f.UserID.Hex(), Status: entity.FriendStatus(f.Status), Date: f.Date})
	}
	for _, r := range d.FriendRequests {
		u.FriendRequests = append(u.FriendRequests, entity.FriendRequest{ID: r.ID.Hex(), UserID: r.UserID.Hex(), Date: r.Date})
	}
	for _, t := range d.QuestionStats.Topics {
		u.QuestionStats.Topics = append(u.QuestionStats.Topics, entity.TopicStat(t))
	}
	return u
}

func (d publicDoc) toEntity() entity.PublicProfile {
	return entity.PublicProfile{ID: d.ID.Hex(), Name: d.Name, ProfileImage: d.ProfileImage}
}
