package entity

import (
	"time"
)

// User is the aggregate root for user domain.
// Friend edges, pending requests and question statistics are owned value
// collections persisted together with the user record.
//
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID           string
	Name         string
	Email        string
	Password     string
	ProfileImage string
	IsVerified   bool

	EmailToken           string
	ResetPasswordToken   string
	ResetPasswordExpires time.Time

	Friends        []FriendEdge
	FriendRequests []FriendRequest
	QuestionStats  QuestionStats

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicProfile is the subset of a user that other users may see.
type PublicProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name, ProfileImage: u.ProfileImage}
}

// ResetTokenValid reports whether tok matches the stored reset token and has not expired at now.
func (u *User) ResetTokenValid(tok string, now time.Time) bool {
	return tok != "" && u.ResetPasswordToken == tok && now.Before(u.ResetPasswordExpires)
}

func (u *User) ClearResetToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = time.Time{}
}
