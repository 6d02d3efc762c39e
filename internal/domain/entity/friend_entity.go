package entity

import "time"

type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// FriendEdge links the owning user to another user id.
type FriendEdge struct {
	UserID string
	Status FriendStatus
	Date   time.Time
}

// FriendRequest is a pending invitation stored on the recipient.
// ID is the handle used to accept or reject it; UserID is the requester.
type FriendRequest struct {
	ID     string
	UserID string
	Date   time.Time
}

// HasAcceptedFriend reports whether u holds an accepted edge to otherID.
func (u *User) HasAcceptedFriend(otherID string) bool {
	for _, f := range u.Friends {
		if f.UserID == otherID && f.Status == FriendAccepted {
			return true
		}
	}
	return false
}

func (u *User) hasEdgeTo(otherID string) bool {
	for _, f := range u.Friends {
		if f.UserID == otherID {
			return true
		}
	}
	return false
}

// AddAcceptedFriend appends an accepted edge to otherID unless an edge to
// otherID already exists. It returns false when nothing was appended.
func (u *User) AddAcceptedFriend(otherID string, at time.Time) bool {
	if u.hasEdgeTo(otherID) {
		return false
	}
	u.Friends = append(u.Friends, FriendEdge{UserID: otherID, Status: FriendAccepted, Date: at})
	return true
}

// AcceptedFriends returns accepted edges in insertion order.
func (u *User) AcceptedFriends() []FriendEdge {
	out := make([]FriendEdge, 0, len(u.Friends))
	for _, f := range u.Friends {
		if f.Status == FriendAccepted {
			out = append(out, f)
		}
	}
	return out
}

// HasRequestFrom reports whether u already holds a pending request from requesterID.
func (u *User) HasRequestFrom(requesterID string) bool {
	for _, r := range u.FriendRequests {
		if r.UserID == requesterID {
			return true
		}
	}
	return false
}

func (u *User) AddFriendRequest(req FriendRequest) {
	u.FriendRequests = append(u.FriendRequests, req)
}

// FindRequest returns the request entry with the given entry id.
func (u *User) FindRequest(requestID string) (FriendRequest, bool) {
	for _, r := range u.FriendRequests {
		if r.ID == requestID {
			return r, true
		}
	}
	return FriendRequest{}, false
}

// RemoveRequest deletes the request entry with the given entry id, keeping order.
func (u *User) RemoveRequest(requestID string) (FriendRequest, bool) {
	for i, r := range u.FriendRequests {
		if r.ID == requestID {
			u.FriendRequests = append(u.FriendRequests[:i:i], u.FriendRequests[i+1:]...)
			return r, true
		}
	}
	return FriendRequest{}, false
}
