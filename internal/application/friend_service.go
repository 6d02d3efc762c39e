package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// FriendService runs the request/accept/reject workflow over the embedded
// friend and request lists of two user records.
type FriendService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger

	store userStore
}

func NewFriendService(r repo.UserRepository, logger *logrus.Logger, clock Clock) *FriendService {
	return &FriendService{Repo: r, Logger: logger, store: newUserStore(r, clock)}
}

type FriendView struct {
	UserID  string                `json:"userId"`
	Status  entity.FriendStatus   `json:"status"`
	Date    time.Time             `json:"date"`
	Profile *entity.PublicProfile `json:"user,omitempty"`
}

type RequestView struct {
	ID      string                `json:"id"`
	UserID  string                `json:"userId"`
	Date    time.Time             `json:"date"`
	Profile *entity.PublicProfile `json:"user,omitempty"`
}

type FriendsOverview struct {
	Friends         []FriendView  `json:"friends"`
	PendingRequests []RequestView `json:"pendingRequests"`
}

// SendRequest records a pending request from sender on recipient's record.
// The sender's record is not written.
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID string) (entity.PublicProfile, error) {
	if err := requireID("senderId", senderID); err != nil {
		return entity.PublicProfile{}, err
	}
	if err := requireID("recipientId", recipientID); err != nil {
		return entity.PublicProfile{}, err
	}
	if senderID == recipientID {
		return entity.PublicProfile{}, fmt.Errorf("%w: cannot send a friend request to yourself", ErrInvalidInput)
	}

	sender, err := s.store.load(ctx, "sender", senderID)
	if err != nil {
		return entity.PublicProfile{}, err
	}
	recipient, err := s.store.load(ctx, "recipient", recipientID)
	if err != nil {
		return entity.PublicProfile{}, err
	}

	if sender.HasAcceptedFriend(recipient.ID) || recipient.HasAcceptedFriend(sender.ID) {
		return entity.PublicProfile{}, fmt.Errorf("%w: %s and %s", ErrAlreadyFriends, sender.ID, recipient.ID)
	}
	if recipient.HasRequestFrom(sender.ID) {
		return entity.PublicProfile{}, fmt.Errorf("%w: %s -> %s", ErrDuplicateRequest, sender.ID, recipient.ID)
	}

	recipient.AddFriendRequest(entity.FriendRequest{
		ID:     helpers.NewID(),
		UserID: sender.ID,
		Date:   s.store.now(),
	})
	if err := s.store.save(ctx, recipient); err != nil {
		return entity.PublicProfile{}, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"sender_id": sender.ID, "recipient_id": recipient.ID}).Info("friend request sent")
	}
	return recipient.Public(), nil
}

// AcceptRequest turns the request entry requestID on userID's record into
// accepted edges on both records.
//
// The requester is written first. If the accepting user's write then fails
// the request entry is still there, so accepting again completes the pair
// without duplicating the requester's edge.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, requestID string) (entity.PublicProfile, error) {
	if err := requireID("userId", userID); err != nil {
		return entity.PublicProfile{}, err
	}
	if requestID == "" {
		return entity.PublicProfile{}, fmt.Errorf("%w: requestId is required", ErrInvalidInput)
	}

	user, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return entity.PublicProfile{}, err
	}
	req, ok := user.FindRequest(requestID)
	if !ok {
		return entity.PublicProfile{}, fmt.Errorf("%w: friend request %s", ErrNotFound, requestID)
	}
	if req.UserID == "" {
		return entity.PublicProfile{}, fmt.Errorf("%w: friend request %s has no requester", ErrNotFound, requestID)
	}
	requester, err := s.store.load(ctx, "requester", req.UserID)
	if err != nil {
		return entity.PublicProfile{}, err
	}

	now := s.store.now()
	if requester.AddAcceptedFriend(user.ID, now) {
		if err := s.store.save(ctx, requester); err != nil {
			return entity.PublicProfile{}, err
		}
	}

	user.RemoveRequest(requestID)
	user.AddAcceptedFriend(requester.ID, now)
	if err := s.store.save(ctx, user); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"user_id":      user.ID,
				"requester_id": requester.ID,
				"request_id":   requestID,
			}).Warn("friendship is one-sided until the request is accepted again")
		}
		return entity.PublicProfile{}, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": user.ID, "requester_id": requester.ID}).Info("friend request accepted")
	}
	return requester.Public(), nil
}

// RejectRequest drops the request entry; the requester's record is untouched.
func (s *FriendService) RejectRequest(ctx context.Context, userID, requestID string) error {
	if err := requireID("userId", userID); err != nil {
		return err
	}
	if requestID == "" {
		return fmt.Errorf("%w: requestId is required", ErrInvalidInput)
	}
	user, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return err
	}
	if _, ok := user.RemoveRequest(requestID); !ok {
		return fmt.Errorf("%w: friend request %s", ErrNotFound, requestID)
	}
	return s.store.save(ctx, user)
}

// ListFriendsAndRequests returns accepted friends and pending requests with
// counterpart profiles resolved where the counterpart still exists.
func (s *FriendService) ListFriendsAndRequests(ctx context.Context, userID string) (FriendsOverview, error) {
	if err := requireID("userId", userID); err != nil {
		return FriendsOverview{}, err
	}
	user, err := s.store.load(ctx, "user", userID)
	if err != nil {
		return FriendsOverview{}, err
	}

	accepted := user.AcceptedFriends()
	ids := make([]string, 0, len(accepted)+len(user.FriendRequests))
	for _, f := range accepted {
		ids = append(ids, f.UserID)
	}
	for _, r := range user.FriendRequests {
		ids = append(ids, r.UserID)
	}
	profiles, err := s.Repo.GetPublicProfiles(ctx, ids)
	if err != nil {
		return FriendsOverview{}, fmt.Errorf("%w: resolve profiles: %w", ErrInternal, err)
	}
	lookup := func(id string) *entity.PublicProfile {
		if p, ok := profiles[id]; ok {
			return &p
		}
		return nil
	}

	out := FriendsOverview{
		Friends:         make([]FriendView, 0, len(accepted)),
		PendingRequests: make([]RequestView, 0, len(user.FriendRequests)),
	}
	for _, f := range accepted {
		out.Friends = append(out.Friends, FriendView{UserID: f.UserID, Status: f.Status, Date: f.Date, Profile: lookup(f.UserID)})
	}
	for _, r := range user.FriendRequests {
		out.PendingRequests = append(out.PendingRequests, RequestView{ID: r.ID, UserID: r.UserID, Date: r.Date, Profile: lookup(r.UserID)})
	}
	return out, nil
}

// SearchUserByID is an exact id lookup returning public fields only.
func (s *FriendService) SearchUserByID(ctx context.Context, id string) (entity.PublicProfile, error) {
	if err := requireID("id", id); err != nil {
		return entity.PublicProfile{}, err
	}
	u, err := s.store.load(ctx, "user", id)
	if err != nil {
		return entity.PublicProfile{}, err
	}
	return u.Public(), nil
}
