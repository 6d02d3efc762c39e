package application

import "errors"

// Error kinds returned by the services. Callers match them with errors.Is;
// the wrapped message carries detail for logs only.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrDuplicateRequest = errors.New("friend request already sent")
	ErrInternal         = errors.New("internal error")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotFound      = errors.New("email not registered")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrProviderUnavailable = errors.New("completion provider unavailable")
	ErrNoNovelQuestion     = errors.New("could not generate a novel question")
)
