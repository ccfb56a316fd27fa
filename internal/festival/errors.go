package festival

import "errors"

// Errors surfaced to the acting participant. None of them is fatal.
var (
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNoActiveArtist       = errors.New("no active artist")
	ErrInvalidVoteFormat    = errors.New("invalid vote format")
	ErrOutOfRange           = errors.New("score out of range")
	ErrDuplicateVote        = errors.New("duplicate vote")
	ErrUploadFailed         = errors.New("upload failed")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrArtistNotFound       = errors.New("artist not found")
	ErrInvalidValue         = errors.New("invalid value")
)

// ErrPersistenceFailure is logged and swallowed, never shown to users.
var ErrPersistenceFailure = errors.New("persistence failure")
