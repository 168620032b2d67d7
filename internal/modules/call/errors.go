package call

import "errors"

var (
	ErrNotFound         = errors.New("call session not found")
	ErrEnded            = errors.New("call session already ended")
	ErrFull             = errors.New("call session is full")
	ErrGuestsNotAllowed = errors.New("guests are not allowed in this call")
	ErrForbidden        = errors.New("forbidden")
	ErrNotEmpty         = errors.New("call session is not empty")
	ErrAlreadyKicked    = errors.New("participant already removed")
	ErrInvalidCapacity  = errors.New("invalid participant capacity")
)
