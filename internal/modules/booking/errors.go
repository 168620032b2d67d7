package booking

import "errors"

var (
	ErrNotFound       = errors.New("booking not found")
	ErrRefundNotFound = errors.New("refund not found")

	ErrInvalidDuration      = errors.New("unsupported show duration")
	ErrPastStart            = errors.New("start time must be in the future")
	ErrOutsideWindow        = errors.New("start time outside the operating window")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidDecision      = errors.New("refund decision must be approved or rejected")

	ErrDuplicateSlot = errors.New("user already has a booking at this start time")
	ErrOverlap       = errors.New("host already booked for an overlapping window")

	ErrForbidden = errors.New("forbidden")

	ErrAlreadyTerminal    = errors.New("booking already cancelled or completed")
	ErrNotPaid            = errors.New("booking is not paid")
	ErrNotCompleted       = errors.New("booking is not completed")
	ErrAlreadyRated       = errors.New("feedback already recorded for this booking")
	ErrRefundWindowClosed = errors.New("refund request window has closed")
	ErrRefundResolved     = errors.New("refund already resolved")
)
