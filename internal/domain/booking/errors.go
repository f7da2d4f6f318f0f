package booking

import "errors"

// Common errors returned by the booking service.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
	ErrSlotTaken  = errors.New("slot no longer available")
)
