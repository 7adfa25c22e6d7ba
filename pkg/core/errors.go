package core

import "errors"

// Setup errors. These stop the operation that returned them.
var (
	ErrInvalidFrustumParams = errors.New("invalid frustum parameters")
	ErrInvalidSchedule      = errors.New("invalid sample schedule")
	ErrMissingCamera        = errors.New("camera could not be resolved")
)

// Per-item errors. These are counted and logged, the surrounding loop continues.
var (
	ErrObjectQueryFailed = errors.New("object query failed")
	ErrDeletionFailed    = errors.New("object deletion failed")
)
