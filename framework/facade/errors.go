package facade

import "errors"

// Errors raised by the cache itself. Failures of the container are never
// wrapped: GetInstance returns exactly the error Make returned.
var (
	// ErrServiceNotRegistered is returned for keys that were never passed to
	// RegisterServiceType.
	ErrServiceNotRegistered = errors.New("facade: service type not registered")

	// ErrNoContainer is returned when no container has been attached yet.
	ErrNoContainer = errors.New("facade: no container attached")

	// ErrTypeMismatch is returned by typed accessors when the container
	// resolved a value of another type.
	ErrTypeMismatch = errors.New("facade: resolved instance has unexpected type")
)
