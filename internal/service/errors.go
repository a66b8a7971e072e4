package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// UnavailableError carries the transport failure behind ErrUpstreamUnavailable.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return ErrUpstreamUnavailable.Error() + ": " + e.Cause.Error()
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
