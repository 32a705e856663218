package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInput       = errors.New("missing input")
	ErrNotFound           = errors.New("location not found")
	ErrAmbiguousPosition  = errors.New("position is undefined")
	ErrNoRouteFound       = errors.New("no route found")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrResolutionFailed   = errors.New("resolution failed")
	ErrSurfaceNotReady    = errors.New("map surface not initialized")
	ErrRouteNotReady      = errors.New("route is not calculated yet")
	ErrSlotOutOfRange     = errors.New("waypoint slot out of range")
)

// ResolutionError aborts a search cycle: one address could not be resolved.
// It matches both ErrResolutionFailed and the resolver's own error.
type ResolutionError struct {
	Role    MarkerRole
	Index   int // waypoint slot index; 0 for start/stop
	Address string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Role == RoleWaypoint {
		return fmt.Sprintf("resolve waypoint slot %d %q: %v", e.Index, e.Address, e.Err)
	}
	return fmt.Sprintf("resolve %s %q: %v", e.Role, e.Address, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{ErrResolutionFailed, e.Err}
}
