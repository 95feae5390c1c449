// Package lock implements the in-process seat lock registry: time-bounded
// exclusive holds over a fixed pool of seats, confirmation into a permanent
// booking and automatic expiry. The sentinel errors below allow handlers to
// distinguish the failure scenarios and translate them into HTTP responses.
package lock

import "errors"

// ErrSeatNotFound is returned when the requested seat id is not part of
// the pool. Handlers should translate this into an HTTP 404 response.
var ErrSeatNotFound = errors.New("seat not found")

// ErrClaimantRequired is returned when an operation is attempted without
// a claimant identifier. Handlers should translate this into 400.
var ErrClaimantRequired = errors.New("claimant required")

// ErrAlreadyBooked is returned when the seat was already confirmed and is
// therefore permanently unavailable. Handlers should translate this into 400.
var ErrAlreadyBooked = errors.New("seat already booked")

// ErrLockConflict is returned when a valid, unexpired lock is in force.
// Re-locking is rejected even for the current owner; there is no renewal.
// Handlers should translate this into an HTTP 409 response.
var ErrLockConflict = errors.New("seat locked by another claimant")

// ErrNotLocked is returned when Confirm or Unlock is attempted on a seat
// that holds no lock. Handlers should translate this into 400.
var ErrNotLocked = errors.New("seat is not locked")

// ErrForbidden is returned when the caller is not the owner of the
// current lock. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrLockExpired is returned when Confirm finds the lock past its expiry.
// The seat is reset to AVAILABLE as a side effect. Handlers should
// translate this into 400.
var ErrLockExpired = errors.New("lock expired")
