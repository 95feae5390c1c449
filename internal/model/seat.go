package model

import "time"

// SeatStatus is the lifecycle state of a seat.  A seat is AVAILABLE
// until a claimant locks it, LOCKED while a time-bounded hold is in
// force, and BOOKED once a hold has been confirmed.  BOOKED is
// terminal: the service never releases a booked seat.
type SeatStatus string

const (
    SeatAvailable SeatStatus = "AVAILABLE" // free for anyone to lock
    SeatLocked    SeatStatus = "LOCKED"    // exclusively held, expires automatically
    SeatBooked    SeatStatus = "BOOKED"    // confirmed, terminal
)

// Seat describes a single seat in the fixed pool.  Seats are created
// once at startup and live for the whole process.  LockOwner,
// LockExpiresAt and HoldToken are meaningful only while Status is
// LOCKED and are cleared on every transition out of LOCKED.
//
// Fields:
//  ID            – ordinal seat identifier (1..SEAT_COUNT).
//  Status        – current lifecycle state.
//  LockOwner     – claimant holding the lock.
//  LockExpiresAt – absolute expiry of the current lock.
//  HoldToken     – opaque token returned to the claimant on acquisition.
type Seat struct {
    ID            uint64
    Status        SeatStatus
    LockOwner     string
    LockExpiresAt time.Time
    HoldToken     string
}

// SeatView is the externally visible projection of a seat used by the
// snapshot endpoint.  Owner and expiry are rendered only for LOCKED
// seats; AVAILABLE and BOOKED seats never expose them, even if stale
// values were to linger internally.
type SeatView struct {
    ID            uint64     `json:"id"`
    Status        SeatStatus `json:"status"`
    LockOwner     string     `json:"lock_owner,omitempty"`
    LockExpiresAt *time.Time `json:"lock_expires_at,omitempty"`
}
