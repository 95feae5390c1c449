package model

import "time"

// SeatLockEvent is one row of the optional audit trail.  Events are
// written by the queue consumer when a database is configured and are
// never read back by the lock registry itself.
//
// Fields:
//  ID         – primary key identifier.
//  SeatID     – seat the event refers to.
//  ClaimantID – claimant involved in the transition.
//  Action     – LOCKED, CONFIRMED, RELEASED or EXPIRED.
//  OccurredAt – when the transition happened.
//  CreatedAt  – when the row was inserted.
type SeatLockEvent struct {
    ID         uint64
    SeatID     uint64
    ClaimantID string
    Action     string
    OccurredAt time.Time
    CreatedAt  time.Time
}
