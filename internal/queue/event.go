// Package queue defines message payloads exchanged over the message broker.
package queue

// Lifecycle actions carried by SeatLifecycleEvent.
const (
    ActionLocked    = "LOCKED"
    ActionConfirmed = "CONFIRMED"
    ActionReleased  = "RELEASED"
    ActionExpired   = "EXPIRED"
)

// SeatLifecycleEvent is published on every seat lock transition: acquisition,
// confirmation, manual release and automatic expiry. It carries enough
// information for downstream consumers to log, audit, or trigger analytics
// without querying the service.
type SeatLifecycleEvent struct {
    SeatID     uint64 `json:"seat_id"`
    ClaimantID string `json:"claimant_id"`
    Action     string `json:"action"`
    ExpiresAt  string `json:"expires_at,omitempty"`
    OccurredAt string `json:"occurred_at"`
}
