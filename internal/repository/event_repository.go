// Package repository provides data access for the optional lifecycle audit
// trail. The lock registry itself never reads from here; rows are written by
// the queue consumer and read back only by the audit endpoint.
package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/seat-lock-service/internal/model"
)

// EventRepo persists seat lock lifecycle events.
//
// Expected schema:
//
//  CREATE TABLE seat_lock_events (
//      id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
//      seat_id     BIGINT UNSIGNED NOT NULL,
//      claimant_id VARCHAR(255)    NOT NULL,
//      action      VARCHAR(16)     NOT NULL,
//      occurred_at DATETIME        NOT NULL,
//      created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
//      KEY idx_seat_occurred (seat_id, occurred_at)
//  );
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo constructs an EventRepo. The db must be non-nil.
func NewEventRepo(db *sql.DB) *EventRepo {
    if db == nil {
        panic("nil db passed to NewEventRepo")
    }
    return &EventRepo{db: db}
}

// Insert records one lifecycle event.
func (r *EventRepo) Insert(ctx context.Context, seatID uint64, claimantID, action string, occurredAt time.Time) error {
    const q = `INSERT INTO seat_lock_events (seat_id, claimant_id, action, occurred_at) VALUES (?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, seatID, claimantID, action, occurredAt.UTC())
    return err
}

// ListBySeat returns the audit history for one seat, newest first, capped
// at limit rows (100 when limit is zero or negative).
func (r *EventRepo) ListBySeat(ctx context.Context, seatID uint64, limit int) ([]model.SeatLockEvent, error) {
    if limit <= 0 {
        limit = 100
    }
    const q = `SELECT id, seat_id, claimant_id, action, occurred_at, created_at
               FROM seat_lock_events WHERE seat_id = ?
               ORDER BY occurred_at DESC, id DESC LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, seatID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.SeatLockEvent, 0, limit)
    for rows.Next() {
        var ev model.SeatLockEvent
        if err := rows.Scan(&ev.ID, &ev.SeatID, &ev.ClaimantID, &ev.Action, &ev.OccurredAt, &ev.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, ev)
    }
    return out, rows.Err()
}
