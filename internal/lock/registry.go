package lock

import (
    "log"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/seat-lock-service/internal/model"
)

// Registry owns every seat record and its pending expiry timer. All
// reads and writes go through a single mutex, so the net effect of
// concurrent operations on a seat is always some serialization of them.
// Expiry timers fire on their own goroutines and take the same mutex
// before touching any state.
type Registry struct {
    mu       sync.Mutex
    ttl      time.Duration
    seats    map[uint64]*seatRecord
    onExpire func(seatID uint64, claimantID string)
}

// seatRecord pairs the seat data with its scheduled expiry. gen counts
// lock acquisitions and releases; an expiry callback captures the value
// current at scheduling time and becomes a no-op if the seat has moved
// on since, even when the timer fired before Stop could cancel it.
type seatRecord struct {
    model.Seat
    expiry *time.Timer
    gen    uint64
}

// LockGrant is returned on successful acquisition.
type LockGrant struct {
    SeatID    uint64
    HoldToken string
    ExpiresAt time.Time
}

// NewRegistry creates the fixed seat pool. Seats are numbered 1..seatCount,
// start AVAILABLE and are never destroyed. ttl is the lifetime of every
// lock; there is no renewal. onExpire, when non-nil, is invoked (on its
// own goroutine, outside the registry mutex) whenever a lock lapses,
// whether the timer fired or a racing operation reclaimed it first.
func NewRegistry(seatCount int, ttl time.Duration, onExpire func(seatID uint64, claimantID string)) *Registry {
    if seatCount <= 0 {
        panic("lock: seat count must be positive")
    }
    if ttl <= 0 {
        panic("lock: ttl must be positive")
    }
    seats := make(map[uint64]*seatRecord, seatCount)
    for i := 1; i <= seatCount; i++ {
        id := uint64(i)
        seats[id] = &seatRecord{Seat: model.Seat{ID: id, Status: model.SeatAvailable}}
    }
    return &Registry{ttl: ttl, seats: seats, onExpire: onExpire}
}

// TTL reports the fixed lock lifetime.
func (r *Registry) TTL() time.Duration { return r.ttl }

// Lock acquires an exclusive hold on the seat for claimantID. A seat
// carrying a valid lock rejects the call with ErrLockConflict regardless
// of who asks, the current owner included. A seat whose lock has lapsed
// but whose timer has not fired yet is released on the spot and acquired
// fresh, exactly as if the timer had won the race.
func (r *Registry) Lock(seatID uint64, claimantID string) (LockGrant, error) {
    r.mu.Lock()
    s, ok := r.seats[seatID]
    if !ok {
        r.mu.Unlock()
        return LockGrant{}, ErrSeatNotFound
    }
    if claimantID == "" {
        r.mu.Unlock()
        return LockGrant{}, ErrClaimantRequired
    }
    if s.Status == model.SeatBooked {
        r.mu.Unlock()
        return LockGrant{}, ErrAlreadyBooked
    }
    var lapsedOwner string
    now := time.Now().UTC()
    if s.Status == model.SeatLocked {
        if now.Before(s.LockExpiresAt) {
            r.mu.Unlock()
            return LockGrant{}, ErrLockConflict
        }
        // Lapsed lock: the timer is late or still in flight. Run the
        // release path here rather than waiting for it.
        lapsedOwner = r.releaseLocked(s)
    }
    s.gen++
    gen := s.gen
    s.Status = model.SeatLocked
    s.LockOwner = claimantID
    s.LockExpiresAt = now.Add(r.ttl)
    s.HoldToken = uuid.NewString()
    s.expiry = time.AfterFunc(r.ttl, func() { r.expire(seatID, gen) })
    grant := LockGrant{SeatID: seatID, HoldToken: s.HoldToken, ExpiresAt: s.LockExpiresAt}
    r.mu.Unlock()
    if lapsedOwner != "" {
        r.notifyExpired(seatID, lapsedOwner)
    }
    return grant, nil
}

// Confirm commits the current hold into a permanent booking. Only the
// lock owner may confirm, and only while the lock is still fresh; a
// lapsed lock is released and the call fails with ErrLockExpired.
func (r *Registry) Confirm(seatID uint64, claimantID string) error {
    r.mu.Lock()
    s, ok := r.seats[seatID]
    if !ok {
        r.mu.Unlock()
        return ErrSeatNotFound
    }
    if claimantID == "" {
        r.mu.Unlock()
        return ErrClaimantRequired
    }
    if s.Status == model.SeatBooked {
        r.mu.Unlock()
        return ErrAlreadyBooked
    }
    if s.Status != model.SeatLocked {
        r.mu.Unlock()
        return ErrNotLocked
    }
    if s.LockOwner != claimantID {
        r.mu.Unlock()
        return ErrForbidden
    }
    if s.LockExpiresAt.IsZero() || !time.Now().UTC().Before(s.LockExpiresAt) {
        lapsedOwner := r.releaseLocked(s)
        r.mu.Unlock()
        if lapsedOwner != "" {
            r.notifyExpired(seatID, lapsedOwner)
        }
        return ErrLockExpired
    }
    if s.expiry != nil {
        s.expiry.Stop()
        s.expiry = nil
    }
    s.gen++
    s.Status = model.SeatBooked
    s.LockOwner = ""
    s.LockExpiresAt = time.Time{}
    s.HoldToken = ""
    r.mu.Unlock()
    return nil
}

// Unlock releases the current hold early. Only the lock owner may
// release; booked and available seats report ErrNotLocked.
func (r *Registry) Unlock(seatID uint64, claimantID string) error {
    r.mu.Lock()
    s, ok := r.seats[seatID]
    if !ok {
        r.mu.Unlock()
        return ErrSeatNotFound
    }
    if claimantID == "" {
        r.mu.Unlock()
        return ErrClaimantRequired
    }
    if s.Status != model.SeatLocked {
        r.mu.Unlock()
        return ErrNotLocked
    }
    if s.LockOwner != claimantID {
        r.mu.Unlock()
        return ErrForbidden
    }
    r.releaseLocked(s)
    r.mu.Unlock()
    return nil
}

// Snapshot returns the current view of every seat. Owner and expiry are
// rendered only for LOCKED seats, whatever the stored fields contain.
func (r *Registry) Snapshot() map[uint64]model.SeatView {
    r.mu.Lock()
    defer r.mu.Unlock()
    out := make(map[uint64]model.SeatView, len(r.seats))
    for id, s := range r.seats {
        v := model.SeatView{ID: id, Status: s.Status}
        if s.Status == model.SeatLocked {
            v.LockOwner = s.LockOwner
            exp := s.LockExpiresAt
            v.LockExpiresAt = &exp
        }
        out[id] = v
    }
    return out
}

// releaseLocked is the shared release path: cancel any pending expiry
// and, only if the seat is still LOCKED, reset it to AVAILABLE. The
// status guard keeps a late release from clobbering a seat that was
// booked or re-locked in the meantime. Callers must hold r.mu. Returns
// the owner whose lock was cleared, or "" when nothing was released.
func (r *Registry) releaseLocked(s *seatRecord) string {
    if s.expiry != nil {
        s.expiry.Stop()
        s.expiry = nil
    }
    if s.Status != model.SeatLocked {
        return ""
    }
    owner := s.LockOwner
    s.gen++
    s.Status = model.SeatAvailable
    s.LockOwner = ""
    s.LockExpiresAt = time.Time{}
    s.HoldToken = ""
    return owner
}

// expire is the timer callback, scheduled once per acquisition. The seat
// may have been confirmed, released or re-locked between the timer firing
// and this goroutine taking the mutex, so it acts only if the generation
// captured at scheduling time is still current.
func (r *Registry) expire(seatID uint64, gen uint64) {
    r.mu.Lock()
    s, ok := r.seats[seatID]
    if !ok || s.gen != gen || s.Status != model.SeatLocked {
        r.mu.Unlock()
        return
    }
    owner := r.releaseLocked(s)
    r.mu.Unlock()
    if owner != "" {
        r.notifyExpired(seatID, owner)
    }
}

// notifyExpired reports a lapsed lock for diagnostics. Failures here are
// never surfaced to callers; the notifier runs on its own goroutine.
func (r *Registry) notifyExpired(seatID uint64, claimantID string) {
    log.Printf("lock expired: seat=%d claimant=%s", seatID, claimantID)
    if r.onExpire != nil {
        go r.onExpire(seatID, claimantID)
    }
}
