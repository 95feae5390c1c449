package handler

import (
    "context"        // background contexts for asynchronous event publishing
    "errors"         // for errors.Is comparisons against lock sentinels
    "net/http"       // HTTP status codes
    "strconv"        // parsing path parameters
    "strings"        // trimming claimant identifiers
    "time"           // formatting expiry timestamps

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/seat-lock-service/internal/lock"
    "github.com/iliyamo/seat-lock-service/internal/middleware"
    "github.com/iliyamo/seat-lock-service/internal/queue"
    "github.com/iliyamo/seat-lock-service/internal/repository"
    queue_publisher "github.com/iliyamo/seat-lock-service/internal/service"
)

// SeatLockHandler exposes the lock registry over HTTP: acquiring a hold,
// confirming it into a booking, releasing it early and reading the
// snapshot. EventRepo is optional and backs only the audit endpoint;
// everything else runs against the in-memory registry.
type SeatLockHandler struct {
    Registry  *lock.Registry        // the process-wide seat lock registry
    EventRepo *repository.EventRepo // optional lifecycle audit trail
}

// NewSeatLockHandler constructs a new SeatLockHandler. The registry must be
// non-nil; events may be nil when no database is configured.
func NewSeatLockHandler(registry *lock.Registry, events *repository.EventRepo) *SeatLockHandler {
    if registry == nil {
        panic("nil registry passed to NewSeatLockHandler")
    }
    return &SeatLockHandler{Registry: registry, EventRepo: events}
}

// LockSeat handles POST /v1/seats/:id/lock. It acquires a time-bounded
// exclusive hold on the seat for the claimant and returns the expiry
// timestamp together with an opaque hold token. A seat carrying a valid
// lock answers 409, whoever asks; a booked seat answers 400.
func (h *SeatLockHandler) LockSeat(c echo.Context) error {
    seatID, err := seatIDParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    claimant, err := claimantID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    grant, err := h.Registry.Lock(seatID, claimant)
    if err != nil {
        return seatLockError(c, err)
    }
    publishLifecycle(queue.SeatLifecycleEvent{
        SeatID:     seatID,
        ClaimantID: claimant,
        Action:     queue.ActionLocked,
        ExpiresAt:  grant.ExpiresAt.Format(time.RFC3339),
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusOK, echo.Map{
        "message":    "seat locked",
        "seat_id":    seatID,
        "expires_at": grant.ExpiresAt.Format(time.RFC3339),
        "hold_token": grant.HoldToken,
    })
}

// ConfirmSeat handles POST /v1/seats/:id/confirm. Only the current lock
// owner may confirm, and only before the lock expires; a lapsed lock is
// released and answered with 400. On success the seat is booked for good.
func (h *SeatLockHandler) ConfirmSeat(c echo.Context) error {
    seatID, err := seatIDParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    claimant, err := claimantID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := h.Registry.Confirm(seatID, claimant); err != nil {
        return seatLockError(c, err)
    }
    publishLifecycle(queue.SeatLifecycleEvent{
        SeatID:     seatID,
        ClaimantID: claimant,
        Action:     queue.ActionConfirmed,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusOK, echo.Map{
        "message": "seat booked",
        "seat_id": seatID,
    })
}

// UnlockSeat handles DELETE /v1/seats/:id/lock. It releases the caller's
// own hold early; the pending expiry is cancelled and the seat returns to
// AVAILABLE. Non-owners get 403, unlocked (or booked) seats get 400.
func (h *SeatLockHandler) UnlockSeat(c echo.Context) error {
    seatID, err := seatIDParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    claimant, err := claimantID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := h.Registry.Unlock(seatID, claimant); err != nil {
        return seatLockError(c, err)
    }
    publishLifecycle(queue.SeatLifecycleEvent{
        SeatID:     seatID,
        ClaimantID: claimant,
        Action:     queue.ActionReleased,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    })
    return c.JSON(http.StatusOK, echo.Map{
        "message": "seat released",
        "seat_id": seatID,
    })
}

// Snapshot handles GET /v1/seats. It returns the current view of every
// seat, keyed by seat id. Owner and expiry appear only on LOCKED seats.
func (h *SeatLockHandler) Snapshot(c echo.Context) error {
    seats := h.Registry.Snapshot()
    return c.JSON(http.StatusOK, echo.Map{
        "seats": seats,
        "count": len(seats),
    })
}

// ListSeatEvents handles GET /v1/seats/:id/events. It returns the audit
// history recorded for one seat, newest first. The route is registered
// only when a database is configured.
func (h *SeatLockHandler) ListSeatEvents(c echo.Context) error {
    if h.EventRepo == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "audit trail not configured"})
    }
    seatID, err := seatIDParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    limit := 0
    if raw := c.QueryParam("limit"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            limit = n
        }
    }
    items, err := h.EventRepo.ListBySeat(c.Request().Context(), seatID, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": items,
    })
}

// seatIDParam parses the :id path parameter into a seat identifier.
func seatIDParam(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid seat id")
    }
    return id, nil
}

// claimantID resolves the claimant for a request: an explicit claimant_id
// in the JSON body wins, otherwise the identity resolved by the claimant
// middleware is used. An empty result is not an error here; the registry
// rejects it uniformly.
func claimantID(c echo.Context) (string, error) {
    var body struct {
        ClaimantID string `json:"claimant_id"`
    }
    if err := c.Bind(&body); err != nil {
        return "", err
    }
    if v := strings.TrimSpace(body.ClaimantID); v != "" {
        return v, nil
    }
    return middleware.ClaimantFrom(c), nil
}

// seatLockError maps registry sentinel errors onto HTTP responses.
func seatLockError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, lock.ErrSeatNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
    case errors.Is(err, lock.ErrClaimantRequired):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "claimant_id is required"})
    case errors.Is(err, lock.ErrAlreadyBooked):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat already booked"})
    case errors.Is(err, lock.ErrLockConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat is locked"})
    case errors.Is(err, lock.ErrNotLocked):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat is not locked"})
    case errors.Is(err, lock.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, lock.ErrLockExpired):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lock expired"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// publishLifecycle hands the event to the broker off the request path.
// Publish failures only lose a diagnostic message, never a transition.
func publishLifecycle(ev queue.SeatLifecycleEvent) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishSeatLifecycle(ctx, ev)
    }()
}
