package handler

import (
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/seat-lock-service/internal/lock"
)

func newTestHandler(t *testing.T, ttl time.Duration) (*echo.Echo, *SeatLockHandler) {
    t.Helper()
    registry := lock.NewRegistry(10, ttl, nil)
    return echo.New(), NewSeatLockHandler(registry, nil)
}

// call invokes one seat lock handler the way the router would, with the
// claimant passed in the JSON body.
func call(t *testing.T, e *echo.Echo, fn echo.HandlerFunc, method, path string, seatID, claimant string) (*httptest.ResponseRecorder, map[string]any) {
    t.Helper()
    var body *strings.Reader
    if claimant != "" {
        body = strings.NewReader(fmt.Sprintf(`{"claimant_id":%q}`, claimant))
    } else {
        body = strings.NewReader("")
    }
    req := httptest.NewRequest(method, path, body)
    if claimant != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath(path)
    c.SetParamNames("id")
    c.SetParamValues(seatID)
    require.NoError(t, fn(c))

    var parsed map[string]any
    if rec.Body.Len() > 0 {
        require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
    }
    return rec, parsed
}

func lockSeat(t *testing.T, e *echo.Echo, h *SeatLockHandler, seatID, claimant string) (*httptest.ResponseRecorder, map[string]any) {
    return call(t, e, h.LockSeat, http.MethodPost, "/v1/seats/:id/lock", seatID, claimant)
}

func confirmSeat(t *testing.T, e *echo.Echo, h *SeatLockHandler, seatID, claimant string) (*httptest.ResponseRecorder, map[string]any) {
    return call(t, e, h.ConfirmSeat, http.MethodPost, "/v1/seats/:id/confirm", seatID, claimant)
}

func unlockSeat(t *testing.T, e *echo.Echo, h *SeatLockHandler, seatID, claimant string) (*httptest.ResponseRecorder, map[string]any) {
    return call(t, e, h.UnlockSeat, http.MethodDelete, "/v1/seats/:id/lock", seatID, claimant)
}

func snapshot(t *testing.T, e *echo.Echo, h *SeatLockHandler) map[string]map[string]any {
    t.Helper()
    req := httptest.NewRequest(http.MethodGet, "/v1/seats", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    require.NoError(t, h.Snapshot(c))
    require.Equal(t, http.StatusOK, rec.Code)

    var parsed struct {
        Seats map[string]map[string]any `json:"seats"`
        Count int                       `json:"count"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
    require.Equal(t, len(parsed.Seats), parsed.Count)
    return parsed.Seats
}

// The walkthrough from the API contract: alice locks seat 3, bob cannot
// steal or confirm it, alice books it, and the booked seat stays booked.
func TestSeatLockWalkthrough(t *testing.T) {
    e, h := newTestHandler(t, time.Minute)

    rec, body := lockSeat(t, e, h, "3", "alice")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.NotEmpty(t, body["expires_at"])
    assert.NotEmpty(t, body["hold_token"])

    expiresAt, err := time.Parse(time.RFC3339, body["expires_at"].(string))
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), expiresAt, 2*time.Second)

    rec, body = lockSeat(t, e, h, "3", "bob")
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Equal(t, "seat is locked", body["error"])

    rec, body = confirmSeat(t, e, h, "3", "bob")
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Equal(t, "forbidden", body["error"])

    rec, _ = confirmSeat(t, e, h, "3", "alice")
    assert.Equal(t, http.StatusOK, rec.Code)

    seats := snapshot(t, e, h)
    seat3 := seats["3"]
    assert.Equal(t, "BOOKED", seat3["status"])
    assert.NotContains(t, seat3, "lock_owner")
    assert.NotContains(t, seat3, "lock_expires_at")

    // Booked, not locked: a late unlock is rejected.
    rec, body = unlockSeat(t, e, h, "3", "alice")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "seat is not locked", body["error"])
}

// Confirming after the TTL has passed fails and frees the seat.
func TestConfirmAfterExpiry(t *testing.T) {
    e, h := newTestHandler(t, 50*time.Millisecond)

    rec, _ := lockSeat(t, e, h, "5", "carol")
    require.Equal(t, http.StatusOK, rec.Code)

    time.Sleep(150 * time.Millisecond)

    rec, body := confirmSeat(t, e, h, "5", "carol")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "lock expired", body["error"])

    seats := snapshot(t, e, h)
    seat5 := seats["5"]
    assert.Equal(t, "AVAILABLE", seat5["status"])
    assert.NotContains(t, seat5, "lock_owner")
}

func TestLockErrorResponses(t *testing.T) {
    e, h := newTestHandler(t, time.Minute)

    rec, body := lockSeat(t, e, h, "42", "alice")
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Equal(t, "seat not found", body["error"])

    rec, body = lockSeat(t, e, h, "1", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "claimant_id is required", body["error"])

    rec, body = lockSeat(t, e, h, "abc", "alice")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Equal(t, "invalid seat id", body["error"])
}

func TestClaimantFromHeader(t *testing.T) {
    e, h := newTestHandler(t, time.Minute)

    req := httptest.NewRequest(http.MethodPost, "/v1/seats/:id/lock", nil)
    req.Header.Set("X-Claimant-ID", "dave")
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/seats/:id/lock")
    c.SetParamNames("id")
    c.SetParamValues("7")
    // The identity middleware normally populates the context.
    c.Set("claimant_id", "dave")

    require.NoError(t, h.LockSeat(c))
    require.Equal(t, http.StatusOK, rec.Code)

    seats := snapshot(t, e, h)
    seat7 := seats["7"]
    assert.Equal(t, "LOCKED", seat7["status"])
    assert.Equal(t, "dave", seat7["lock_owner"])
}

func TestSnapshotShowsLockedOwner(t *testing.T) {
    e, h := newTestHandler(t, time.Minute)

    rec, _ := lockSeat(t, e, h, "2", "erin")
    require.Equal(t, http.StatusOK, rec.Code)

    seats := snapshot(t, e, h)
    require.Len(t, seats, 10)
    seat2 := seats["2"]
    assert.Equal(t, "LOCKED", seat2["status"])
    assert.Equal(t, "erin", seat2["lock_owner"])
    assert.NotEmpty(t, seat2["lock_expires_at"])

    seat1 := seats["1"]
    assert.Equal(t, "AVAILABLE", seat1["status"])
    assert.NotContains(t, seat1, "lock_owner")
}

func TestAuditEndpointWithoutDatabase(t *testing.T) {
    e, h := newTestHandler(t, time.Minute)

    req := httptest.NewRequest(http.MethodGet, "/v1/seats/:id/events", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/seats/:id/events")
    c.SetParamNames("id")
    c.SetParamValues("1")

    require.NoError(t, h.ListSeatEvents(c))
    assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
