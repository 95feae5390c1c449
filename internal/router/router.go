package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/seat-lock-service/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not belong to the seat lock API
// on the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterSeatLocks registers the mutating seat lock endpoints under /v1.
// The optional middleware (typically the rate limiter) applies to the whole
// group. Claimants lock a seat, confirm the hold into a booking, or release
// it early; unconfirmed holds expire on their own.
func RegisterSeatLocks(e *echo.Echo, h *handler.SeatLockHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.POST("/seats/:id/lock", h.LockSeat)
	g.POST("/seats/:id/confirm", h.ConfirmSeat)
	g.DELETE("/seats/:id/lock", h.UnlockSeat)
}

// RegisterSnapshot registers the read-only seat snapshot endpoint. The
// optional middleware (typically the Redis response cache) applies to the
// route only, so mutating endpoints are never served stale state.
func RegisterSnapshot(e *echo.Echo, h *handler.SeatLockHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/v1/seats", h.Snapshot, mw...)
}

// RegisterAudit registers the lifecycle audit endpoint. Callers should only
// register this route when a database is configured; the handler answers
// 503 otherwise.
func RegisterAudit(e *echo.Echo, h *handler.SeatLockHandler) {
	e.GET("/v1/seats/:id/events", h.ListSeatEvents)
}
