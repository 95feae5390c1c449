package middleware

// identity.go resolves the claimant identity for a request. Claimants are
// not authenticated: the identity is an opaque token, trusted as given.
// The X-Claimant-ID header takes precedence; failing that, a bearer token
// in the Authorization header is parsed WITHOUT signature verification and
// its "sub" (or "claimant_id") claim is used. Handlers may still override
// the resolved value with an explicit claimant_id in the request body.

import (
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// claimantContextKey is where the resolved claimant id is stored on the
// Echo context.
const claimantContextKey = "claimant_id"

// ClaimantExtractor resolves the claimant id once per request and stores
// it on the context for handlers and the rate limiter.
func ClaimantExtractor() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            c.Set(claimantContextKey, resolveClaimant(c))
            return next(c)
        }
    }
}

// ClaimantFrom returns the claimant id resolved by ClaimantExtractor, or
// "" when the request carried no identity.
func ClaimantFrom(c echo.Context) string {
    v, _ := c.Get(claimantContextKey).(string)
    return v
}

func resolveClaimant(c echo.Context) string {
    if v := strings.TrimSpace(c.Request().Header.Get("X-Claimant-ID")); v != "" {
        return v
    }
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    const prefix = "Bearer "
    if !strings.HasPrefix(auth, prefix) {
        return ""
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, prefix))
    if raw == "" {
        return ""
    }
    // ParseUnverified: the token is an identity carrier, not a credential.
    tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
    if err != nil {
        return ""
    }
    cl, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return ""
    }
    if v, ok := cl["sub"].(string); ok && v != "" {
        return v
    }
    if v, ok := cl["claimant_id"].(string); ok && v != "" {
        return v
    }
    return ""
}
