// Package middleware provides the request gate that authenticates every
// inbound request before it reaches a handler.
package middleware

import (
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/dkoroteev/auth-service/internal/auth"
)

// Context keys under which the gate stores the verified identity.
const (
    ClaimsKey = "claims"
    UserIDKey = "user_id"
    RoleKey   = "role"
)

// Authenticate returns the request gate. It classifies each request as
// public or protected, extracts and verifies the bearer token for
// protected paths, and injects the verified claims into the request
// context. Any failure yields the same opaque 401 body; the gate never
// tells the client whether the token was missing, malformed, forged or
// expired. Authorization (role checks) is left to handlers.
func Authenticate(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if isPublicPath(c.Request().URL.Path) {
                return next(c)
            }

            // The scheme prefix is matched case-sensitively with exactly
            // one space. An empty remainder is forwarded to verification,
            // which rejects it as malformed; it is not short-circuited
            // here.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return unauthorized(c)
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            claims, err := auth.VerifyToken(raw, secret)
            if err != nil {
                // The reason stays in the server log only.
                log.Printf("gate: reject %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
                return unauthorized(c)
            }
            if claims.TokenType != auth.TokenTypeAccess {
                log.Printf("gate: reject %s %s: token type %q", c.Request().Method, c.Request().URL.Path, claims.TokenType)
                return unauthorized(c)
            }

            c.Set(ClaimsKey, claims)
            c.Set(UserIDKey, claims.UserID)
            c.Set(RoleKey, claims.Role)
            return next(c)
        }
    }
}

// isPublicPath reports whether the path is reachable without a token:
// the auth endpoints themselves and the health probe.
func isPublicPath(path string) bool {
    return strings.HasPrefix(path, "/api/auth") || path == "/api/health"
}

func unauthorized(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
