package handler // declare the package name; contains HTTP handlers

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// serviceName is reported by the health probe.
const serviceName = "auth-service"

// Health is the liveness endpoint used by load balancers and monitoring
// systems. It is always public and reports the service name together with
// the current time in RFC3339.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":    "ok",
        "service":   serviceName,
        "timestamp": time.Now().UTC().Format(time.RFC3339),
    })
}
