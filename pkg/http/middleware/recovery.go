package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "LaborPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover converts handler panics into 500 responses so one bad request
// cannot take the server down. The stack is logged, never returned to the
// client.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				l.Error("panic recovered",
					applogger.String("method", c.Request().Method),
					applogger.String("uri", c.Request().RequestURI),
					applogger.Error(err),
					applogger.String("stack", string(debug.Stack())),
				)
				_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"status":  http.StatusInternalServerError,
					"message": "Internal Server Error",
				})
			}()
			return next(c)
		}
	}
}
