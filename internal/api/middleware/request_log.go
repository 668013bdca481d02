package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLog writes one zerolog entry per request. Server errors log at
// error level, client errors at warn.
func RequestLog(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", c.Path()).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
