package http

import (
	"investor-radar/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs every request through the application logger and puts
// the request id on the request context.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), id)))
			}
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.ErrorContext(c.Request().Context(), "HTTP request failed",
					logger.StringField("method", v.Method),
					logger.StringField("uri", v.URI),
					logger.IntField("status", v.Status),
					logger.Field("latency", v.Latency.String()),
					logger.ErrorField(v.Error))
				return nil
			}
			log.InfoContext(c.Request().Context(), "HTTP request",
				logger.StringField("method", v.Method),
				logger.StringField("uri", v.URI),
				logger.IntField("status", v.Status),
				logger.Field("latency", v.Latency.String()))
			return nil
		},
	})
}
