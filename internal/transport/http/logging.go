package http

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
)

func registerLogging(e *echo.Echo, logger *zap.Logger) {
	logger = logger.Named("http")
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if p := CurrentPrincipal(c); p != nil && p.User != nil {
				userID = p.User.ID.String()
			}

			// Approval links carry a bearer-equivalent token in the path.
			uri := v.URI
			if strings.Contains(v.RoutePath, ":token") {
				uri = v.RoutePath
			}
			fields := []zap.Field{
				zap.String("user_uuid", userID),
				zap.Int64("latency_ms", v.Latency.Milliseconds()),
				zap.String("method", v.Method),
				zap.String("uri", uri),
				zap.String("route", v.RoutePath),
				zap.Int("status", v.Status),
			}
			if summary := c.Get(requestBodyLogKey); summary != nil {
				fields = append(fields, zap.Any("request_body", summary))
			}
			if summary := c.Get(responseBodyLogKey); summary != nil {
				fields = append(fields, zap.Any("response_body", summary))
			}
			handlerErr, _ := c.Get(handlerErrorKey).(error)
			if v.Error != nil {
				handlerErr = v.Error
			}
			if handlerErr != nil {
				fields = append(fields, zap.Error(handlerErr))
			}

			switch {
			case v.Status >= 500:
				logger.Error("request", fields...)
			case v.Status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := summarizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if summary := summarizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
				c.Set(responseBodyLogKey, summary)
			}
		},
	}))
}
