package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/telemetry"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// OpenAPIValidator rejects requests that do not match the operation declared in doc.
// Requests for paths outside the document pass through untouched.
func OpenAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return c.JSON(http.StatusBadRequest, servers.Error{Error: err.Error()})
			}

			return next(c)
		}
	}, nil
}

// RequestLogger writes one structured log line per request and records the
// request in the HTTP metrics.
func RequestLogger(logger *slog.Logger, metrics *telemetry.Metrics) echo.MiddlewareFunc {
	logger = logger.With("component", "http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError:   true,
		LogMethod:     true,
		LogURI:        true,
		LogRoutePath:  true,
		LogStatus:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogError:      true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			metrics.ObserveHTTP(v.RoutePath, v.Status, v.Latency)

			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}

			ctx := c.Request().Context()
			switch {
			case v.Error != nil:
				logger.ErrorContext(ctx, "Request failed", append(attrs, "error", v.Error)...)
			case v.Status >= http.StatusInternalServerError:
				logger.ErrorContext(ctx, "Request failed", attrs...)
			default:
				logger.InfoContext(ctx, "Request handled", attrs...)
			}
			return nil
		},
	})
}
