package middleware

import (
	"strconv"
	"time"

	"rental_showcase/internal/metrics"

	"github.com/labstack/echo/v4"
)

// PrometheusMetrics пишет счётчик и длительность запросов.
// Путь берётся из шаблона маршрута, чтобы id объектов не раздували кардинальность.
func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		duration := time.Since(start).Seconds()

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}

		status := c.Response().Status
		if err != nil {
			// ошибка ещё не записана в ответ, статус берём из неё
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request().Method,
			path,
			strconv.Itoa(status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request().Method,
			path,
		).Observe(duration)

		return err
	}
}
