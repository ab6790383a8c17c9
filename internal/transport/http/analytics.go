package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const maxStatsDays = 365

// RecordView godoc
// @Summary Учёт просмотра страницы объекта
// @Tags analytics
// @Param id path string true "UUID объекта" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/properties/{id}/views [post]
func (r *Routers) RecordView(c echo.Context) error {
	const op = "http.routers.RecordView"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	if err := r.AnalyticsService.RecordView(c.Request().Context(), id, c.RealIP(), c.Request().UserAgent()); err != nil {
		return fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ViewStats godoc
// @Summary Статистика просмотров
// @Description Просмотры по объектам за период с изображением для строки таблицы
// @Tags analytics
// @Produce json
// @Param days query int false "Период в днях (по умолчанию 30)"
// @Success 200 {object} response.Response{data=[]models.ViewStats}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/analytics/views [get]
func (r *Routers) ViewStats(c echo.Context) error {
	const op = "http.routers.ViewStats"

	log := r.log.With(
		slog.String("op", op),
	)

	var period time.Duration
	if raw := c.QueryParam("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxStatsDays {
			return fail(c, log, models.NewValidationError("days", "must be between 1 and 365"))
		}
		period = time.Duration(days) * 24 * time.Hour
	}

	stats, err := r.AnalyticsService.ViewStats(c.Request().Context(), period)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(stats))
}
