package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/transport/http/dto"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// список сравнения живёт в cookie-сессии посетителя, id через запятую
const sessionCompare = "compare"

func compareIDs(sess *sessions.Session) []uuid.UUID {
	raw, _ := sess.Values[sessionCompare].(string)
	if raw == "" {
		return nil
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		if id, err := uuid.Parse(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func saveCompareIDs(c echo.Context, sess *sessions.Session, ids []uuid.UUID) error {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	sess.Values[sessionCompare] = strings.Join(parts, ",")

	return sess.Save(c.Request(), c.Response())
}

// GetComparison godoc
// @Summary Объекты в списке сравнения
// @Tags compare
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.PropertyCard}
// @Router /api/v1/compare [get]
func (r *Routers) GetComparison(c echo.Context) error {
	const op = "http.routers.GetComparison"

	log := r.log.With(
		slog.String("op", op),
	)

	sess, err := session.Get(sessionName, c)
	if err != nil {
		log.Error("failed to get session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	ids := compareIDs(sess)
	if len(ids) == 0 {
		return c.JSON(http.StatusOK, response.SuccessResponse([]dto.PropertyCard{}))
	}

	properties, err := r.PropertyService.Compare(c.Request().Context(), ids)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewPropertyCards(properties)))
}

// AddToComparison godoc
// @Summary Добавить объект к сравнению
// @Tags compare
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {object} response.Response{data=[]string} "Текущий список id"
// @Failure 400 {object} response.ErrorResponse "Список заполнен"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/compare/{id} [post]
func (r *Routers) AddToComparison(c echo.Context) error {
	const op = "http.routers.AddToComparison"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		log.Error("failed to get session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	ids := compareIDs(sess)
	for _, existing := range ids {
		if existing == id {
			return c.JSON(http.StatusOK, response.SuccessResponse(ids))
		}
	}
	if len(ids) >= models.MaxCompare {
		return fail(c, log, models.NewValidationError("compare", fmt.Sprintf("at most %d properties can be compared", models.MaxCompare)))
	}

	if _, err := r.PropertyService.GetProperty(c.Request().Context(), id); err != nil {
		return fail(c, log, err)
	}

	ids = append(ids, id)
	if err := saveCompareIDs(c, sess, ids); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(ids))
}

// RemoveFromComparison godoc
// @Summary Убрать объект из сравнения
// @Tags compare
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/v1/compare/{id} [delete]
func (r *Routers) RemoveFromComparison(c echo.Context) error {
	const op = "http.routers.RemoveFromComparison"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		log.Error("failed to get session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	ids := compareIDs(sess)
	kept := make([]uuid.UUID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}

	if err := saveCompareIDs(c, sess, kept); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(kept))
}

// ClearComparison godoc
// @Summary Очистить список сравнения
// @Tags compare
// @Success 204
// @Router /api/v1/compare [delete]
func (r *Routers) ClearComparison(c echo.Context) error {
	const op = "http.routers.ClearComparison"

	sess, err := session.Get(sessionName, c)
	if err != nil {
		r.log.Error("failed to get session", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	delete(sess.Values, sessionCompare)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		r.log.Error("failed to save session", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusNoContent)
}
