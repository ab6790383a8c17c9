package http

import (
	"log/slog"
	"net/http"

	"rental_showcase/internal/transport/http/dto"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListUnits godoc
// @Summary Юниты многоквартирного объекта
// @Tags units
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {object} response.Response{data=[]dto.UnitRow}
// @Failure 400 {object} response.ErrorResponse "Объект не многоквартирный"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/properties/{id}/units [get]
func (r *Routers) ListUnits(c echo.Context) error {
	const op = "http.routers.ListUnits"

	log := r.log.With(
		slog.String("op", op),
	)

	propertyID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	units, err := r.UnitService.ListUnits(c.Request().Context(), propertyID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewUnitRows(units)))
}

// GetUnit godoc
// @Summary Юнит с изображениями
// @Tags units
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param unit_id path string true "UUID юнита" format(uuid)
// @Success 200 {object} response.Response{data=models.Unit}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/properties/{id}/units/{unit_id} [get]
func (r *Routers) GetUnit(c echo.Context) error {
	const op = "http.routers.GetUnit"

	log := r.log.With(
		slog.String("op", op),
	)

	propertyID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}
	unitID, err := pathUUID(c, "unit_id")
	if err != nil {
		return fail(c, log, err)
	}

	unit, err := r.UnitService.GetUnit(c.Request().Context(), propertyID, unitID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(unit))
}

// CreateUnit godoc
// @Summary Создание юнита
// @Tags units
// @Accept json
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param request body dto.UnitRequest true "Юнит"
// @Success 201 {object} response.Response{data=models.Unit}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/units [post]
func (r *Routers) CreateUnit(c echo.Context) error {
	const op = "http.routers.CreateUnit"

	log := r.log.With(
		slog.String("op", op),
	)

	propertyID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.UnitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	unit, images := req.ToDomain(propertyID)

	created, err := r.UnitService.CreateUnit(c.Request().Context(), unit, images)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(created))
}

// UpdateUnit godoc
// @Summary Частичное обновление юнита
// @Tags units
// @Accept json
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param unit_id path string true "UUID юнита" format(uuid)
// @Param request body dto.UnitPatch true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Unit}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/units/{unit_id} [patch]
func (r *Routers) UpdateUnit(c echo.Context) error {
	const op = "http.routers.UpdateUnit"

	log := r.log.With(
		slog.String("op", op),
	)

	propertyID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}
	unitID, err := pathUUID(c, "unit_id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.UnitPatch
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	update, images := req.ToDomain()

	updated, err := r.UnitService.UpdateUnit(c.Request().Context(), propertyID, unitID, update, images)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

// DeleteUnit godoc
// @Summary Удаление юнита
// @Tags units
// @Param id path string true "UUID объекта" format(uuid)
// @Param unit_id path string true "UUID юнита" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/units/{unit_id} [delete]
func (r *Routers) DeleteUnit(c echo.Context) error {
	const op = "http.routers.DeleteUnit"

	log := r.log.With(
		slog.String("op", op),
	)

	propertyID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}
	unitID, err := pathUUID(c, "unit_id")
	if err != nil {
		return fail(c, log, err)
	}

	if err := r.UnitService.DeleteUnit(c.Request().Context(), propertyID, unitID); err != nil {
		return fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
