package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/transport/http/dto"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListProperties godoc
// @Summary Список объектов
// @Description Новые сверху. Каждая карточка несёт одно изображение: главное, первое или заглушку.
// @Tags properties
// @Produce json
// @Param location query string false "Город" Enums(atlanta, dallas)
// @Param featured query boolean false "Только избранные"
// @Success 200 {object} response.Response{data=[]dto.PropertyCard}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/properties [get]
func (r *Routers) ListProperties(c echo.Context) error {
	const op = "http.routers.ListProperties"

	log := r.log.With(
		slog.String("op", op),
	)

	var filter models.PropertyFilter

	if raw := strings.TrimSpace(c.QueryParam("location")); raw != "" {
		loc := models.Location(strings.ToLower(raw))
		filter.Location = &loc
	}
	if raw := c.QueryParam("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(c, log, models.NewValidationError("featured", "must be true or false"))
		}
		filter.FeaturedOnly = featured
	}

	properties, err := r.PropertyService.ListProperties(c.Request().Context(), filter)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewPropertyCards(properties)))
}

// GetProperty godoc
// @Summary Объект со всеми изображениями и юнитами
// @Tags properties
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {object} response.Response{data=models.Property}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/properties/{id} [get]
func (r *Routers) GetProperty(c echo.Context) error {
	const op = "http.routers.GetProperty"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	property, err := r.PropertyService.GetProperty(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(property))
}

// CreateProperty godoc
// @Summary Создание объекта вместе с галереей
// @Tags properties
// @Accept json
// @Produce json
// @Param request body dto.PropertyRequest true "Объект"
// @Success 201 {object} response.Response{data=models.Property}
// @Failure 400 {object} response.ErrorResponse "Ошибки по полям"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties [post]
func (r *Routers) CreateProperty(c echo.Context) error {
	const op = "http.routers.CreateProperty"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.PropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	property, images := req.ToDomain()

	created, err := r.PropertyService.CreateProperty(c.Request().Context(), property, images)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("property created", slog.String("property_id", created.ID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(created))
}

// UpdateProperty godoc
// @Summary Частичное обновление объекта
// @Description Поле images заменяет галерею целиком; без него галерея не меняется
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param request body dto.PropertyPatch true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Property}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id} [patch]
func (r *Routers) UpdateProperty(c echo.Context) error {
	const op = "http.routers.UpdateProperty"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.PropertyPatch
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	update, images := req.ToDomain()

	updated, err := r.PropertyService.UpdateProperty(c.Request().Context(), id, update, images)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(updated))
}

// DeleteProperty godoc
// @Summary Удаление объекта
// @Description Юниты и изображения удаляются вместе с объектом
// @Tags properties
// @Param id path string true "UUID объекта" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id} [delete]
func (r *Routers) DeleteProperty(c echo.Context) error {
	const op = "http.routers.DeleteProperty"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	if err := r.PropertyService.DeleteProperty(c.Request().Context(), id); err != nil {
		return fail(c, log, err)
	}

	log.Info("property deleted", slog.String("property_id", id.String()))

	return c.NoContent(http.StatusNoContent)
}
