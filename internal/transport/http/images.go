package http

import (
	"errors"
	"log/slog"
	"net/http"

	"rental_showcase/internal/domain/models"
	mediaservice "rental_showcase/internal/services/media_service"
	"rental_showcase/internal/transport/http/dto"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// parentFromPath определяет коллекцию по параметрам маршрута:
// /properties/:id/units/:unit_id -> юнит, /properties/:id -> объект, иначе hero.
// Юнит должен принадлежать объекту из пути.
func (r *Routers) parentFromPath(c echo.Context) (models.Parent, error) {
	if c.Param("unit_id") != "" {
		propertyID, err := pathUUID(c, "id")
		if err != nil {
			return models.Parent{}, err
		}
		unitID, err := pathUUID(c, "unit_id")
		if err != nil {
			return models.Parent{}, err
		}
		if err := r.UnitService.CheckUnit(c.Request().Context(), propertyID, unitID); err != nil {
			return models.Parent{}, err
		}
		return models.UnitParent(unitID), nil
	}

	if c.Param("id") != "" {
		id, err := pathUUID(c, "id")
		if err != nil {
			return models.Parent{}, err
		}
		return models.PropertyParent(id), nil
	}

	return models.HeroParent(), nil
}

// ListImages godoc
// @Summary Изображения коллекции
// @Description Возвращает изображения в порядке отображения
// @Tags images
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {object} response.Response{data=[]models.MediaItem}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/properties/{id}/images [get]
// @Router /api/v1/properties/{id}/units/{unit_id}/images [get]
// @Router /api/v1/hero/images [get]
func (r *Routers) ListImages(c echo.Context) error {
	const op = "http.routers.ListImages"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	items, err := r.MediaService.List(c.Request().Context(), parent)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}

// ReplaceImages godoc
// @Summary Замена всех изображений коллекции
// @Description Сохраняет форму целиком: порядок задаётся позицией в списке, главное изображение одно
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param request body dto.ReplaceImagesRequest true "Новый набор изображений"
// @Success 200 {object} response.Response{data=[]models.MediaItem}
// @Failure 400 {object} response.ErrorResponse "Ошибки по полям"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/images [put]
// @Router /api/v1/properties/{id}/units/{unit_id}/images [put]
// @Router /api/v1/hero/images [put]
func (r *Routers) ReplaceImages(c echo.Context) error {
	const op = "http.routers.ReplaceImages"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.ReplaceImagesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	items, err := r.MediaService.ReplaceAll(c.Request().Context(), parent, dto.ToImageInputs(req.Images))
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}

// AppendImages godoc
// @Summary Добавление изображений в конец коллекции
// @Description Первое изображение пустой коллекции становится главным
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param request body dto.ImagesRequest true "Добавляемые изображения"
// @Success 201 {object} response.Response{data=[]models.MediaItem} "Добавленные изображения"
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/images [post]
// @Router /api/v1/properties/{id}/units/{unit_id}/images [post]
// @Router /api/v1/hero/images [post]
func (r *Routers) AppendImages(c echo.Context) error {
	const op = "http.routers.AppendImages"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.ImagesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	items, err := r.MediaService.Append(c.Request().Context(), parent, dto.ToImageInputs(req.Images))
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(items))
}

// DeleteImage godoc
// @Summary Удаление одного изображения
// @Description Если удалено главное изображение, главным становится первое оставшееся
// @Tags images
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param image_id path string true "UUID изображения" format(uuid)
// @Success 200 {object} response.Response{data=models.MediaItem} "Удалённое изображение"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/images/{image_id} [delete]
// @Router /api/v1/properties/{id}/units/{unit_id}/images/{image_id} [delete]
// @Router /api/v1/hero/images/{image_id} [delete]
func (r *Routers) DeleteImage(c echo.Context) error {
	const op = "http.routers.DeleteImage"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	imageID, err := pathUUID(c, "image_id")
	if err != nil {
		return fail(c, log, err)
	}

	deleted, err := r.MediaService.DeleteItem(c.Request().Context(), parent, imageID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(deleted))
}

// DeleteAllImages godoc
// @Summary Удаление всех изображений коллекции
// @Description Повторный вызов для пустой коллекции не является ошибкой
// @Tags images
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {object} response.Response{data=object{deleted=int}}
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/images [delete]
// @Router /api/v1/properties/{id}/units/{unit_id}/images [delete]
// @Router /api/v1/hero/images [delete]
func (r *Routers) DeleteAllImages(c echo.Context) error {
	const op = "http.routers.DeleteAllImages"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	n, err := r.MediaService.DeleteAll(c.Request().Context(), parent)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]int64{"deleted": n}))
}

// ReorderImages godoc
// @Summary Перестановка изображений
// @Description Принимает все id коллекции в новом порядке. При ошибке тело ответа
// @Description содержит порядок, заново прочитанный из хранилища.
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param request body dto.ReorderRequest true "Id изображений в новом порядке"
// @Success 200 {object} response.Response{data=[]models.MediaItem} "Сохранённый порядок"
// @Failure 400 {object} dto.ReorderFailureResponse "Список не совпадает с коллекцией"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} dto.ReorderFailureResponse "Изображение не принадлежит коллекции"
// @Failure 503 {object} dto.ReorderFailureResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/images/reorder [patch]
// @Router /api/v1/properties/{id}/units/{unit_id}/images/reorder [patch]
// @Router /api/v1/hero/images/reorder [patch]
func (r *Routers) ReorderImages(c echo.Context) error {
	const op = "http.routers.ReorderImages"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	var req dto.ReorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	items, err := r.MediaService.Reorder(c.Request().Context(), parent, req.ImageIDs)
	if err != nil {
		var rerr *mediaservice.ReorderError
		if errors.As(err, &rerr) && rerr.Current != nil {
			status, body := errorBody(err)
			log.Warn("reorder failed, returning stored order",
				slog.String("parent", parent.String()),
				slog.Int("status", status),
			)
			return c.JSON(status, dto.ReorderFailureResponse{
				ErrorResponse: body,
				Images:        rerr.Current,
			})
		}
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}

// SetPrimaryImage godoc
// @Summary Назначение главного изображения
// @Description Снимает отметку с предыдущего главного изображения в той же транзакции
// @Tags images
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param image_id path string true "UUID изображения" format(uuid)
// @Success 200 {object} response.Response{data=[]models.MediaItem}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/properties/{id}/images/{image_id}/primary [patch]
// @Router /api/v1/properties/{id}/units/{unit_id}/images/{image_id}/primary [patch]
// @Router /api/v1/hero/images/{image_id}/primary [patch]
func (r *Routers) SetPrimaryImage(c echo.Context) error {
	const op = "http.routers.SetPrimaryImage"

	log := r.log.With(
		slog.String("op", op),
	)

	parent, err := r.parentFromPath(c)
	if err != nil {
		return fail(c, log, err)
	}

	imageID, err := pathUUID(c, "image_id")
	if err != nil {
		return fail(c, log, err)
	}

	if err := r.MediaService.SetPrimary(c.Request().Context(), parent, imageID); err != nil {
		return fail(c, log, err)
	}

	items, err := r.MediaService.List(c.Request().Context(), parent)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}
