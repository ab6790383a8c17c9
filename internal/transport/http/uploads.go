package http

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rental_showcase/internal/metrics"
	filestorage "rental_showcase/internal/storage/filestorage"
	"rental_showcase/internal/transport/http/dto"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const (
	placeholderMaxSide        = 2000
	publicObjectCacheControl  = "public, max-age=31536000, immutable"
	privateObjectCacheControl = "private, no-store"
)

// RequestUpload godoc
// @Summary Выдача ссылки на загрузку
// @Description Возвращает подписанную одноразовую ссылку для PUT содержимого
// @Tags uploads
// @Produce json
// @Success 200 {object} response.Response{data=models.UploadSlot}
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/objects/upload [post]
func (r *Routers) RequestUpload(c echo.Context) error {
	const op = "http.routers.RequestUpload"

	log := r.log.With(
		slog.String("op", op),
	)

	slot, err := r.UploadService.RequestUploadSlot(c.Request().Context(), CurrentUserID(c))
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(slot))
}

// ReceiveObject godoc
// @Summary Загрузка содержимого по подписанной ссылке
// @Tags uploads
// @Accept image/jpeg,image/png,image/webp
// @Produce json
// @Param id path string true "UUID объекта" format(uuid)
// @Param token query string true "Подпись ссылки"
// @Success 200 {object} response.Response{data=dto.StoredObject}
// @Failure 403 {object} response.ErrorResponse "Подпись неверна или истекла"
// @Failure 410 {object} response.ErrorResponse "Ссылка уже использована"
// @Failure 413 {object} response.ErrorResponse
// @Failure 415 {object} response.ErrorResponse
// @Router /api/v1/blob/{id} [put]
func (r *Routers) ReceiveObject(c echo.Context) error {
	const op = "http.routers.ReceiveObject"

	log := r.log.With(
		slog.String("op", op),
	)

	objectID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	img, err := r.UploadService.ReceiveObject(c.Request().Context(), objectID, c.QueryParam("token"), c.Request().Body)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return fail(c, log, err)
	}
	metrics.UploadsTotal.WithLabelValues("stored").Inc()

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.StoredObject{
		ObjectPath: filestorage.ObjectPrefix + objectID.String(),
		MIME:       img.MIME,
		Width:      img.Width,
		Height:     img.Height,
	}))
}

// CompleteUploads godoc
// @Summary Завершение загрузок
// @Description Нормализует ссылки и открывает доступ к объектам. Ошибка одного файла
// @Description не влияет на остальные: при частичной неудаче ответ 207 с результатом по каждому файлу.
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body dto.CompleteUploadsRequest true "Ссылки загруженных файлов"
// @Success 200 {object} dto.CompleteUploadsResponse
// @Success 207 {object} dto.CompleteUploadsResponse "Часть файлов не завершена"
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/objects/complete [post]
func (r *Routers) CompleteUploads(c echo.Context) error {
	const op = "http.routers.CompleteUploads"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CompleteUploadsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, log, err)
	}

	outcomes, err := r.UploadService.CompleteBatch(c.Request().Context(), CurrentUserID(c), req.URLs)
	if err != nil {
		return fail(c, log, err)
	}

	status, label := http.StatusOK, "success"
	for _, o := range outcomes {
		if o.Err != nil {
			status, label = http.StatusMultiStatus, "partial"
			metrics.UploadsTotal.WithLabelValues("completion_failed").Inc()
		} else {
			metrics.UploadsTotal.WithLabelValues("completed").Inc()
		}
	}

	return c.JSON(status, dto.CompleteUploadsResponse{
		Status:   label,
		Outcomes: dto.NewUploadOutcomes(outcomes),
	})
}

// ServeObject godoc
// @Summary Отдача загруженного объекта
// @Description Публичные объекты доступны всем, приватные только владельцу
// @Tags uploads
// @Produce image/jpeg,image/png,image/webp
// @Param id path string true "UUID объекта" format(uuid)
// @Success 200 {file} binary
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /objects/{id} [get]
func (r *Routers) ServeObject(c echo.Context) error {
	const op = "http.routers.ServeObject"

	log := r.log.With(
		slog.String("op", op),
	)

	objectID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, log, err)
	}

	rc, info, err := r.UploadService.OpenObject(c.Request().Context(), objectID, CurrentUserID(c))
	if err != nil {
		return fail(c, log, err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)

	h := c.Response().Header()
	h.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	h.Set(echo.HeaderLastModified, info.ModTime.UTC().Format(http.TimeFormat))
	if info.Public {
		h.Set("Cache-Control", publicObjectCacheControl)
	} else {
		h.Set("Cache-Control", privateObjectCacheControl)
	}

	return c.Stream(http.StatusOK, contentType, br)
}

// Placeholder godoc
// @Summary Заглушка изображения
// @Description SVG указанного размера, отдаётся вместо изображения пустой коллекции
// @Tags uploads
// @Produce image/svg+xml
// @Param width path int true "Ширина"
// @Param height path int true "Высота"
// @Success 200 {string} string
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/placeholder/{width}/{height} [get]
func (r *Routers) Placeholder(c echo.Context) error {
	const op = "http.routers.Placeholder"

	width, errW := strconv.Atoi(c.Param("width"))
	height, errH := strconv.Atoi(c.Param("height"))
	if errW != nil || errH != nil || width < 1 || height < 1 || width > placeholderMaxSide || height > placeholderMaxSide {
		r.log.Debug("bad placeholder size", slog.String("op", op))
		return c.JSON(http.StatusBadRequest, response.Validation(map[string]string{
			"size": fmt.Sprintf("width and height must be between 1 and %d", placeholderMaxSide),
		}))
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 %[1]d %[2]d">`+
		`<rect width="100%%" height="100%%" fill="#e5e7eb"/>`+
		`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" font-size="%[3]d" fill="#9ca3af">%[1]dx%[2]d</text>`+
		`</svg>`, width, height, max(10, min(width, height)/8))

	c.Response().Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int((24*time.Hour).Seconds())))

	return c.Blob(http.StatusOK, "image/svg+xml", []byte(svg))
}
