package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/imaging"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/storage"
	filestorage "rental_showcase/internal/storage/filestorage"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Login(ctx context.Context, email, password string) (models.User, *models.TokenPair, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type AuthService interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ValidateAccessToken(accessToken string) (uuid.UUID, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type MediaService interface {
	List(ctx context.Context, parent models.Parent) ([]models.MediaItem, error)
	ReplaceAll(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error)
	Append(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error)
	SetPrimary(ctx context.Context, parent models.Parent, itemID uuid.UUID) error
	Reorder(ctx context.Context, parent models.Parent, orderedIDs []uuid.UUID) ([]models.MediaItem, error)
	DeleteItem(ctx context.Context, parent models.Parent, itemID uuid.UUID) (models.MediaItem, error)
	DeleteAll(ctx context.Context, parent models.Parent) (int64, error)
}

type UploadService interface {
	RequestUploadSlot(ctx context.Context, userID uuid.UUID) (models.UploadSlot, error)
	ReceiveObject(ctx context.Context, objectID uuid.UUID, token string, body io.Reader) (*imaging.Result, error)
	CompleteUpload(ctx context.Context, userID uuid.UUID, uploadedURL string) (string, error)
	CompleteBatch(ctx context.Context, userID uuid.UUID, urls []string) ([]models.UploadOutcome, error)
	OpenObject(ctx context.Context, objectID, userID uuid.UUID) (io.ReadCloser, filestorage.ObjectInfo, error)
}

type PropertyService interface {
	ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (models.Property, error)
	Compare(ctx context.Context, ids []uuid.UUID) ([]models.Property, error)
	CreateProperty(ctx context.Context, property models.Property, images []models.ImageInput) (models.Property, error)
	UpdateProperty(ctx context.Context, id uuid.UUID, update models.PropertyUpdate, images *[]models.ImageInput) (models.Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
}

type UnitService interface {
	ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error)
	GetUnit(ctx context.Context, propertyID, unitID uuid.UUID) (models.Unit, error)
	CreateUnit(ctx context.Context, unit models.Unit, images []models.ImageInput) (models.Unit, error)
	UpdateUnit(ctx context.Context, propertyID, unitID uuid.UUID, update models.UnitUpdate, images *[]models.ImageInput) (models.Unit, error)
	DeleteUnit(ctx context.Context, propertyID, unitID uuid.UUID) error
	CheckUnit(ctx context.Context, propertyID, unitID uuid.UUID) error
}

type AnalyticsService interface {
	RecordView(ctx context.Context, propertyID uuid.UUID, ip, userAgent string) error
	ViewStats(ctx context.Context, period time.Duration) ([]models.ViewStats, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Routers struct {
	log              *slog.Logger
	UserService      UserService
	AuthService      AuthService
	MediaService     MediaService
	UploadService    UploadService
	PropertyService  PropertyService
	UnitService      UnitService
	AnalyticsService AnalyticsService
	HealthChecks     map[string]HealthChecker
}

func NewRouter(
	log *slog.Logger,
	userService UserService,
	authService AuthService,
	mediaService MediaService,
	uploadService UploadService,
	propertyService PropertyService,
	unitService UnitService,
	analyticsService AnalyticsService,
) *Routers {
	return &Routers{
		log:              log,
		UserService:      userService,
		AuthService:      authService,
		MediaService:     mediaService,
		UploadService:    uploadService,
		PropertyService:  propertyService,
		UnitService:      unitService,
		AnalyticsService: analyticsService,
		HealthChecks:     make(map[string]HealthChecker),
	}
}

// errorBody переводит ошибку сервисного слоя в HTTP-статус и тело ответа.
// Все обработчики проходят через него, чтобы таксономия была одна.
func errorBody(err error) (int, response.ErrorResponse) {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, response.Validation(verr.Fields)
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, response.ErrAuthenticationRequired
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		return http.StatusNotFound, response.ErrorResponseWithDetails(response.CodeNotFound, "Resource not found")
	case errors.Is(err, storage.ErrSlotExpired):
		return http.StatusGone, response.ErrorResponseWithDetails(response.CodeGone, "Upload link was already used or has expired")
	case errors.Is(err, storage.ErrInvalidSignature):
		return http.StatusForbidden, response.ErrorResponseWithDetails(response.CodeForbidden, "Upload link signature is invalid")
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, response.ErrorResponseWithDetails(response.CodeTooLarge, "File exceeds the size limit")
	case errors.Is(err, storage.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType, response.ErrorResponseWithDetails(response.CodeUnsupportedType, "Only JPEG, PNG and WebP images are accepted")
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, response.ErrorResponseWithDetails(response.CodeUnavailable, "Storage is temporarily unavailable")
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// fail пишет ответ с ошибкой. Серверные ошибки логируются как error,
// клиентские как warn.
func fail(c echo.Context, log *slog.Logger, err error) error {
	status, body := errorBody(err)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Int("status", status), sl.Err(err))
	} else {
		log.Warn("request rejected", slog.Int("status", status), sl.Err(err))
	}

	return c.JSON(status, body)
}

// pathUUID читает uuid из параметра пути
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, models.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}
