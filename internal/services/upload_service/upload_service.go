package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/imaging"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"
	"rental_showcase/internal/storage"
	filestorage "rental_showcase/internal/storage/filestorage"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
)

const DefaultUploadTTL = 15 * time.Minute

// UploadService координирует прямую загрузку: выдаёт слот, принимает содержимое
// по подписанной ссылке и после загрузки проставляет ACL объекта.
type UploadService struct {
	log     *slog.Logger
	objects filestorage.ObjectStorage
	slots   repository.UploadSlotRepository
	ttl     time.Duration
}

func NewUploadService(log *slog.Logger, objects filestorage.ObjectStorage, slots repository.UploadSlotRepository, ttl time.Duration) *UploadService {
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}

	return &UploadService{
		log:     log,
		objects: objects,
		slots:   slots,
		ttl:     ttl,
	}
}

func (s *UploadService) RequestUploadSlot(ctx context.Context, userID uuid.UUID) (models.UploadSlot, error) {
	const op = "upload_service.RequestUploadSlot"

	if userID == uuid.Nil {
		return models.UploadSlot{}, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	objectID := uuid.New()

	if err := s.slots.SaveSlot(ctx, objectID, userID, s.ttl); err != nil {
		log.Error("failed to save upload slot", sl.Err(err))

		return models.UploadSlot{}, fmt.Errorf("%s: %w", op, err)
	}

	uploadURL, expiresAt, err := s.objects.IssueUploadURL(objectID, s.ttl)
	if err != nil {
		log.Error("failed to sign upload url", sl.Err(err))

		return models.UploadSlot{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("upload slot issued", slog.String("object_id", objectID.String()))

	return models.UploadSlot{
		ObjectID:  objectID,
		Method:    http.MethodPut,
		URL:       uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// ReceiveObject принимает содержимое по подписанной ссылке. Слот одноразовый:
// повторная загрузка по той же ссылке получает ErrSlotExpired.
func (s *UploadService) ReceiveObject(ctx context.Context, objectID uuid.UUID, token string, body io.Reader) (*imaging.Result, error) {
	const op = "upload_service.ReceiveObject"

	log := s.log.With(
		slog.String("op", op),
		slog.String("object_id", objectID.String()),
	)

	if err := s.objects.VerifyUploadToken(objectID, token); err != nil {
		log.Warn("rejected upload token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	owner, err := s.slots.ConsumeSlot(ctx, objectID)
	if err != nil {
		log.Warn("upload slot unavailable", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	img, err := imaging.Process(body)
	if err != nil {
		log.Warn("rejected upload content", sl.Err(err))

		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrInvalidFileType, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.objects.Put(ctx, objectID, bytes.NewReader(img.Data)); err != nil {
		log.Error("failed to store object", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// до завершения загрузки объект видит только владелец
	policy := models.AccessPolicy{Owner: owner, Visibility: models.VisibilityPrivate}
	if _, err := s.objects.SetAccessPolicy(ctx, filestorage.ObjectPrefix+objectID.String(), policy); err != nil {
		log.Error("failed to set owner acl", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("object stored",
		slog.String("mime", img.MIME),
		slog.Int("width", img.Width),
		slog.Int("height", img.Height),
	)

	return img, nil
}

// CompleteUpload нормализует ссылку и делает объект публичным.
// Сторонние ссылки возвращаются без изменений.
func (s *UploadService) CompleteUpload(ctx context.Context, userID uuid.UUID, uploadedURL string) (string, error) {
	const op = "upload_service.CompleteUpload"

	if userID == uuid.Nil {
		return "", fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	if uploadedURL == "" {
		return "", fmt.Errorf("%s: %w", op, models.NewValidationError("url", "is required"))
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	objectPath := s.objects.NormalizeObjectPath(uploadedURL)

	// завершить загрузку может только тот, кто её начал
	if objectID, ok := filestorage.ObjectIDFromPath(objectPath); ok {
		current, err := s.objects.GetAccessPolicy(ctx, objectID)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return "", fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
			}
			log.Error("failed to read acl", slog.String("url", uploadedURL), sl.Err(err))

			return "", fmt.Errorf("%s: %w", op, err)
		}
		if current.Owner != userID {
			log.Warn("upload completion by non-owner rejected", slog.String("object_path", objectPath))

			return "", fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
	}

	policy := models.AccessPolicy{Owner: userID, Visibility: models.VisibilityPublic}

	objectPath, err := s.objects.SetAccessPolicy(ctx, objectPath, policy)
	if err != nil {
		log.Error("failed to complete upload", slog.String("url", uploadedURL), sl.Err(err))

		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("upload completed", slog.String("object_path", objectPath))

	return objectPath, nil
}

// CompleteBatch завершает загрузки параллельно. Ошибка одного файла не влияет на
// остальные; результаты идут в порядке urls.
func (s *UploadService) CompleteBatch(ctx context.Context, userID uuid.UUID, urls []string) ([]models.UploadOutcome, error) {
	const op = "upload_service.CompleteBatch"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	outcomes := iter.Map(urls, func(u *string) models.UploadOutcome {
		path, err := s.CompleteUpload(ctx, userID, *u)
		return models.UploadOutcome{URL: *u, ObjectPath: path, Err: err}
	})

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		s.log.Warn("batch completed with failures",
			slog.String("op", op),
			slog.Int("failed", failed),
			slog.Int("total", len(urls)),
		)
	}

	return outcomes, nil
}

// OpenObject отдаёт объект, если его ACL разрешает чтение userID
func (s *UploadService) OpenObject(ctx context.Context, objectID, userID uuid.UUID) (io.ReadCloser, filestorage.ObjectInfo, error) {
	const op = "upload_service.OpenObject"

	policy, err := s.objects.GetAccessPolicy(ctx, objectID)
	if err != nil {
		return nil, filestorage.ObjectInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	rc, info, err := s.objects.Open(ctx, objectID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, filestorage.ObjectInfo{}, fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
		}
		return nil, filestorage.ObjectInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	if !policy.CanRead(userID) {
		rc.Close()
		return nil, filestorage.ObjectInfo{}, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	info.Public = policy.Visibility == models.VisibilityPublic

	return rc, info, nil
}

// BatchFailed сообщает, есть ли в пакете хотя бы одна ошибка
func BatchFailed(outcomes []models.UploadOutcome) bool {
	for _, o := range outcomes {
		if o.Err != nil {
			return true
		}
	}
	return false
}
