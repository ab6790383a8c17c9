package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"

	"github.com/google/uuid"
)

// PathNormalizer приводит ссылки на загруженные объекты к виду "/objects/<id>"
type PathNormalizer interface {
	NormalizeObjectPath(rawURL string) string
}

// ReorderError - неудачная перестановка вместе с актуальным порядком из хранилища.
// Current равен nil, если повторное чтение тоже не удалось.
type ReorderError struct {
	Err     error
	Current []models.MediaItem
}

func (e *ReorderError) Error() string {
	return e.Err.Error()
}

func (e *ReorderError) Unwrap() error {
	return e.Err
}

type MediaService struct {
	log        *slog.Logger
	repo       repository.MediaRepository
	normalizer PathNormalizer
	onChange   []func(models.Parent)
}

func NewMediaService(log *slog.Logger, repo repository.MediaRepository, normalizer PathNormalizer) *MediaService {
	return &MediaService{
		log:        log,
		repo:       repo,
		normalizer: normalizer,
	}
}

// OnChange регистрирует обработчик, вызываемый после каждого успешного изменения коллекции
func (s *MediaService) OnChange(fn func(models.Parent)) {
	s.onChange = append(s.onChange, fn)
}

func (s *MediaService) changed(parent models.Parent) {
	for _, fn := range s.onChange {
		fn(parent)
	}
}

func (s *MediaService) List(ctx context.Context, parent models.Parent) ([]models.MediaItem, error) {
	const op = "media_service.List"

	if err := parent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.repo.ListByParent(ctx, parent)
	if err != nil {
		s.log.Error("failed to list images", slog.String("op", op), slog.String("parent", parent.String()), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// ReplaceAll заменяет коллекцию целиком: порядок по индексу, основной - помеченный или первый
func (s *MediaService) ReplaceAll(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error) {
	const op = "media_service.ReplaceAll"

	log := s.log.With(
		slog.String("op", op),
		slog.String("parent", parent.String()),
		slog.Int("count", len(inputs)),
	)

	if err := parent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := models.PlanReplacement(parent.ID, s.normalize(inputs))
	if err != nil {
		log.Warn("invalid image set", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.Replace(ctx, parent, items)
	if err != nil {
		log.Error("failed to replace images", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("images replaced")
	s.changed(parent)

	return saved, nil
}

// Append добавляет изображения в конец; в пустой коллекции первое становится основным
func (s *MediaService) Append(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error) {
	const op = "media_service.Append"

	log := s.log.With(
		slog.String("op", op),
		slog.String("parent", parent.String()),
		slog.Int("count", len(inputs)),
	)

	if err := parent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("images", "at least one image is required"))
	}

	added, err := s.repo.Append(ctx, parent, s.normalize(inputs))
	if err != nil {
		log.Error("failed to append images", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("images appended")
	s.changed(parent)

	return added, nil
}

func (s *MediaService) SetPrimary(ctx context.Context, parent models.Parent, itemID uuid.UUID) error {
	const op = "media_service.SetPrimary"

	log := s.log.With(
		slog.String("op", op),
		slog.String("parent", parent.String()),
		slog.String("image_id", itemID.String()),
	)

	if err := parent.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetPrimary(ctx, parent, itemID); err != nil {
		log.Error("failed to set primary image", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("primary image changed")
	s.changed(parent)

	return nil
}

// Reorder записывает новый порядок и возвращает коллекцию, прочитанную после коммита.
// При ошибке возвращается *ReorderError с порядком, заново прочитанным из хранилища,
// а не с тем, что прислал клиент.
func (s *MediaService) Reorder(ctx context.Context, parent models.Parent, orderedIDs []uuid.UUID) ([]models.MediaItem, error) {
	const op = "media_service.Reorder"

	log := s.log.With(
		slog.String("op", op),
		slog.String("parent", parent.String()),
		slog.Int("count", len(orderedIDs)),
	)

	if err := parent.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.Reorder(ctx, parent, orderedIDs); err != nil {
		log.Warn("reorder failed, reading current order", sl.Err(err))

		return nil, s.reorderFailure(ctx, log, parent, fmt.Errorf("%s: %w", op, err))
	}
	s.changed(parent)

	items, err := s.repo.ListByParent(ctx, parent)
	if err != nil {
		log.Error("failed to read images after reorder", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("images reordered")

	return items, nil
}

func (s *MediaService) reorderFailure(ctx context.Context, log *slog.Logger, parent models.Parent, cause error) error {
	current, err := s.repo.ListByParent(ctx, parent)
	if err != nil {
		log.Error("failed to read current order", sl.Err(err))

		return &ReorderError{Err: cause}
	}

	return &ReorderError{Err: cause, Current: current}
}

// DeleteItem удаляет одно изображение; если оно было основным, основным становится первое оставшееся
func (s *MediaService) DeleteItem(ctx context.Context, parent models.Parent, itemID uuid.UUID) (models.MediaItem, error) {
	const op = "media_service.DeleteItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("parent", parent.String()),
		slog.String("image_id", itemID.String()),
	)

	if err := parent.Validate(); err != nil {
		return models.MediaItem{}, fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := s.repo.DeleteByID(ctx, parent, itemID)
	if err != nil {
		log.Warn("failed to delete image", sl.Err(err))

		return models.MediaItem{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image deleted", slog.Bool("was_primary", deleted.IsPrimary))
	s.changed(parent)

	return deleted, nil
}

func (s *MediaService) DeleteAll(ctx context.Context, parent models.Parent) (int64, error) {
	const op = "media_service.DeleteAll"

	log := s.log.With(
		slog.String("op", op),
		slog.String("parent", parent.String()),
	)

	if err := parent.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.repo.DeleteByParent(ctx, parent)
	if err != nil {
		log.Error("failed to delete images", sl.Err(err))

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("images deleted", slog.Int64("count", n))
	s.changed(parent)

	return n, nil
}

// ImagesFor загружает упорядоченные коллекции нескольких родителей одним запросом
func (s *MediaService) ImagesFor(ctx context.Context, kind models.ParentKind, ids []uuid.UUID) (map[uuid.UUID][]models.MediaItem, error) {
	const op = "media_service.ImagesFor"

	if len(ids) == 0 {
		return map[uuid.UUID][]models.MediaItem{}, nil
	}

	byParent, err := s.repo.ListByParents(ctx, kind, ids)
	if err != nil {
		s.log.Error("failed to load images", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return byParent, nil
}

// Representatives возвращает изображение для карточки каждого родителя;
// родители без изображений получают NoImage
func (s *MediaService) Representatives(ctx context.Context, kind models.ParentKind, ids []uuid.UUID) (map[uuid.UUID]models.MediaItem, error) {
	byParent, err := s.ImagesFor(ctx, kind, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]models.MediaItem, len(ids))
	for _, id := range ids {
		out[id] = models.Representative(byParent[id])
	}

	return out, nil
}

// IsReorderError достаёт актуальный порядок из ошибки перестановки
func IsReorderError(err error) (*ReorderError, bool) {
	var re *ReorderError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func (s *MediaService) normalize(inputs []models.ImageInput) []models.ImageInput {
	if s.normalizer == nil {
		return inputs
	}

	out := make([]models.ImageInput, len(inputs))
	for i, in := range inputs {
		in.URL = s.normalizer.NormalizeObjectPath(in.URL)
		out[i] = in
	}

	return out
}
