package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxCaptionLength = 255

// PlanReplacement строит новый набор изображений для полной замены коллекции.
// Порядок берётся из индекса в inputs. Основным становится помеченный элемент,
// а если не помечен ни один - первый. Несколько помеченных элементов - ошибка вызывающего.
func PlanReplacement(parentID uuid.UUID, inputs []ImageInput) ([]MediaItem, error) {
	if err := validateInputs(inputs); err != nil {
		return nil, err
	}

	primary := -1
	for i, in := range inputs {
		if !in.IsPrimary {
			continue
		}
		if primary >= 0 {
			return nil, NewValidationError(
				fmt.Sprintf("images[%d].is_primary", i),
				fmt.Sprintf("image %d is already primary, only one primary image is allowed", primary),
			)
		}
		primary = i
	}
	if primary < 0 && len(inputs) > 0 {
		primary = 0
	}

	now := time.Now().UTC()
	items := make([]MediaItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, MediaItem{
			ID:           uuid.New(),
			ParentID:     parentID,
			URL:          in.URL,
			Caption:      normalizeCaption(in.Caption),
			IsPrimary:    i == primary,
			DisplayOrder: i,
			CreatedAt:    now,
		})
	}

	return items, nil
}

// PlanAppend добавляет изображения в конец существующей коллекции.
// Новые элементы не основные, кроме случая пустой коллекции: тогда основным
// становится первый добавленный.
func PlanAppend(parentID uuid.UUID, existing []MediaItem, inputs []ImageInput) ([]MediaItem, error) {
	if err := validateInputs(inputs); err != nil {
		return nil, err
	}

	next := 0
	for _, item := range existing {
		if item.DisplayOrder >= next {
			next = item.DisplayOrder + 1
		}
	}

	now := time.Now().UTC()
	items := make([]MediaItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, MediaItem{
			ID:           uuid.New(),
			ParentID:     parentID,
			URL:          in.URL,
			Caption:      normalizeCaption(in.Caption),
			IsPrimary:    len(existing) == 0 && i == 0,
			DisplayOrder: next + i,
			CreatedAt:    now,
		})
	}

	return items, nil
}

// ValidateReorder проверяет, что ids - перестановка текущих элементов коллекции.
// Неизвестный id возвращается отдельно, чтобы вызывающий мог ответить NotFound.
func ValidateReorder(current []MediaItem, ids []uuid.UUID) (unknown uuid.UUID, err error) {
	known := make(map[uuid.UUID]struct{}, len(current))
	for _, item := range current {
		known[item.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for i, id := range ids {
		if _, ok := known[id]; !ok {
			return id, nil
		}
		if _, dup := seen[id]; dup {
			return uuid.Nil, NewValidationError(fmt.Sprintf("image_ids[%d]", i), "duplicate image id")
		}
		seen[id] = struct{}{}
	}

	if len(ids) != len(current) {
		return uuid.Nil, NewValidationError("image_ids",
			fmt.Sprintf("must list all %d images exactly once, got %d", len(current), len(ids)))
	}

	return uuid.Nil, nil
}

// CountPrimary возвращает число основных изображений в наборе
func CountPrimary(items []MediaItem) int {
	n := 0
	for _, item := range items {
		if item.IsPrimary {
			n++
		}
	}
	return n
}

func validateInputs(inputs []ImageInput) error {
	verr := &ValidationError{}
	for i, in := range inputs {
		if strings.TrimSpace(in.URL) == "" {
			verr.Add(fmt.Sprintf("images[%d].url", i), "is required")
		}
		if in.Caption != nil && len(*in.Caption) > maxCaptionLength {
			verr.Add(fmt.Sprintf("images[%d].caption", i),
				fmt.Sprintf("must be %d characters or less", maxCaptionLength))
		}
	}
	return verr.OrNil()
}

func normalizeCaption(caption *string) *string {
	if caption == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
