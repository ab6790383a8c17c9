package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ParentKind определяет, какой сущности принадлежит коллекция изображений
type ParentKind string

const (
	ParentProperty ParentKind = "property"
	ParentUnit     ParentKind = "unit"
	ParentHero     ParentKind = "hero"
)

// Parent адресует одну упорядоченную коллекцию изображений.
// Для hero-изображений ID всегда uuid.Nil: коллекция глобальная.
type Parent struct {
	Kind ParentKind
	ID   uuid.UUID
}

func PropertyParent(id uuid.UUID) Parent {
	return Parent{Kind: ParentProperty, ID: id}
}

func UnitParent(id uuid.UUID) Parent {
	return Parent{Kind: ParentUnit, ID: id}
}

func HeroParent() Parent {
	return Parent{Kind: ParentHero}
}

func (p Parent) Validate() error {
	switch p.Kind {
	case ParentProperty, ParentUnit:
		if p.ID == uuid.Nil {
			return NewValidationError("parent_id", "is required")
		}
	case ParentHero:
		if p.ID != uuid.Nil {
			return NewValidationError("parent_id", "hero images have no parent")
		}
	default:
		return NewValidationError("parent_kind", fmt.Sprintf("unknown parent kind %q", p.Kind))
	}

	return nil
}

// LockKey используется как ключ advisory-блокировки коллекции
func (p Parent) LockKey() string {
	return string(p.Kind) + ":" + p.ID.String()
}

func (p Parent) String() string {
	if p.Kind == ParentHero {
		return string(p.Kind)
	}
	return string(p.Kind) + "/" + p.ID.String()
}

// MediaItem - изображение, принадлежащее объекту, юниту или hero-карусели
type MediaItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ParentID     uuid.UUID `json:"parent_id" db:"parent_id"`
	URL          string    `json:"image_url" db:"image_url"`
	Caption      *string   `json:"caption,omitempty" db:"caption"`
	IsPrimary    bool      `json:"is_primary" db:"is_primary"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ImageInput - изображение, пришедшее от клиента при сохранении формы
type ImageInput struct {
	URL       string
	Caption   *string
	IsPrimary bool
}

// PlaceholderURL отдаётся вместо изображения, когда коллекция пуста
const PlaceholderURL = "/api/v1/placeholder/400/300"

// NoImage - сентинел "нет изображения" для компактных представлений
var NoImage = MediaItem{URL: PlaceholderURL}

// IsZero сообщает, что элемент является сентинелом NoImage
func (m MediaItem) IsZero() bool {
	return m.ID == uuid.Nil
}

// Representative выбирает изображение для карточек, строк списков и сравнения.
// items должны быть уже упорядочены по DisplayOrder.
func Representative(items []MediaItem) MediaItem {
	for _, item := range items {
		if item.IsPrimary {
			return item
		}
	}

	if len(items) > 0 {
		return items[0]
	}

	return NoImage
}
