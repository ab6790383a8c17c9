package dto

import (
	"strings"
	"time"

	"rental_showcase/internal/domain/models"

	"github.com/google/uuid"
)

type PropertyRequest struct {
	Title        string       `json:"title" validate:"required,max=255"`
	Description  string       `json:"description" validate:"required"`
	Location     string       `json:"location" validate:"required,oneof=atlanta dallas"`
	PropertyType string       `json:"property_type" validate:"required,oneof=multifamily single-family"`
	Address      *string      `json:"address,omitempty" validate:"omitempty,max=500"`
	Bedrooms     *int         `json:"bedrooms,omitempty" validate:"omitempty,min=0"`
	Bathrooms    *int         `json:"bathrooms,omitempty" validate:"omitempty,min=0"`
	SquareFeet   *int         `json:"square_feet,omitempty" validate:"omitempty,min=0"`
	YoutubeURL   *string      `json:"youtube_url,omitempty" validate:"omitempty,max=500"`
	Featured     bool         `json:"featured"`
	Images       []ImageInput `json:"images" validate:"dive"`
}

func (r PropertyRequest) ToDomain() (models.Property, []models.ImageInput) {
	return models.Property{
		Title:        r.Title,
		Description:  r.Description,
		Location:     models.Location(strings.ToLower(r.Location)),
		PropertyType: models.PropertyType(r.PropertyType),
		Address:      r.Address,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		SquareFeet:   r.SquareFeet,
		YoutubeURL:   r.YoutubeURL,
		Featured:     r.Featured,
	}, ToImageInputs(r.Images)
}

// PropertyPatch - частичное обновление. Images == nil оставляет галерею как есть,
// пустой список очищает её.
type PropertyPatch struct {
	Title        *string       `json:"title,omitempty" validate:"omitempty,max=255"`
	Description  *string       `json:"description,omitempty"`
	Location     *string       `json:"location,omitempty" validate:"omitempty,oneof=atlanta dallas"`
	PropertyType *string       `json:"property_type,omitempty" validate:"omitempty,oneof=multifamily single-family"`
	Address      *string       `json:"address,omitempty" validate:"omitempty,max=500"`
	Bedrooms     *int          `json:"bedrooms,omitempty" validate:"omitempty,min=0"`
	Bathrooms    *int          `json:"bathrooms,omitempty" validate:"omitempty,min=0"`
	SquareFeet   *int          `json:"square_feet,omitempty" validate:"omitempty,min=0"`
	YoutubeURL   *string       `json:"youtube_url,omitempty" validate:"omitempty,max=500"`
	Featured     *bool         `json:"featured,omitempty"`
	Images       *[]ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

func (p PropertyPatch) ToDomain() (models.PropertyUpdate, *[]models.ImageInput) {
	update := models.PropertyUpdate{
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		SquareFeet:  p.SquareFeet,
		YoutubeURL:  p.YoutubeURL,
		Featured:    p.Featured,
	}
	if p.Location != nil {
		loc := models.Location(strings.ToLower(*p.Location))
		update.Location = &loc
	}
	if p.PropertyType != nil {
		pt := models.PropertyType(*p.PropertyType)
		update.PropertyType = &pt
	}

	return update, optionalImages(p.Images)
}

// PropertyCard - компактное представление для списков и сравнения
type PropertyCard struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Location     models.Location     `json:"location"`
	PropertyType models.PropertyType `json:"property_type"`
	Address      *string             `json:"address,omitempty"`
	Bedrooms     *int                `json:"bedrooms,omitempty"`
	Bathrooms    *int                `json:"bathrooms,omitempty"`
	SquareFeet   *int                `json:"square_feet,omitempty"`
	Featured     bool                `json:"featured"`
	Image        models.MediaItem    `json:"image"`
	ImageCount   int                 `json:"image_count"`
	UnitCount    int                 `json:"unit_count,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func NewPropertyCard(p models.Property) PropertyCard {
	return PropertyCard{
		ID:           p.ID,
		Title:        p.Title,
		Location:     p.Location,
		PropertyType: p.PropertyType,
		Address:      p.Address,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		Featured:     p.Featured,
		Image:        models.Representative(p.Images),
		ImageCount:   len(p.Images),
		UnitCount:    len(p.Units),
		CreatedAt:    p.CreatedAt,
	}
}

func NewPropertyCards(properties []models.Property) []PropertyCard {
	cards := make([]PropertyCard, 0, len(properties))
	for _, p := range properties {
		cards = append(cards, NewPropertyCard(p))
	}
	return cards
}
