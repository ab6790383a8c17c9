package dto

import (
	"rental_showcase/internal/domain/models"

	"github.com/google/uuid"
)

type UnitRequest struct {
	UnitNumber string       `json:"unit_number" validate:"required,max=50"`
	Bedrooms   int          `json:"bedrooms" validate:"min=0"`
	Bathrooms  int          `json:"bathrooms" validate:"min=0"`
	SquareFeet *int         `json:"square_feet,omitempty" validate:"omitempty,min=0"`
	Features   *string      `json:"features,omitempty"`
	YoutubeURL *string      `json:"youtube_url,omitempty" validate:"omitempty,max=500"`
	Images     []ImageInput `json:"images" validate:"dive"`
}

func (r UnitRequest) ToDomain(propertyID uuid.UUID) (models.Unit, []models.ImageInput) {
	return models.Unit{
		PropertyID: propertyID,
		UnitNumber: r.UnitNumber,
		Bedrooms:   r.Bedrooms,
		Bathrooms:  r.Bathrooms,
		SquareFeet: r.SquareFeet,
		Features:   r.Features,
		YoutubeURL: r.YoutubeURL,
	}, ToImageInputs(r.Images)
}

type UnitPatch struct {
	UnitNumber *string       `json:"unit_number,omitempty" validate:"omitempty,max=50"`
	Bedrooms   *int          `json:"bedrooms,omitempty" validate:"omitempty,min=0"`
	Bathrooms  *int          `json:"bathrooms,omitempty" validate:"omitempty,min=0"`
	SquareFeet *int          `json:"square_feet,omitempty" validate:"omitempty,min=0"`
	Features   *string       `json:"features,omitempty"`
	YoutubeURL *string       `json:"youtube_url,omitempty" validate:"omitempty,max=500"`
	Images     *[]ImageInput `json:"images,omitempty" validate:"omitempty,dive"`
}

func (p UnitPatch) ToDomain() (models.UnitUpdate, *[]models.ImageInput) {
	return models.UnitUpdate{
		UnitNumber: p.UnitNumber,
		Bedrooms:   p.Bedrooms,
		Bathrooms:  p.Bathrooms,
		SquareFeet: p.SquareFeet,
		Features:   p.Features,
		YoutubeURL: p.YoutubeURL,
	}, optionalImages(p.Images)
}

// UnitRow - строка списка юнитов с изображением для превью
type UnitRow struct {
	ID         uuid.UUID        `json:"id"`
	PropertyID uuid.UUID        `json:"property_id"`
	UnitNumber string           `json:"unit_number"`
	Bedrooms   int              `json:"bedrooms"`
	Bathrooms  int              `json:"bathrooms"`
	SquareFeet *int             `json:"square_feet,omitempty"`
	Image      models.MediaItem `json:"image"`
	ImageCount int              `json:"image_count"`
}

func NewUnitRows(units []models.Unit) []UnitRow {
	rows := make([]UnitRow, 0, len(units))
	for _, u := range units {
		rows = append(rows, UnitRow{
			ID:         u.ID,
			PropertyID: u.PropertyID,
			UnitNumber: u.UnitNumber,
			Bedrooms:   u.Bedrooms,
			Bathrooms:  u.Bathrooms,
			SquareFeet: u.SquareFeet,
			Image:      models.Representative(u.Images),
			ImageCount: len(u.Images),
		})
	}
	return rows
}
