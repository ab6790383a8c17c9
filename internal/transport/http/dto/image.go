package dto

import (
	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/transport/http/dto/response"

	"github.com/google/uuid"
)

// ImageInput - изображение в форме объекта, юнита или hero-карусели
type ImageInput struct {
	URL       string  `json:"image_url" validate:"required,max=2048"`
	Caption   *string `json:"caption,omitempty" validate:"omitempty,max=500"`
	IsPrimary bool    `json:"is_primary"`
}

type ImagesRequest struct {
	Images []ImageInput `json:"images" validate:"required,min=1,dive"`
}

// ReplaceImagesRequest допускает пустой список: он очищает коллекцию
type ReplaceImagesRequest struct {
	Images []ImageInput `json:"images" validate:"dive"`
}

type ReorderRequest struct {
	ImageIDs []uuid.UUID `json:"image_ids" validate:"required,min=1"`
}

// ReorderFailureResponse - ответ на неудачную перестановку. Images содержит
// порядок, прочитанный из хранилища после ошибки, и отсутствует, если прочитать
// его тоже не удалось.
type ReorderFailureResponse struct {
	response.ErrorResponse
	Images []models.MediaItem `json:"images,omitempty"`
}

func ToImageInputs(in []ImageInput) []models.ImageInput {
	out := make([]models.ImageInput, 0, len(in))
	for _, img := range in {
		out = append(out, models.ImageInput{
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: img.IsPrimary,
		})
	}
	return out
}

// optionalImages различает "поле не передано" (nil) и "передан пустой список"
func optionalImages(in *[]ImageInput) *[]models.ImageInput {
	if in == nil {
		return nil
	}
	out := ToImageInputs(*in)
	return &out
}
