package dto

import "rental_showcase/internal/domain/models"

type CompleteUploadsRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=50,dive,required"`
}

type UploadOutcome struct {
	URL        string `json:"url"`
	ObjectPath string `json:"object_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

type CompleteUploadsResponse struct {
	Status   string          `json:"status"`
	Outcomes []UploadOutcome `json:"outcomes"`
}

// StoredObject - ответ на PUT содержимого по подписанной ссылке
type StoredObject struct {
	ObjectPath string `json:"object_path"`
	MIME       string `json:"mime"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func NewUploadOutcomes(outcomes []models.UploadOutcome) []UploadOutcome {
	out := make([]UploadOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		item := UploadOutcome{URL: o.URL, ObjectPath: o.ObjectPath}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		out = append(out, item)
	}
	return out
}
