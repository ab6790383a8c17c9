package models

import (
	"time"

	"github.com/google/uuid"
)

type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// UploadSlot - выданное клиенту место для прямой загрузки одного объекта
type UploadSlot struct {
	ObjectID  uuid.UUID `json:"object_id"`
	Method    string    `json:"method"`
	URL       string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// AccessPolicy хранится рядом с объектом и проверяется при отдаче
type AccessPolicy struct {
	Owner      uuid.UUID  `json:"owner"`
	Visibility Visibility `json:"visibility"`
}

// CanRead сообщает, может ли пользователь userID читать объект
func (p AccessPolicy) CanRead(userID uuid.UUID) bool {
	if p.Visibility == VisibilityPublic {
		return true
	}
	return userID != uuid.Nil && userID == p.Owner
}

// UploadOutcome - результат завершения загрузки одного файла в пакете
type UploadOutcome struct {
	URL        string `json:"url"`
	ObjectPath string `json:"object_path,omitempty"`
	Err        error  `json:"-"`
}
