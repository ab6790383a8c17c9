package repository

import (
	"context"
	"time"

	"rental_showcase/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, password []byte) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

// UploadSlotRepository хранит выданные слоты загрузки до первого использования
type UploadSlotRepository interface {
	SaveSlot(ctx context.Context, objectID, userID uuid.UUID, ttl time.Duration) error
	ConsumeSlot(ctx context.Context, objectID uuid.UUID) (uuid.UUID, error)
}

// MediaRepository - хранилище упорядоченных коллекций изображений.
// Все многошаговые изменения выполняются в одной транзакции под блокировкой коллекции.
type MediaRepository interface {
	ListByParent(ctx context.Context, parent models.Parent) ([]models.MediaItem, error)
	ListByParents(ctx context.Context, kind models.ParentKind, parentIDs []uuid.UUID) (map[uuid.UUID][]models.MediaItem, error)
	InsertMany(ctx context.Context, parent models.Parent, items []models.MediaItem) ([]models.MediaItem, error)
	Replace(ctx context.Context, parent models.Parent, items []models.MediaItem) ([]models.MediaItem, error)
	Append(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error)
	SetPrimary(ctx context.Context, parent models.Parent, itemID uuid.UUID) error
	Reorder(ctx context.Context, parent models.Parent, orderedIDs []uuid.UUID) error
	DeleteByID(ctx context.Context, parent models.Parent, itemID uuid.UUID) (models.MediaItem, error)
	DeleteByParent(ctx context.Context, parent models.Parent) (int64, error)
	ReferencedURLs(ctx context.Context) (map[string]struct{}, error)
}

type PropertyRepository interface {
	CreateProperty(ctx context.Context, property models.Property) (models.Property, error)
	UpdateProperty(ctx context.Context, property models.Property) (models.Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	GetPropertyByID(ctx context.Context, id uuid.UUID) (models.Property, error)
	ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
}

type UnitRepository interface {
	CreateUnit(ctx context.Context, unit models.Unit) (models.Unit, error)
	UpdateUnit(ctx context.Context, unit models.Unit) (models.Unit, error)
	DeleteUnit(ctx context.Context, propertyID, unitID uuid.UUID) error
	GetUnitByID(ctx context.Context, propertyID, unitID uuid.UUID) (models.Unit, error)
	ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error)
	CountUnits(ctx context.Context, propertyID uuid.UUID) (int, error)
}

type ViewRepository interface {
	RecordView(ctx context.Context, view models.PropertyView) error
	CountViews(ctx context.Context, since time.Time) ([]models.ViewCount, error)
}
