package http_test

import (
	"context"
	"io"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/imaging"
	filestorage "rental_showcase/internal/storage/filestorage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (models.User, *models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	tokens, _ := args.Get(1).(*models.TokenPair)
	return args.Get(0).(models.User), tokens, args.Error(2)
}

func (m *MockUserService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	tokens, _ := args.Get(0).(*models.TokenPair)
	return tokens, args.Error(1)
}

func (m *MockAuthService) ValidateAccessToken(accessToken string) (uuid.UUID, error) {
	args := m.Called(accessToken)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type MockMediaService struct {
	mock.Mock
}

func items(args mock.Arguments, i int) []models.MediaItem {
	out, _ := args.Get(i).([]models.MediaItem)
	return out
}

func (m *MockMediaService) List(ctx context.Context, parent models.Parent) ([]models.MediaItem, error) {
	args := m.Called(ctx, parent)
	return items(args, 0), args.Error(1)
}

func (m *MockMediaService) ReplaceAll(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error) {
	args := m.Called(ctx, parent, inputs)
	return items(args, 0), args.Error(1)
}

func (m *MockMediaService) Append(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error) {
	args := m.Called(ctx, parent, inputs)
	return items(args, 0), args.Error(1)
}

func (m *MockMediaService) SetPrimary(ctx context.Context, parent models.Parent, itemID uuid.UUID) error {
	return m.Called(ctx, parent, itemID).Error(0)
}

func (m *MockMediaService) Reorder(ctx context.Context, parent models.Parent, orderedIDs []uuid.UUID) ([]models.MediaItem, error) {
	args := m.Called(ctx, parent, orderedIDs)
	return items(args, 0), args.Error(1)
}

func (m *MockMediaService) DeleteItem(ctx context.Context, parent models.Parent, itemID uuid.UUID) (models.MediaItem, error) {
	args := m.Called(ctx, parent, itemID)
	return args.Get(0).(models.MediaItem), args.Error(1)
}

func (m *MockMediaService) DeleteAll(ctx context.Context, parent models.Parent) (int64, error) {
	args := m.Called(ctx, parent)
	return args.Get(0).(int64), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) RequestUploadSlot(ctx context.Context, userID uuid.UUID) (models.UploadSlot, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UploadSlot), args.Error(1)
}

func (m *MockUploadService) ReceiveObject(ctx context.Context, objectID uuid.UUID, token string, body io.Reader) (*imaging.Result, error) {
	args := m.Called(ctx, objectID, token, body)
	res, _ := args.Get(0).(*imaging.Result)
	return res, args.Error(1)
}

func (m *MockUploadService) CompleteUpload(ctx context.Context, userID uuid.UUID, uploadedURL string) (string, error) {
	args := m.Called(ctx, userID, uploadedURL)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) CompleteBatch(ctx context.Context, userID uuid.UUID, urls []string) ([]models.UploadOutcome, error) {
	args := m.Called(ctx, userID, urls)
	out, _ := args.Get(0).([]models.UploadOutcome)
	return out, args.Error(1)
}

func (m *MockUploadService) OpenObject(ctx context.Context, objectID, userID uuid.UUID) (io.ReadCloser, filestorage.ObjectInfo, error) {
	args := m.Called(ctx, objectID, userID)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(filestorage.ObjectInfo), args.Error(2)
}

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]models.Property)
	return out, args.Error(1)
}

func (m *MockPropertyService) GetProperty(ctx context.Context, id uuid.UUID) (models.Property, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Property), args.Error(1)
}

func (m *MockPropertyService) Compare(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]models.Property)
	return out, args.Error(1)
}

func (m *MockPropertyService) CreateProperty(ctx context.Context, property models.Property, images []models.ImageInput) (models.Property, error) {
	args := m.Called(ctx, property, images)
	return args.Get(0).(models.Property), args.Error(1)
}

func (m *MockPropertyService) UpdateProperty(ctx context.Context, id uuid.UUID, update models.PropertyUpdate, images *[]models.ImageInput) (models.Property, error) {
	args := m.Called(ctx, id, update, images)
	return args.Get(0).(models.Property), args.Error(1)
}

func (m *MockPropertyService) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockUnitService struct {
	mock.Mock
}

func (m *MockUnitService) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	args := m.Called(ctx, propertyID)
	out, _ := args.Get(0).([]models.Unit)
	return out, args.Error(1)
}

func (m *MockUnitService) GetUnit(ctx context.Context, propertyID, unitID uuid.UUID) (models.Unit, error) {
	args := m.Called(ctx, propertyID, unitID)
	return args.Get(0).(models.Unit), args.Error(1)
}

func (m *MockUnitService) CreateUnit(ctx context.Context, unit models.Unit, images []models.ImageInput) (models.Unit, error) {
	args := m.Called(ctx, unit, images)
	return args.Get(0).(models.Unit), args.Error(1)
}

func (m *MockUnitService) UpdateUnit(ctx context.Context, propertyID, unitID uuid.UUID, update models.UnitUpdate, images *[]models.ImageInput) (models.Unit, error) {
	args := m.Called(ctx, propertyID, unitID, update, images)
	return args.Get(0).(models.Unit), args.Error(1)
}

func (m *MockUnitService) DeleteUnit(ctx context.Context, propertyID, unitID uuid.UUID) error {
	return m.Called(ctx, propertyID, unitID).Error(0)
}

func (m *MockUnitService) CheckUnit(ctx context.Context, propertyID, unitID uuid.UUID) error {
	return m.Called(ctx, propertyID, unitID).Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) RecordView(ctx context.Context, propertyID uuid.UUID, ip, userAgent string) error {
	return m.Called(ctx, propertyID, ip, userAgent).Error(0)
}

func (m *MockAnalyticsService) ViewStats(ctx context.Context, period time.Duration) ([]models.ViewStats, error) {
	args := m.Called(ctx, period)
	out, _ := args.Get(0).([]models.ViewStats)
	return out, args.Error(1)
}
