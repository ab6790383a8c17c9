package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger"
	"rental_showcase/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockViewRepository struct {
	mock.Mock
}

func (m *MockViewRepository) RecordView(ctx context.Context, view models.PropertyView) error {
	return m.Called(ctx, view).Error(0)
}

func (m *MockViewRepository) CountViews(ctx context.Context, since time.Time) ([]models.ViewCount, error) {
	args := m.Called(ctx, since)
	out, _ := args.Get(0).([]models.ViewCount)
	return out, args.Error(1)
}

type MockRepresentatives struct {
	mock.Mock
}

func (m *MockRepresentatives) Representatives(ctx context.Context, kind models.ParentKind, ids []uuid.UUID) (map[uuid.UUID]models.MediaItem, error) {
	args := m.Called(ctx, kind, ids)
	out, _ := args.Get(0).(map[uuid.UUID]models.MediaItem)
	return out, args.Error(1)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newAnalytics(views *MockViewRepository, reps *MockRepresentatives) *AnalyticsService {
	s := NewAnalyticsService(logger.Discard(), views, reps)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRecordView(t *testing.T) {
	ctx := context.Background()
	views := new(MockViewRepository)
	s := newAnalytics(views, new(MockRepresentatives))
	propertyID := uuid.New()

	views.On("RecordView", ctx, mock.MatchedBy(func(v models.PropertyView) bool {
		return v.PropertyID == propertyID && v.IPAddress == "10.0.0.1" &&
			len(v.UserAgent) == maxUserAgent && v.ViewedAt.Equal(fixedNow)
	})).Return(nil).Once()

	require.NoError(t, s.RecordView(ctx, propertyID, "10.0.0.1", strings.Repeat("a", 900)))

	views.On("RecordView", ctx, mock.Anything).Return(storage.ErrNotFound).Once()
	assert.ErrorIs(t, s.RecordView(ctx, uuid.New(), "", ""), storage.ErrNotFound)
}

func TestViewStatsUsesRepresentativeImage(t *testing.T) {
	ctx := context.Background()
	views := new(MockViewRepository)
	reps := new(MockRepresentatives)
	s := newAnalytics(views, reps)

	withImage := models.ViewCount{PropertyID: uuid.New(), Title: "A", Views: 10}
	without := models.ViewCount{PropertyID: uuid.New(), Title: "B", Views: 3}
	primary := models.MediaItem{ID: uuid.New(), URL: "/objects/a", IsPrimary: true}

	views.On("CountViews", ctx, fixedNow.Add(-DefaultPeriod)).Return([]models.ViewCount{withImage, without}, nil)
	reps.On("Representatives", ctx, models.ParentProperty, []uuid.UUID{withImage.PropertyID, without.PropertyID}).
		Return(map[uuid.UUID]models.MediaItem{withImage.PropertyID: primary}, nil)

	stats, err := s.ViewStats(ctx, 0)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, primary.ID, stats[0].Image.ID)
	assert.Equal(t, int64(10), stats[0].Views)
	assert.True(t, stats[1].Image.IsZero())
	assert.Equal(t, models.PlaceholderURL, stats[1].Image.URL)
}
