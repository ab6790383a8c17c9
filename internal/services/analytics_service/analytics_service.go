package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultPeriod = 30 * 24 * time.Hour
	maxUserAgent  = 500
)

type RepresentativeSource interface {
	Representatives(ctx context.Context, kind models.ParentKind, ids []uuid.UUID) (map[uuid.UUID]models.MediaItem, error)
}

type AnalyticsService struct {
	log    *slog.Logger
	views  repository.ViewRepository
	images RepresentativeSource
	now    func() time.Time
}

func NewAnalyticsService(log *slog.Logger, views repository.ViewRepository, images RepresentativeSource) *AnalyticsService {
	return &AnalyticsService{
		log:    log,
		views:  views,
		images: images,
		now:    time.Now,
	}
}

// RecordView сохраняет просмотр; для несуществующего объекта возвращает ErrNotFound
func (s *AnalyticsService) RecordView(ctx context.Context, propertyID uuid.UUID, ip, userAgent string) error {
	const op = "analytics_service.RecordView"

	if len(userAgent) > maxUserAgent {
		userAgent = userAgent[:maxUserAgent]
	}

	view := models.PropertyView{
		PropertyID: propertyID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		ViewedAt:   s.now().UTC(),
	}

	if err := s.views.RecordView(ctx, view); err != nil {
		s.log.Warn("failed to record view",
			slog.String("op", op),
			slog.String("property_id", propertyID.String()),
			sl.Err(err),
		)

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ViewStats возвращает просмотры за период вместе с изображением каждого объекта
func (s *AnalyticsService) ViewStats(ctx context.Context, period time.Duration) ([]models.ViewStats, error) {
	const op = "analytics_service.ViewStats"

	if period <= 0 {
		period = DefaultPeriod
	}

	counts, err := s.views.CountViews(ctx, s.now().Add(-period))
	if err != nil {
		s.log.Error("failed to count views", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.PropertyID)
	}

	reps, err := s.images.Representatives(ctx, models.ParentProperty, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := make([]models.ViewStats, 0, len(counts))
	for _, c := range counts {
		img, ok := reps[c.PropertyID]
		if !ok {
			img = models.NoImage
		}
		stats = append(stats, models.ViewStats{ViewCount: c, Image: img})
	}

	return stats, nil
}
