package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ImageCatalog - операции с коллекциями изображений, нужные каталогу объектов
type ImageCatalog interface {
	ReplaceAll(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error)
	ImagesFor(ctx context.Context, kind models.ParentKind, ids []uuid.UUID) (map[uuid.UUID][]models.MediaItem, error)
}

// PropertyService - каталог объектов. Публичные чтения кешируются,
// любая запись сбрасывает кеш целиком.
type PropertyService struct {
	log        *slog.Logger
	properties repository.PropertyRepository
	units      repository.UnitRepository
	images     ImageCatalog
	cache      *cache.Cache

	// gen растёт при каждом сбросе; чтение, начатое до сброса, не кладёт результат в кеш
	mu  sync.Mutex
	gen uint64
}

func NewPropertyService(
	log *slog.Logger,
	properties repository.PropertyRepository,
	units repository.UnitRepository,
	images ImageCatalog,
	ttl, cleanup time.Duration,
) *PropertyService {
	return &PropertyService{
		log:        log,
		properties: properties,
		units:      units,
		images:     images,
		cache:      cache.New(ttl, cleanup),
	}
}

// Invalidate сбрасывает кеш; вызывается и при изменении изображений или юнитов
func (s *PropertyService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.cache.Flush()
}

func (s *PropertyService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gen
}

// remember кладёт значение в кеш, только если с начала чтения не было сброса
func (s *PropertyService) remember(key string, value any, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return
	}
	s.cache.SetDefault(key, value)
}

func (s *PropertyService) ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	const op = "property_service.ListProperties"

	key := listKey(filter)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Property), nil
	}
	gen := s.generation()

	if filter.Location != nil && !filter.Location.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("location",
			fmt.Sprintf("must be one of: %s, %s", models.LocationAtlanta, models.LocationDallas)))
	}

	properties, err := s.properties.ListProperties(ctx, filter)
	if err != nil {
		s.log.Error("failed to list properties", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.attachImages(ctx, properties); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.remember(key, properties, gen)

	return properties, nil
}

// GetProperty возвращает объект с упорядоченными изображениями и юнитами
func (s *PropertyService) GetProperty(ctx context.Context, id uuid.UUID) (models.Property, error) {
	const op = "property_service.GetProperty"

	key := "property:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(models.Property), nil
	}
	gen := s.generation()

	property, err := s.properties.GetPropertyByID(ctx, id)
	if err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	list := []models.Property{property}
	if err := s.attachImages(ctx, list); err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}
	property = list[0]

	if property.SupportsUnits() {
		units, err := s.units.ListUnits(ctx, id)
		if err != nil {
			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := attachUnitImages(ctx, s.images, units); err != nil {
			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
		property.Units = units
	}

	s.remember(key, property, gen)

	return property, nil
}

// Compare возвращает объекты в порядке ids; отсутствующие пропускаются
func (s *PropertyService) Compare(ctx context.Context, ids []uuid.UUID) ([]models.Property, error) {
	const op = "property_service.Compare"

	if len(ids) == 0 {
		return []models.Property{}, nil
	}
	if len(ids) > models.MaxCompare {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("property_ids",
			fmt.Sprintf("at most %d properties can be compared", models.MaxCompare)))
	}

	found, err := s.properties.ListProperties(ctx, models.PropertyFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[uuid.UUID]models.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]models.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	if err := s.attachImages(ctx, ordered); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ordered, nil
}

// CreateProperty сохраняет объект и его изображения. Если изображения сохранить
// не удалось, объект удаляется, чтобы не оставлять его без галереи.
func (s *PropertyService) CreateProperty(ctx context.Context, property models.Property, images []models.ImageInput) (models.Property, error) {
	const op = "property_service.CreateProperty"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", property.Title),
	)

	property.Title = strings.TrimSpace(property.Title)
	if err := property.Validate(); err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.properties.CreateProperty(ctx, property)
	if err != nil {
		log.Error("failed to create property", sl.Err(err))

		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}
	defer s.Invalidate()

	created.Images = []models.MediaItem{}
	if len(images) > 0 {
		saved, err := s.images.ReplaceAll(ctx, models.PropertyParent(created.ID), images)
		if err != nil {
			log.Warn("failed to save images, removing property", sl.Err(err))

			if delErr := s.properties.DeleteProperty(ctx, created.ID); delErr != nil {
				log.Error("failed to remove property after image failure", sl.Err(delErr))
			}
			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
		created.Images = saved
	}

	log.Info("property created", slog.String("property_id", created.ID.String()))

	return created, nil
}

// UpdateProperty применяет частичное обновление. images == nil оставляет галерею как есть,
// пустой срез очищает её.
func (s *PropertyService) UpdateProperty(ctx context.Context, id uuid.UUID, update models.PropertyUpdate, images *[]models.ImageInput) (models.Property, error) {
	const op = "property_service.UpdateProperty"

	log := s.log.With(
		slog.String("op", op),
		slog.String("property_id", id.String()),
	)

	property, err := s.properties.GetPropertyByID(ctx, id)
	if err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	wasMultifamily := property.SupportsUnits()
	update.Apply(&property)
	property.Title = strings.TrimSpace(property.Title)

	if err := property.Validate(); err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	// галерея проверяется до записи полей, чтобы отказ ничего не менял
	if images != nil {
		if _, err := models.PlanReplacement(id, *images); err != nil {
			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if wasMultifamily && !property.SupportsUnits() {
		count, err := s.units.CountUnits(ctx, id)
		if err != nil {
			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
		if count > 0 {
			return models.Property{}, fmt.Errorf("%s: %w", op, models.NewValidationError("property_type",
				fmt.Sprintf("property has %d units, delete them before changing type", count)))
		}
	}

	updated, err := s.properties.UpdateProperty(ctx, property)
	if err != nil {
		log.Error("failed to update property", sl.Err(err))

		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}
	defer s.Invalidate()

	if images != nil {
		saved, err := s.images.ReplaceAll(ctx, models.PropertyParent(id), *images)
		if err != nil {
			log.Error("failed to replace images", sl.Err(err))

			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
		updated.Images = saved
	} else {
		list := []models.Property{updated}
		if err := s.attachImages(ctx, list); err != nil {
			return models.Property{}, fmt.Errorf("%s: %w", op, err)
		}
		updated = list[0]
	}

	log.Info("property updated")

	return updated, nil
}

// DeleteProperty удаляет объект; изображения и юниты удаляются каскадом
func (s *PropertyService) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	const op = "property_service.DeleteProperty"

	log := s.log.With(
		slog.String("op", op),
		slog.String("property_id", id.String()),
	)

	if err := s.properties.DeleteProperty(ctx, id); err != nil {
		log.Warn("failed to delete property", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate()

	log.Info("property deleted")

	return nil
}

func (s *PropertyService) attachImages(ctx context.Context, properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}

	byParent, err := s.images.ImagesFor(ctx, models.ParentProperty, ids)
	if err != nil {
		return err
	}

	for i := range properties {
		properties[i].Images = nonNil(byParent[properties[i].ID])
	}

	return nil
}

func attachUnitImages(ctx context.Context, images ImageCatalog, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}

	byParent, err := images.ImagesFor(ctx, models.ParentUnit, ids)
	if err != nil {
		return err
	}

	for i := range units {
		units[i].Images = nonNil(byParent[units[i].ID])
	}

	return nil
}

func nonNil(items []models.MediaItem) []models.MediaItem {
	if items == nil {
		return []models.MediaItem{}
	}
	return items
}

func listKey(filter models.PropertyFilter) string {
	var b strings.Builder
	b.WriteString("list")
	if filter.Location != nil {
		b.WriteString(":loc=" + string(*filter.Location))
	}
	if filter.FeaturedOnly {
		b.WriteString(":featured")
	}
	if len(filter.IDs) > 0 {
		ids := make([]string, 0, len(filter.IDs))
		for _, id := range filter.IDs {
			ids = append(ids, id.String())
		}
		sort.Strings(ids)
		b.WriteString(":ids=" + strings.Join(ids, ","))
	}
	return b.String()
}
