package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"

	"github.com/google/uuid"
)

type ImageCatalog interface {
	ReplaceAll(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error)
	ImagesFor(ctx context.Context, kind models.ParentKind, ids []uuid.UUID) (map[uuid.UUID][]models.MediaItem, error)
}

// UnitService управляет юнитами; юниты бывают только у многоквартирных объектов
type UnitService struct {
	log        *slog.Logger
	units      repository.UnitRepository
	properties repository.PropertyRepository
	images     ImageCatalog
	onChange   func()
}

func NewUnitService(
	log *slog.Logger,
	units repository.UnitRepository,
	properties repository.PropertyRepository,
	images ImageCatalog,
	onChange func(),
) *UnitService {
	if onChange == nil {
		onChange = func() {}
	}

	return &UnitService{
		log:        log,
		units:      units,
		properties: properties,
		images:     images,
		onChange:   onChange,
	}
}

func (s *UnitService) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	const op = "unit_service.ListUnits"

	if _, err := s.multifamily(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	units, err := s.units.ListUnits(ctx, propertyID)
	if err != nil {
		s.log.Error("failed to list units", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.attachImages(ctx, units); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return units, nil
}

func (s *UnitService) GetUnit(ctx context.Context, propertyID, unitID uuid.UUID) (models.Unit, error) {
	const op = "unit_service.GetUnit"

	unit, err := s.units.GetUnitByID(ctx, propertyID, unitID)
	if err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	list := []models.Unit{unit}
	if err := s.attachImages(ctx, list); err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	return list[0], nil
}

func (s *UnitService) CreateUnit(ctx context.Context, unit models.Unit, images []models.ImageInput) (models.Unit, error) {
	const op = "unit_service.CreateUnit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("property_id", unit.PropertyID.String()),
		slog.String("unit_number", unit.UnitNumber),
	)

	unit.UnitNumber = strings.TrimSpace(unit.UnitNumber)
	if err := unit.Validate(); err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.multifamily(ctx, unit.PropertyID); err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.units.CreateUnit(ctx, unit)
	if err != nil {
		log.Warn("failed to create unit", sl.Err(err))

		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}
	defer s.onChange()

	created.Images = []models.MediaItem{}
	if len(images) > 0 {
		saved, err := s.images.ReplaceAll(ctx, models.UnitParent(created.ID), images)
		if err != nil {
			log.Warn("failed to save images, removing unit", sl.Err(err))

			if delErr := s.units.DeleteUnit(ctx, created.PropertyID, created.ID); delErr != nil {
				log.Error("failed to remove unit after image failure", sl.Err(delErr))
			}
			return models.Unit{}, fmt.Errorf("%s: %w", op, err)
		}
		created.Images = saved
	}

	log.Info("unit created", slog.String("unit_id", created.ID.String()))

	return created, nil
}

// CheckUnit проверяет, что юнит принадлежит объекту propertyID
func (s *UnitService) CheckUnit(ctx context.Context, propertyID, unitID uuid.UUID) error {
	const op = "unit_service.CheckUnit"

	if _, err := s.units.GetUnitByID(ctx, propertyID, unitID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UpdateUnit применяет частичное обновление; images == nil оставляет изображения как есть
func (s *UnitService) UpdateUnit(ctx context.Context, propertyID, unitID uuid.UUID, update models.UnitUpdate, images *[]models.ImageInput) (models.Unit, error) {
	const op = "unit_service.UpdateUnit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("unit_id", unitID.String()),
	)

	unit, err := s.units.GetUnitByID(ctx, propertyID, unitID)
	if err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	update.Apply(&unit)
	unit.UnitNumber = strings.TrimSpace(unit.UnitNumber)

	if err := unit.Validate(); err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	// изображения проверяются до записи полей, чтобы отказ ничего не менял
	if images != nil {
		if _, err := models.PlanReplacement(unitID, *images); err != nil {
			return models.Unit{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	updated, err := s.units.UpdateUnit(ctx, unit)
	if err != nil {
		log.Warn("failed to update unit", sl.Err(err))

		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}
	defer s.onChange()

	if images != nil {
		saved, err := s.images.ReplaceAll(ctx, models.UnitParent(unitID), *images)
		if err != nil {
			log.Error("failed to replace images", sl.Err(err))

			return models.Unit{}, fmt.Errorf("%s: %w", op, err)
		}
		updated.Images = saved
	} else {
		list := []models.Unit{updated}
		if err := s.attachImages(ctx, list); err != nil {
			return models.Unit{}, fmt.Errorf("%s: %w", op, err)
		}
		updated = list[0]
	}

	log.Info("unit updated")

	return updated, nil
}

func (s *UnitService) DeleteUnit(ctx context.Context, propertyID, unitID uuid.UUID) error {
	const op = "unit_service.DeleteUnit"

	if err := s.units.DeleteUnit(ctx, propertyID, unitID); err != nil {
		s.log.Warn("failed to delete unit", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}
	s.onChange()

	s.log.Info("unit deleted", slog.String("op", op), slog.String("unit_id", unitID.String()))

	return nil
}

// multifamily проверяет, что объект существует и допускает юниты
func (s *UnitService) multifamily(ctx context.Context, propertyID uuid.UUID) (models.Property, error) {
	property, err := s.properties.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return models.Property{}, err
	}

	if !property.SupportsUnits() {
		return models.Property{}, models.NewValidationError("property_type",
			fmt.Sprintf("units are only available for %s properties", models.PropertyTypeMultifamily))
	}

	return property, nil
}

func (s *UnitService) attachImages(ctx context.Context, units []models.Unit) error {
	if len(units) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}

	byParent, err := s.images.ImagesFor(ctx, models.ParentUnit, ids)
	if err != nil {
		return err
	}

	for i := range units {
		if items := byParent[units[i].ID]; items != nil {
			units[i].Images = items
		} else {
			units[i].Images = []models.MediaItem{}
		}
	}

	return nil
}
