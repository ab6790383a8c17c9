package repository

import (
	"context"
	"fmt"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type UnitRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUnitRepository(db *pgxpool.Pool) *UnitRepo {
	return &UnitRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var unitColumns = []string{
	"id", "property_id", "unit_number", "bedrooms", "bathrooms",
	"square_feet", "features", "youtube_url", "created_at", "updated_at",
}

func (r *UnitRepo) CreateUnit(ctx context.Context, u models.Unit) (models.Unit, error) {
	const op = "repository.unit_repository.CreateUnit"

	query, args, err := r.sb.Insert("units").
		Columns("property_id", "unit_number", "bedrooms", "bathrooms", "square_feet", "features", "youtube_url").
		Values(u.PropertyID, u.UnitNumber, u.Bedrooms, u.Bathrooms, u.SquareFeet, u.Features, u.YoutubeURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.Unit{}, fmt.Errorf("%s: %w", op,
				models.NewValidationError("unit_number", fmt.Sprintf("unit %q already exists in this property", u.UnitNumber)))
		}
		return models.Unit{}, dbError(op, err)
	}

	return u, nil
}

func (r *UnitRepo) UpdateUnit(ctx context.Context, u models.Unit) (models.Unit, error) {
	const op = "repository.unit_repository.UpdateUnit"

	query, args, err := r.sb.Update("units").
		Set("unit_number", u.UnitNumber).
		Set("bedrooms", u.Bedrooms).
		Set("bathrooms", u.Bathrooms).
		Set("square_feet", u.SquareFeet).
		Set("features", u.Features).
		Set("youtube_url", u.YoutubeURL).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": u.ID, "property_id": u.PropertyID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.Unit{}, fmt.Errorf("%s: %w", op,
				models.NewValidationError("unit_number", fmt.Sprintf("unit %q already exists in this property", u.UnitNumber)))
		}
		return models.Unit{}, dbError(op, err)
	}

	return u, nil
}

func (r *UnitRepo) DeleteUnit(ctx context.Context, propertyID, unitID uuid.UUID) error {
	const op = "repository.unit_repository.DeleteUnit"

	query, args, err := r.sb.Delete("units").Where(sq.Eq{"id": unitID, "property_id": propertyID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dbError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: unit %s: %w", op, unitID, storage.ErrNotFound)
	}

	return nil
}

func (r *UnitRepo) GetUnitByID(ctx context.Context, propertyID, unitID uuid.UUID) (models.Unit, error) {
	const op = "repository.unit_repository.GetUnitByID"

	query, args, err := r.sb.Select(unitColumns...).
		From("units").
		Where(sq.Eq{"id": unitID, "property_id": propertyID}).
		ToSql()
	if err != nil {
		return models.Unit{}, fmt.Errorf("%s: %w", op, err)
	}

	var u models.Unit
	if err := scanUnit(r.db.QueryRow(ctx, query, args...), &u); err != nil {
		return models.Unit{}, dbError(op, err)
	}

	return u, nil
}

func (r *UnitRepo) ListUnits(ctx context.Context, propertyID uuid.UUID) ([]models.Unit, error) {
	const op = "repository.unit_repository.ListUnits"

	query, args, err := r.sb.Select(unitColumns...).
		From("units").
		Where(sq.Eq{"property_id": propertyID}).
		OrderBy("unit_number", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	units := make([]models.Unit, 0)
	for rows.Next() {
		var u models.Unit
		if err := scanUnit(rows, &u); err != nil {
			return nil, dbError(op, err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}

	return units, nil
}

func (r *UnitRepo) CountUnits(ctx context.Context, propertyID uuid.UUID) (int, error) {
	const op = "repository.unit_repository.CountUnits"

	query, args, err := r.sb.Select("COUNT(*)").From("units").Where(sq.Eq{"property_id": propertyID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, dbError(op, err)
	}

	return count, nil
}

func scanUnit(row scanner, u *models.Unit) error {
	return row.Scan(
		&u.ID,
		&u.PropertyID,
		&u.UnitNumber,
		&u.Bedrooms,
		&u.Bathrooms,
		&u.SquareFeet,
		&u.Features,
		&u.YoutubeURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}
