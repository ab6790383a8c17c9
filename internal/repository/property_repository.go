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
	"github.com/lib/pq"
)

type PropertyRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPropertyRepository(db *pgxpool.Pool) *PropertyRepo {
	return &PropertyRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var propertyColumns = []string{
	"id", "title", "description", "location", "property_type", "address",
	"bedrooms", "bathrooms", "square_feet", "youtube_url", "featured",
	"created_at", "updated_at",
}

func (r *PropertyRepo) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	const op = "repository.property_repository.CreateProperty"

	query, args, err := r.sb.Insert("properties").
		Columns(
			"title",
			"description",
			"location",
			"property_type",
			"address",
			"bedrooms",
			"bathrooms",
			"square_feet",
			"youtube_url",
			"featured",
		).
		Values(
			p.Title,
			p.Description,
			p.Location,
			p.PropertyType,
			p.Address,
			p.Bedrooms,
			p.Bathrooms,
			p.SquareFeet,
			p.YoutubeURL,
			p.Featured,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Property{}, dbError(op, err)
	}

	return p, nil
}

func (r *PropertyRepo) UpdateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	const op = "repository.property_repository.UpdateProperty"

	query, args, err := r.sb.Update("properties").
		Set("title", p.Title).
		Set("description", p.Description).
		Set("location", p.Location).
		Set("property_type", p.PropertyType).
		Set("address", p.Address).
		Set("bedrooms", p.Bedrooms).
		Set("bathrooms", p.Bathrooms).
		Set("square_feet", p.SquareFeet).
		Set("youtube_url", p.YoutubeURL).
		Set("featured", p.Featured).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		return models.Property{}, dbError(op, err)
	}

	return p, nil
}

// DeleteProperty удаляет объект; юниты и изображения удаляются каскадом
func (r *PropertyRepo) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	const op = "repository.property_repository.DeleteProperty"

	query, args, err := r.sb.Delete("properties").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dbError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: property %s: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

func (r *PropertyRepo) GetPropertyByID(ctx context.Context, id uuid.UUID) (models.Property, error) {
	const op = "repository.property_repository.GetPropertyByID"

	query, args, err := r.sb.Select(propertyColumns...).From("properties").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Property
	if err := scanProperty(r.db.QueryRow(ctx, query, args...), &p); err != nil {
		return models.Property{}, dbError(op, err)
	}

	return p, nil
}

// ListProperties возвращает объекты, новые первыми
func (r *PropertyRepo) ListProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	const op = "repository.property_repository.ListProperties"

	builder := r.sb.Select(propertyColumns...).From("properties")
	if filter.Location != nil {
		builder = builder.Where(sq.Eq{"location": *filter.Location})
	}
	if filter.FeaturedOnly {
		builder = builder.Where(sq.Eq{"featured": true})
	}
	if filter.IDs != nil {
		ids := make([]string, 0, len(filter.IDs))
		for _, id := range filter.IDs {
			ids = append(ids, id.String())
		}
		builder = builder.Where("id = ANY(?::uuid[])", pq.Array(ids))
	}

	query, args, err := builder.OrderBy("created_at DESC", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	properties := make([]models.Property, 0)
	for rows.Next() {
		var p models.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, dbError(op, err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}

	return properties, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row scanner, p *models.Property) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Location,
		&p.PropertyType,
		&p.Address,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.SquareFeet,
		&p.YoutubeURL,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
