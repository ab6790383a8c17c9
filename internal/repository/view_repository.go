package repository

import (
	"context"
	"fmt"
	"time"

	"rental_showcase/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ViewRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewViewRepository(db *pgxpool.Pool) *ViewRepo {
	return &ViewRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ViewRepo) RecordView(ctx context.Context, view models.PropertyView) error {
	const op = "repository.view_repository.RecordView"

	query, args, err := r.sb.Insert("property_views").
		Columns("property_id", "ip_address", "user_agent", "viewed_at").
		Values(view.PropertyID, view.IPAddress, view.UserAgent, view.ViewedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return dbError(op, err)
	}

	return nil
}

// CountViews агрегирует просмотры по объектам начиная с since, самые просматриваемые первыми
func (r *ViewRepo) CountViews(ctx context.Context, since time.Time) ([]models.ViewCount, error) {
	const op = "repository.view_repository.CountViews"

	query, args, err := r.sb.Select("p.id", "p.title", "COUNT(v.id) AS views", "MAX(v.viewed_at) AS last_viewed").
		From("property_views v").
		Join("properties p ON p.id = v.property_id").
		Where(sq.GtOrEq{"v.viewed_at": since}).
		GroupBy("p.id", "p.title").
		OrderBy("views DESC", "p.title").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	counts := make([]models.ViewCount, 0)
	for rows.Next() {
		var c models.ViewCount
		if err := rows.Scan(&c.PropertyID, &c.Title, &c.Views, &c.LastViewed); err != nil {
			return nil, dbError(op, err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}

	return counts, nil
}
