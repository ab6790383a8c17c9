package repository

import (
	"context"
	"errors"
	"fmt"

	"rental_showcase/internal/storage"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository struct {
	db       *pgxpool.Pool
	User     UserRepository
	Media    MediaRepository
	Property PropertyRepository
	Unit     UnitRepository
	View     ViewRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:       db,
		User:     NewUserRepository(db),
		Media:    NewMediaRepository(db),
		Property: NewPropertyRepository(db),
		Unit:     NewUnitRepository(db),
		View:     NewViewRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

// dbError приводит ошибку драйвера к ошибкам хранилища.
// Всё, что не является ответом сервера, считается недоступностью базы.
func dbError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgForeignKeyViolation {
			// родитель коллекции удалён или не существовал
			return fmt.Errorf("%s: %w: %s", op, storage.ErrNotFound, pgErr.Detail)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
