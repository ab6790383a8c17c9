package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var userColumns = []string{"id", "name", "email", "password", "is_admin", "created_at", "last_login"}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns(
			"name",
			"email",
			"password",
			"is_admin",
		).
		Values(
			user.Name,
			strings.ToLower(user.Email),
			user.Password,
			user.IsAdmin,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return uuid.Nil, dbError(op, err)
	}

	return id, nil
}

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "repository.user_repository.UserByEmail"

	return r.one(ctx, op, sq.Eq{"email": strings.ToLower(email)})
}

func (r *UserRepo) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "repository.user_repository.GetUserById"

	return r.one(ctx, op, sq.Eq{"id": userID})
}

func (r *UserRepo) one(ctx context.Context, op string, where sq.Sqlizer) (models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.IsAdmin, &user.CreatedAt, &user.LastLogin,
	)
	if err != nil {
		err = dbError(op, err)
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, err
	}

	return user, nil
}

func (r *UserRepo) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "repository.user_repository.IsAdmin"

	sql, args, err := r.sb.Select("is_admin").From("users").Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var isAdmin bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&isAdmin)
	if err != nil {
		err = dbError(op, err)
		if errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return false, err
	}

	return isAdmin, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, password []byte) error {
	const op = "repository.user_repository.UpdatePassword"

	return r.update(ctx, op, r.sb.Update("users").Set("password", password).Where(sq.Eq{"id": userID}))
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	const op = "repository.user_repository.TouchLastLogin"

	return r.update(ctx, op, r.sb.Update("users").Set("last_login", time.Now().UTC()).Where(sq.Eq{"id": userID}))
}

func (r *UserRepo) update(ctx context.Context, op string, builder sq.UpdateBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dbError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}
