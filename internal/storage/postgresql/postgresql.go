package postgresql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsTable = "schema_migrations"

type Storage struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

// Pool отдаёт пул соединений репозиториям
func (s *Storage) Pool() *pgxpool.Pool {
	return s.db
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Stop() {
	s.db.Close()
}

// Migrate применяет ещё не применённые миграции по порядку имён файлов.
// Каждая миграция выполняется в своей транзакции вместе с записью в schema_migrations.
func (s *Storage) Migrate(ctx context.Context) ([]string, error) {
	return Migrate(ctx, s.db)
}

func Migrate(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	const op = "storage.postgresql.Migrate"

	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	_, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return nil, fmt.Errorf("%s: create migrations table: %w", op, err)
	}

	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sort.Strings(names)

	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(strings.TrimPrefix(name, "migrations/"), ".sql")

		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("%s: read %s: %w", op, name, err)
		}

		done, err := applyMigration(ctx, db, sb, version, string(body))
		if err != nil {
			return applied, fmt.Errorf("%s: %s: %w", op, version, err)
		}
		if done {
			applied = append(applied, version)
		}
	}

	return applied, nil
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, version, body string) (bool, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// сериализуем параллельные запуски migrate
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('`+migrationsTable+`'))`); err != nil {
		return false, err
	}

	query, args, err := sb.Select("COUNT(*)").From(migrationsTable).Where(sq.Eq{"version": version}).ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, body); err != nil {
		return false, err
	}

	query, args, err = sb.Insert(migrationsTable).Columns("version").Values(version).ToSql()
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}
