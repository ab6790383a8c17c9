package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

// mediaTable описывает таблицу одной разновидности коллекции.
// У hero_images нет колонки родителя: коллекция одна на сайт.
type mediaTable struct {
	name      string
	parentCol string
}

var mediaTables = map[models.ParentKind]mediaTable{
	models.ParentProperty: {name: "property_images", parentCol: "property_id"},
	models.ParentUnit:     {name: "unit_images", parentCol: "unit_id"},
	models.ParentHero:     {name: "hero_images"},
}

var mediaColumns = []string{"id", "image_url", "caption", "is_primary", "display_order", "created_at"}

func tableFor(parent models.Parent) (mediaTable, error) {
	if err := parent.Validate(); err != nil {
		return mediaTable{}, err
	}
	return mediaTables[parent.Kind], nil
}

// scope ограничивает запрос коллекцией родителя
func (t mediaTable) scope(parent models.Parent) sq.Sqlizer {
	if t.parentCol == "" {
		return sq.Expr("TRUE")
	}
	return sq.Eq{t.parentCol: parent.ID}
}

type MediaRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// querier - общее подмножество пула и транзакции
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *MediaRepo) ListByParent(ctx context.Context, parent models.Parent) ([]models.MediaItem, error) {
	const op = "repository.media_repository.ListByParent"

	t, err := tableFor(parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := r.list(ctx, r.db, t, parent)
	if err != nil {
		return nil, dbError(op, err)
	}

	return items, nil
}

func (r *MediaRepo) list(ctx context.Context, q querier, t mediaTable, parent models.Parent) ([]models.MediaItem, error) {
	query, args, err := r.sb.Select(mediaColumns...).
		From(t.name).
		Where(t.scope(parent)).
		OrderBy("display_order", "created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.MediaItem, 0)
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, err
		}
		item.ParentID = parent.ID
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListByParents загружает коллекции сразу нескольких родителей одного вида
func (r *MediaRepo) ListByParents(ctx context.Context, kind models.ParentKind, parentIDs []uuid.UUID) (map[uuid.UUID][]models.MediaItem, error) {
	const op = "repository.media_repository.ListByParents"

	result := make(map[uuid.UUID][]models.MediaItem, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	t, ok := mediaTables[kind]
	if !ok || t.parentCol == "" {
		return nil, fmt.Errorf("%s: %w", op, models.NewValidationError("parent_kind", fmt.Sprintf("batch load is not supported for %q", kind)))
	}

	ids := make([]string, 0, len(parentIDs))
	for _, id := range parentIDs {
		ids = append(ids, id.String())
	}

	query, args, err := r.sb.Select(append([]string{t.parentCol}, mediaColumns...)...).
		From(t.name).
		Where(t.parentCol+" = ANY(?::uuid[])", pq.Array(ids)).
		OrderBy(t.parentCol, "display_order", "created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MediaItem
		if err := rows.Scan(&item.ParentID, &item.ID, &item.URL, &item.Caption, &item.IsPrimary, &item.DisplayOrder, &item.CreatedAt); err != nil {
			return nil, dbError(op, err)
		}
		result[item.ParentID] = append(result[item.ParentID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}

	return result, nil
}

// InsertMany вставляет уже спланированные элементы одним запросом
func (r *MediaRepo) InsertMany(ctx context.Context, parent models.Parent, items []models.MediaItem) ([]models.MediaItem, error) {
	const op = "repository.media_repository.InsertMany"

	if len(items) == 0 {
		return []models.MediaItem{}, nil
	}

	t, err := tableFor(parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer tx.Rollback(ctx)

	if err := r.insert(ctx, tx, t, parent, items); err != nil {
		return nil, dbError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dbError(op, err)
	}

	return items, nil
}

func (r *MediaRepo) insert(ctx context.Context, tx pgx.Tx, t mediaTable, parent models.Parent, items []models.MediaItem) error {
	if len(items) == 0 {
		return nil
	}

	columns := mediaColumns
	if t.parentCol != "" {
		columns = append([]string{t.parentCol}, mediaColumns...)
	}

	builder := r.sb.Insert(t.name).Columns(columns...)
	for _, item := range items {
		values := []interface{}{item.ID, item.URL, item.Caption, item.IsPrimary, item.DisplayOrder, item.CreatedAt}
		if t.parentCol != "" {
			values = append([]interface{}{parent.ID}, values...)
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, args...)
	return err
}

// lock берёт транзакционную advisory-блокировку коллекции
func (r *MediaRepo) lock(ctx context.Context, tx pgx.Tx, parent models.Parent) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", parent.LockKey())
	return err
}

// Replace заменяет коллекцию целиком: удаление старых и вставка новых в одной транзакции
func (r *MediaRepo) Replace(ctx context.Context, parent models.Parent, items []models.MediaItem) ([]models.MediaItem, error) {
	const op = "repository.media_repository.Replace"

	t, err := tableFor(parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lock(ctx, tx, parent); err != nil {
		return nil, dbError(op, err)
	}

	query, args, err := r.sb.Delete(t.name).Where(t.scope(parent)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, dbError(op, err)
	}

	if err := r.insert(ctx, tx, t, parent, items); err != nil {
		return nil, dbError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dbError(op, err)
	}

	if items == nil {
		items = []models.MediaItem{}
	}

	return items, nil
}

// Append дописывает изображения в конец коллекции.
// Блокировка коллекции сериализует параллельные добавления к одному родителю.
func (r *MediaRepo) Append(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error) {
	const op = "repository.media_repository.Append"

	t, err := tableFor(parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lock(ctx, tx, parent); err != nil {
		return nil, dbError(op, err)
	}

	existing, err := r.list(ctx, tx, t, parent)
	if err != nil {
		return nil, dbError(op, err)
	}

	items, err := models.PlanAppend(parent.ID, existing, inputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := r.insert(ctx, tx, t, parent, items); err != nil {
		return nil, dbError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dbError(op, err)
	}

	return items, nil
}

// SetPrimary делает элемент основным и снимает флаг с остальных в той же транзакции
func (r *MediaRepo) SetPrimary(ctx context.Context, parent models.Parent, itemID uuid.UUID) error {
	const op = "repository.media_repository.SetPrimary"

	t, err := tableFor(parent)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dbError(op, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lock(ctx, tx, parent); err != nil {
		return dbError(op, err)
	}

	query, args, err := r.sb.Update(t.name).
		Set("is_primary", false).
		Where(sq.And{t.scope(parent), sq.Eq{"is_primary": true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return dbError(op, err)
	}

	query, args, err = r.sb.Update(t.name).
		Set("is_primary", true).
		Where(sq.And{t.scope(parent), sq.Eq{"id": itemID}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return dbError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: image %s in %s: %w", op, itemID, parent, storage.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError(op, err)
	}

	return nil
}

// Reorder присваивает display_order по позиции id в orderedIDs.
// orderedIDs должен быть перестановкой текущих элементов; любая ошибка откатывает всё.
func (r *MediaRepo) Reorder(ctx context.Context, parent models.Parent, orderedIDs []uuid.UUID) error {
	const op = "repository.media_repository.Reorder"

	t, err := tableFor(parent)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dbError(op, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lock(ctx, tx, parent); err != nil {
		return dbError(op, err)
	}

	current, err := r.list(ctx, tx, t, parent)
	if err != nil {
		return dbError(op, err)
	}

	unknown, err := models.ValidateReorder(current, orderedIDs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if unknown != uuid.Nil {
		return fmt.Errorf("%s: image %s in %s: %w", op, unknown, parent, storage.ErrNotFound)
	}

	for i, id := range orderedIDs {
		query, args, err := r.sb.Update(t.name).
			Set("display_order", i).
			Where(sq.And{t.scope(parent), sq.Eq{"id": id}}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return dbError(op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError(op, err)
	}

	return nil
}

// DeleteByID удаляет элемент; если он был основным, основным становится первый по порядку
func (r *MediaRepo) DeleteByID(ctx context.Context, parent models.Parent, itemID uuid.UUID) (models.MediaItem, error) {
	const op = "repository.media_repository.DeleteByID"

	t, err := tableFor(parent)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.MediaItem{}, dbError(op, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lock(ctx, tx, parent); err != nil {
		return models.MediaItem{}, dbError(op, err)
	}

	query, args, err := r.sb.Delete(t.name).
		Where(sq.And{t.scope(parent), sq.Eq{"id": itemID}}).
		Suffix("RETURNING " + strings.Join(mediaColumns, ", ")).
		ToSql()
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := scanMediaItem(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.MediaItem{}, dbError(op, err)
	}
	deleted.ParentID = parent.ID

	if deleted.IsPrimary {
		if err := r.promoteFirst(ctx, tx, t, parent); err != nil {
			return models.MediaItem{}, dbError(op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.MediaItem{}, dbError(op, err)
	}

	return deleted, nil
}

func (r *MediaRepo) promoteFirst(ctx context.Context, tx pgx.Tx, t mediaTable, parent models.Parent) error {
	query, args, err := r.sb.Select("id").
		From(t.name).
		Where(t.scope(parent)).
		OrderBy("display_order", "created_at", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return err
	}

	var firstID uuid.UUID
	if err := tx.QueryRow(ctx, query, args...).Scan(&firstID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// коллекция опустела
			return nil
		}
		return err
	}

	query, args, err = r.sb.Update(t.name).Set("is_primary", true).Where(sq.Eq{"id": firstID}).ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, args...)
	return err
}

// DeleteByParent удаляет всю коллекцию; повторный вызов не ошибка
func (r *MediaRepo) DeleteByParent(ctx context.Context, parent models.Parent) (int64, error) {
	const op = "repository.media_repository.DeleteByParent"

	t, err := tableFor(parent)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Delete(t.name).Where(t.scope(parent)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, dbError(op, err)
	}

	return tag.RowsAffected(), nil
}

// ReferencedURLs возвращает все ссылки на изображения во всех коллекциях
func (r *MediaRepo) ReferencedURLs(ctx context.Context) (map[string]struct{}, error) {
	const op = "repository.media_repository.ReferencedURLs"

	urls := make(map[string]struct{})
	for _, t := range mediaTables {
		query, args, err := r.sb.Select("DISTINCT image_url").From(t.name).ToSql()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return nil, dbError(op, err)
		}

		for rows.Next() {
			var u string
			if err := rows.Scan(&u); err != nil {
				rows.Close()
				return nil, dbError(op, err)
			}
			urls[u] = struct{}{}
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return nil, dbError(op, err)
		}
	}

	return urls, nil
}

func scanMediaItem(row pgx.Row) (models.MediaItem, error) {
	var item models.MediaItem
	err := row.Scan(&item.ID, &item.URL, &item.Caption, &item.IsPrimary, &item.DisplayOrder, &item.CreatedAt)
	return item, err
}
