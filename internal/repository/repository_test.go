package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/repository"
	"rental_showcase/internal/storage"
	"rental_showcase/internal/storage/postgresql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testCtx = context.Background()
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf(
		"postgres://test:test@%s:%s/testdb?sslmode=disable",
		host, port.Port(),
	)

	pool, err := pgxpool.Connect(ctx, connStr)
	require.NoError(t, err)

	applied, err := postgresql.Migrate(ctx, pool)
	require.NoError(t, err)
	require.NotEmpty(t, applied)

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})

	return pool
}

func mustCreateProperty(t *testing.T, repo *repository.Repository, kind models.PropertyType) models.Property {
	t.Helper()

	p, err := repo.Property.CreateProperty(testCtx, models.Property{
		Title:        "Test property " + uuid.NewString()[:8],
		Description:  "description",
		Location:     models.LocationDallas,
		PropertyType: kind,
	})
	require.NoError(t, err)

	return p
}

func inputs(urls ...string) []models.ImageInput {
	out := make([]models.ImageInput, 0, len(urls))
	for _, u := range urls {
		out = append(out, models.ImageInput{URL: u})
	}
	return out
}

func ids(items []models.MediaItem) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestMigrateIdempotent(t *testing.T) {
	db := setupTestDB(t)

	applied, err := postgresql.Migrate(testCtx, db)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMediaRepo_ReplaceAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	plan, err := models.PlanReplacement(property.ID, inputs("/objects/a", "/objects/b", "/objects/c"))
	require.NoError(t, err)

	_, err = repo.Media.Replace(testCtx, parent, plan)
	require.NoError(t, err)

	items, err := repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, ids(plan), ids(items))
	assert.Equal(t, 1, models.CountPrimary(items))

	// замена целиком удаляет прежние элементы
	plan2, err := models.PlanReplacement(property.ID, inputs("/objects/d"))
	require.NoError(t, err)
	_, err = repo.Media.Replace(testCtx, parent, plan2)
	require.NoError(t, err)

	items, err = repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/objects/d", items[0].URL)
	assert.True(t, items[0].IsPrimary)
}

func TestMediaRepo_AppendFirstBecomesPrimary(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	first, err := repo.Media.Append(testCtx, parent, inputs("/objects/a"))
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].IsPrimary)

	second, err := repo.Media.Append(testCtx, parent, inputs("/objects/b", "/objects/c"))
	require.NoError(t, err)
	assert.False(t, second[0].IsPrimary)
	assert.Equal(t, 1, second[0].DisplayOrder)
	assert.Equal(t, 2, second[1].DisplayOrder)

	items, err := repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	assert.Equal(t, 1, models.CountPrimary(items))
}

func TestMediaRepo_ConcurrentAppend(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Media.Append(testCtx, parent, inputs(fmt.Sprintf("/objects/%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, err := repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	require.Len(t, items, 8)
	assert.Equal(t, 1, models.CountPrimary(items))

	seen := map[int]bool{}
	for _, item := range items {
		assert.False(t, seen[item.DisplayOrder], "display order %d used twice", item.DisplayOrder)
		seen[item.DisplayOrder] = true
	}
}

func TestMediaRepo_SetPrimary(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	items, err := repo.Media.Append(testCtx, parent, inputs("/objects/a", "/objects/b"))
	require.NoError(t, err)
	require.True(t, items[0].IsPrimary)

	require.NoError(t, repo.Media.SetPrimary(testCtx, parent, items[1].ID))

	got, err := repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	assert.False(t, got[0].IsPrimary)
	assert.True(t, got[1].IsPrimary)

	t.Run("foreign item", func(t *testing.T) {
		err := repo.Media.SetPrimary(testCtx, parent, uuid.New())
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// откат оставил прежнее основное изображение
		got, err := repo.Media.ListByParent(testCtx, parent)
		require.NoError(t, err)
		assert.True(t, got[1].IsPrimary)
		assert.Equal(t, 1, models.CountPrimary(got))
	})
}

func TestMediaRepo_Reorder(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	items, err := repo.Media.Append(testCtx, parent, inputs("/objects/a", "/objects/b", "/objects/c"))
	require.NoError(t, err)

	order := []uuid.UUID{items[2].ID, items[0].ID, items[1].ID}
	require.NoError(t, repo.Media.Reorder(testCtx, parent, order))

	got, err := repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	assert.Equal(t, order, ids(got))
	// порядок не меняет основное изображение
	assert.True(t, got[1].IsPrimary)

	t.Run("foreign id leaves order untouched", func(t *testing.T) {
		err := repo.Media.Reorder(testCtx, parent, []uuid.UUID{items[0].ID, uuid.New(), items[1].ID})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		after, err := repo.Media.ListByParent(testCtx, parent)
		require.NoError(t, err)
		assert.Equal(t, order, ids(after))
	})

	t.Run("partial list rejected", func(t *testing.T) {
		err := repo.Media.Reorder(testCtx, parent, []uuid.UUID{items[0].ID})
		assert.True(t, models.IsValidationError(err))
	})
}

func TestMediaRepo_DeleteByID(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	items, err := repo.Media.Append(testCtx, parent, inputs("/objects/a", "/objects/b", "/objects/c"))
	require.NoError(t, err)

	deleted, err := repo.Media.DeleteByID(testCtx, parent, items[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsPrimary)

	got, err := repo.Media.ListByParent(testCtx, parent)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, items[1].ID, got[0].ID)
	assert.True(t, got[0].IsPrimary)

	_, err = repo.Media.DeleteByID(testCtx, parent, items[0].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMediaRepo_DeleteByParentIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	parent := models.PropertyParent(property.ID)

	_, err := repo.Media.Append(testCtx, parent, inputs("/objects/a", "/objects/b"))
	require.NoError(t, err)

	n, err := repo.Media.DeleteByParent(testCtx, parent)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Media.DeleteByParent(testCtx, parent)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMediaRepo_HeroAndCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)

	hero, err := repo.Media.Append(testCtx, models.HeroParent(), inputs("/objects/h1", "/objects/h2"))
	require.NoError(t, err)
	assert.True(t, hero[0].IsPrimary)

	property := mustCreateProperty(t, repo, models.PropertyTypeMultifamily)
	unit, err := repo.Unit.CreateUnit(testCtx, models.Unit{PropertyID: property.ID, UnitNumber: "1A", Bedrooms: 1, Bathrooms: 1})
	require.NoError(t, err)

	_, err = repo.Media.Append(testCtx, models.UnitParent(unit.ID), inputs("/objects/u1"))
	require.NoError(t, err)

	refs, err := repo.Media.ReferencedURLs(testCtx)
	require.NoError(t, err)
	assert.Contains(t, refs, "/objects/h1")
	assert.Contains(t, refs, "/objects/u1")

	require.NoError(t, repo.Property.DeleteProperty(testCtx, property.ID))

	unitImages, err := repo.Media.ListByParent(testCtx, models.UnitParent(unit.ID))
	require.NoError(t, err)
	assert.Empty(t, unitImages)

	_, err = repo.Media.Append(testCtx, models.UnitParent(unit.ID), inputs("/objects/u2"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMediaRepo_ListByParents(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)

	a := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	b := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)

	_, err := repo.Media.Append(testCtx, models.PropertyParent(a.ID), inputs("/objects/a1", "/objects/a2"))
	require.NoError(t, err)

	byParent, err := repo.Media.ListByParents(testCtx, models.ParentProperty, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, byParent[a.ID], 2)
	assert.Empty(t, byParent[b.ID])
	assert.Equal(t, "/objects/a1", models.Representative(byParent[a.ID]).URL)
	assert.True(t, models.Representative(byParent[b.ID]).IsZero())
}

func TestPropertyRepo_ListFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)

	dallas := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)
	_, err := repo.Property.CreateProperty(testCtx, models.Property{
		Title:        "Atlanta house",
		Description:  "d",
		Location:     models.LocationAtlanta,
		PropertyType: models.PropertyTypeSingleFamily,
		Featured:     true,
	})
	require.NoError(t, err)

	loc := models.LocationDallas
	list, err := repo.Property.ListProperties(testCtx, models.PropertyFilter{Location: &loc})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dallas.ID, list[0].ID)

	featured, err := repo.Property.ListProperties(testCtx, models.PropertyFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Atlanta house", featured[0].Title)

	byID, err := repo.Property.ListProperties(testCtx, models.PropertyFilter{IDs: []uuid.UUID{dallas.ID}})
	require.NoError(t, err)
	require.Len(t, byID, 1)

	_, err = repo.Property.GetPropertyByID(testCtx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)

	id, err := repo.User.SaveUser(testCtx, models.User{Name: "Owner", Email: "Owner@Example.com", Password: []byte("hash"), IsAdmin: true})
	require.NoError(t, err)

	_, err = repo.User.SaveUser(testCtx, models.User{Name: "Owner", Email: "owner@example.com", Password: []byte("hash")})
	assert.ErrorIs(t, err, storage.ErrUserExists)

	user, err := repo.User.UserByEmail(testCtx, "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	isAdmin, err := repo.User.IsAdmin(testCtx, id)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	_, err = repo.User.GetUserById(testCtx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestViewRepo_CountViews(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	property := mustCreateProperty(t, repo, models.PropertyTypeSingleFamily)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.View.RecordView(testCtx, models.PropertyView{
			PropertyID: property.ID,
			IPAddress:  "127.0.0.1",
			ViewedAt:   time.Now().UTC(),
		}))
	}

	counts, err := repo.View.CountViews(testCtx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(3), counts[0].Views)
	assert.Equal(t, property.ID, counts[0].PropertyID)
}
