package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/service"
)

func newTestTodoService(t *testing.T, todos *memoryTodoRepo, categories *memoryCategoryRepo, cache repository.TodoCache) *service.TodoService {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	return service.NewTodoService(todos, categories, cache, 30*time.Second, node, zap.NewNop())
}

func seedCategory(t *testing.T, categories *memoryCategoryRepo) domain.Category {
	t.Helper()
	category, err := categories.Create(context.Background(), domain.Category{ID: 100, Name: "Errands"})
	require.NoError(t, err)
	return category
}

func TestTodoCreateUnknownCategory(t *testing.T) {
	svc := newTestTodoService(t, newMemoryTodoRepo(), newMemoryCategoryRepo(), nil)

	_, err := svc.Create(context.Background(), 1, service.TodoInput{Name: "Milk", Amount: 2, CategoryID: 999})
	requireStatus(t, err, http.StatusNotFound)
}

func TestTodoOwnershipGuard(t *testing.T) {
	ctx := context.Background()
	todos := newMemoryTodoRepo()
	categories := newMemoryCategoryRepo()
	svc := newTestTodoService(t, todos, categories, nil)
	category := seedCategory(t, categories)

	const owner, stranger = int64(1), int64(2)

	created, err := svc.Create(ctx, owner, service.TodoInput{Name: "Milk", Amount: 2, CategoryID: category.ID})
	require.NoError(t, err)

	// Mutating someone else's todo is Forbidden; the id check runs first so
	// an absent id stays NotFound for every caller.
	_, err = svc.Update(ctx, stranger, created.ID, service.TodoInput{Name: "Oat milk", Amount: 1})
	requireStatus(t, err, http.StatusForbidden)

	err = svc.Delete(ctx, stranger, created.ID)
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.Update(ctx, stranger, created.ID+12345, service.TodoInput{Name: "Oat milk", Amount: 1})
	requireStatus(t, err, http.StatusNotFound)

	err = svc.Delete(ctx, owner, created.ID+12345)
	requireStatus(t, err, http.StatusNotFound)

	updated, err := svc.Update(ctx, owner, created.ID, service.TodoInput{Name: "Oat milk", Amount: 1})
	require.NoError(t, err)
	require.Equal(t, "Oat milk", updated.Name)
	require.Equal(t, owner, updated.UserID)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	_, err = svc.Update(ctx, owner, created.ID, service.TodoInput{Name: "Milk", Amount: 2})
	requireStatus(t, err, http.StatusNotFound)
}

func TestTodoListUsesCache(t *testing.T) {
	ctx := context.Background()
	todos := newMemoryTodoRepo()
	categories := newMemoryCategoryRepo()
	cache := &memoryTodoCache{}
	svc := newTestTodoService(t, todos, categories, cache)
	category := seedCategory(t, categories)

	created, err := svc.Create(ctx, 1, service.TodoInput{Name: "Milk", Amount: 2, CategoryID: category.ID})
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.True(t, cache.warm)

	// Warm cache answers without touching the repository.
	require.NoError(t, todos.Delete(ctx, created.ID))
	listed, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Mutations drop the cached listing.
	recreated, err := svc.Create(ctx, 1, service.TodoInput{Name: "Bread", Amount: 1, CategoryID: category.ID})
	require.NoError(t, err)
	require.False(t, cache.warm)

	listed, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, recreated.ID, listed[0].ID)
}

func TestTodoListByUserAndCategory(t *testing.T) {
	ctx := context.Background()
	todos := newMemoryTodoRepo()
	categories := newMemoryCategoryRepo()
	svc := newTestTodoService(t, todos, categories, nil)
	category := seedCategory(t, categories)

	other, err := categories.Create(ctx, domain.Category{ID: 101, Name: "Work"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, service.TodoInput{Name: "Milk", Amount: 2, CategoryID: category.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, service.TodoInput{Name: "Report", Amount: 1, CategoryID: other.ID})
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Milk", mine[0].Name)

	work, err := svc.ListByCategory(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, work, 1)
	require.Equal(t, "Report", work[0].Name)
}
