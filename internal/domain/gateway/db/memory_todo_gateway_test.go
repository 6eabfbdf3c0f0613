package db

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func seed(t *testing.T, gateway *MemoryTodoGateway, todos ...entity.Todo) {
	t.Helper()
	for _, todo := range todos {
		_, err := gateway.Create(context.Background(), todo)
		require.NoError(t, err)
	}
}

func TestMemoryFindPagePaginates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gateway := NewMemoryTodoGateway()

	for i := range 25 {
		seed(t, gateway, entity.Todo{
			ID:        fmt.Sprintf("todo-%02d", i),
			OwnerID:   "alice",
			Title:     fmt.Sprintf("Todo %02d", i),
			Status:    entity.StatusActive,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	seed(t, gateway, entity.Todo{ID: "bob-1", OwnerID: "bob", Status: entity.StatusActive})

	criteria := model.NewTodoCriteria(model.TodoQuery{Page: 3, Limit: 10})
	todos, total, err := gateway.FindPage(ctx, "alice", criteria, now)
	require.NoError(t, err)

	assert.Equal(t, int64(25), total)
	require.Len(t, todos, 5)
	assert.Equal(t, "todo-04", todos[0].ID)
	assert.Equal(t, "todo-00", todos[4].ID)

	page := model.NewPage(todos, criteria.Page(), criteria.Limit(), total)
	assert.Equal(t, 3, page.Pagination.Pages)
}

func TestMemoryPageBeyondEnd(t *testing.T) {
	t.Parallel()
	gateway := NewMemoryTodoGateway()
	seed(t, gateway, entity.Todo{ID: "1", OwnerID: "alice", Status: entity.StatusActive})

	todos, total, err := gateway.FindPage(context.Background(), "alice", model.NewTodoCriteria(model.TodoQuery{Page: 5}), now)
	require.NoError(t, err)

	assert.Empty(t, todos)
	assert.Equal(t, int64(1), total)
}

func TestMemoryHugePageIsEmpty(t *testing.T) {
	t.Parallel()
	gateway := NewMemoryTodoGateway()
	seed(t, gateway, entity.Todo{ID: "1", OwnerID: "alice", Status: entity.StatusActive})

	criteria := model.NewTodoCriteria(model.TodoQuery{Page: math.MaxInt/10 + 1, Limit: 10})
	todos, total, err := gateway.FindPage(context.Background(), "alice", criteria, now)
	require.NoError(t, err)

	assert.Empty(t, todos)
	assert.Equal(t, int64(1), total)
}

func TestMemoryOwnerScoping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gateway := NewMemoryTodoGateway()
	seed(t, gateway, entity.Todo{ID: "1", OwnerID: "bob", Title: "secret", Status: entity.StatusActive})

	found, err := gateway.FindByID(ctx, "alice", "1")
	require.NoError(t, err)
	assert.Nil(t, found)

	updated, err := gateway.Update(ctx, entity.Todo{ID: "1", OwnerID: "alice", Title: "stolen"})
	require.NoError(t, err)
	assert.Nil(t, updated)

	deleted, err := gateway.Delete(ctx, "alice", "1")
	require.NoError(t, err)
	assert.False(t, deleted)

	found, err = gateway.FindByID(ctx, "bob", "1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "secret", found.Title)
}

func TestMemoryUpdateKeepsCreatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gateway := NewMemoryTodoGateway()
	seed(t, gateway, entity.Todo{ID: "1", OwnerID: "alice", Title: "old", CreatedAt: now})

	updated, err := gateway.Update(ctx, entity.Todo{ID: "1", OwnerID: "alice", Title: "new", UpdatedAt: now.Add(time.Hour)})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, now, updated.CreatedAt)
}

func TestMemoryStoresCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gateway := NewMemoryTodoGateway()

	todo := entity.Todo{ID: "1", OwnerID: "alice", Tags: []string{"home"}}
	seed(t, gateway, todo)
	todo.Tags[0] = "mutated"

	found, err := gateway.FindByID(ctx, "alice", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, found.Tags)
}

func TestMemoryFindOverdue(t *testing.T) {
	t.Parallel()
	gateway := NewMemoryTodoGateway()
	seed(t, gateway,
		entity.Todo{ID: "late", OwnerID: "alice", Status: entity.StatusActive, DueDate: at(-time.Hour)},
		entity.Todo{ID: "later", OwnerID: "alice", Status: entity.StatusOverdue, DueDate: at(-48 * time.Hour)},
		entity.Todo{ID: "done", OwnerID: "alice", Status: entity.StatusCompleted, DueDate: at(-time.Hour)},
		entity.Todo{ID: "future", OwnerID: "alice", Status: entity.StatusActive, DueDate: at(time.Hour)},
		entity.Todo{ID: "other", OwnerID: "bob", Status: entity.StatusActive, DueDate: at(-time.Hour)},
	)

	todos, err := gateway.FindOverdue(context.Background(), "alice", now)
	require.NoError(t, err)

	ids := make([]string, 0, len(todos))
	for _, todo := range todos {
		ids = append(ids, todo.ID)
	}
	assert.Equal(t, []string{"later", "late"}, ids)
}

func TestMemoryStats(t *testing.T) {
	t.Parallel()
	gateway := NewMemoryTodoGateway()
	seed(t, gateway,
		entity.Todo{ID: "1", OwnerID: "alice", Status: entity.StatusActive},
		entity.Todo{ID: "2", OwnerID: "alice", Status: entity.StatusActive, DueDate: at(-time.Hour)},
		entity.Todo{ID: "3", OwnerID: "alice", Status: entity.StatusCompleted},
		entity.Todo{ID: "4", OwnerID: "bob", Status: entity.StatusActive},
	)

	stats, err := gateway.Stats(context.Background(), "alice", now)
	require.NoError(t, err)

	want := model.TodoStats{Total: 3, Active: 1, Completed: 1, Overdue: 1, DueToday: 1}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}
