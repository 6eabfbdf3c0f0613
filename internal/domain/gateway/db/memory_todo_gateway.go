package db

import (
	"context"
	"slices"
	"sync"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// MemoryTodoGateway keeps todos in a map. It evaluates criteria with the same
// predicates and ordering the SQL gateway uses, so both stores answer alike.
type MemoryTodoGateway struct {
	todos map[string]entity.Todo
	mutex sync.RWMutex
}

var _ TodoGateway = (*MemoryTodoGateway)(nil)

func NewMemoryTodoGateway() *MemoryTodoGateway {
	return &MemoryTodoGateway{
		todos: make(map[string]entity.Todo),
	}
}

func (gateway *MemoryTodoGateway) FindPage(_ context.Context, ownerID string, criteria model.TodoCriteria, now time.Time) ([]entity.Todo, int64, error) {
	gateway.mutex.RLock()
	var matched []entity.Todo
	for _, todo := range gateway.todos {
		if todo.OwnerID == ownerID && criteria.Matches(todo, now) {
			matched = append(matched, clone(todo))
		}
	}
	gateway.mutex.RUnlock()

	slices.SortFunc(matched, criteria.Compare)

	total := int64(len(matched))
	start := min(criteria.Offset(), len(matched))
	end := min(start+criteria.Limit(), len(matched))
	return matched[start:end], total, nil
}

func (gateway *MemoryTodoGateway) FindByID(_ context.Context, ownerID string, id string) (*entity.Todo, error) {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	todo, ok := gateway.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, nil
	}
	found := clone(todo)
	return &found, nil
}

func (gateway *MemoryTodoGateway) FindOverdue(_ context.Context, ownerID string, now time.Time) ([]entity.Todo, error) {
	criteria := model.NewTodoCriteria(model.TodoQuery{
		Status:    string(entity.StatusOverdue),
		SortBy:    string(model.SortByDueDate),
		SortOrder: string(model.SortAsc),
	})

	gateway.mutex.RLock()
	overdue := make([]entity.Todo, 0)
	for _, todo := range gateway.todos {
		if todo.OwnerID == ownerID && criteria.Matches(todo, now) {
			overdue = append(overdue, clone(todo))
		}
	}
	gateway.mutex.RUnlock()

	slices.SortFunc(overdue, criteria.Compare)
	return overdue, nil
}

func (gateway *MemoryTodoGateway) Stats(_ context.Context, ownerID string, now time.Time) (model.TodoStats, error) {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	owned := make([]entity.Todo, 0)
	for _, todo := range gateway.todos {
		if todo.OwnerID == ownerID {
			owned = append(owned, todo)
		}
	}
	return model.AggregateStats(owned, now), nil
}

func (gateway *MemoryTodoGateway) Create(_ context.Context, todo entity.Todo) (*entity.Todo, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	gateway.todos[todo.ID] = clone(todo)
	created := clone(todo)
	return &created, nil
}

func (gateway *MemoryTodoGateway) Update(_ context.Context, todo entity.Todo) (*entity.Todo, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	stored, ok := gateway.todos[todo.ID]
	if !ok || stored.OwnerID != todo.OwnerID {
		return nil, nil
	}
	todo.CreatedAt = stored.CreatedAt
	gateway.todos[todo.ID] = clone(todo)
	updated := clone(todo)
	return &updated, nil
}

func (gateway *MemoryTodoGateway) Delete(_ context.Context, ownerID string, id string) (bool, error) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()

	stored, ok := gateway.todos[id]
	if !ok || stored.OwnerID != ownerID {
		return false, nil
	}
	delete(gateway.todos, id)
	return true, nil
}

// clone detaches the slices and pointers of todo from the stored copy.
func clone(todo entity.Todo) entity.Todo {
	todo.Tags = slices.Clone(todo.Tags)
	if todo.DueDate != nil {
		dueDate := *todo.DueDate
		todo.DueDate = &dueDate
	}
	if todo.CompletedAt != nil {
		completedAt := *todo.CompletedAt
		todo.CompletedAt = &completedAt
	}
	return todo
}
