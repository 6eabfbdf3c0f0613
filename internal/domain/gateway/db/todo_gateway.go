package db

import (
	"context"
	"time"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

// TodoGateway stores todos. Every lookup is scoped by owner; a todo owned by someone
// else is reported exactly like a missing one.
type TodoGateway interface {
	// FindPage returns one page of the owner's todos matching criteria and the total match count.
	FindPage(ctx context.Context, ownerID string, criteria model.TodoCriteria, now time.Time) ([]entity.Todo, int64, error)
	// FindByID returns nil, nil when the owner has no todo with that id.
	FindByID(ctx context.Context, ownerID string, id string) (*entity.Todo, error)
	// FindOverdue returns the owner's incomplete todos due before now, earliest due first.
	FindOverdue(ctx context.Context, ownerID string, now time.Time) ([]entity.Todo, error)
	Stats(ctx context.Context, ownerID string, now time.Time) (model.TodoStats, error)

	Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error)
	// Update replaces every mutable column; it returns nil, nil when the (id, owner) pair does not exist.
	Update(ctx context.Context, todo entity.Todo) (*entity.Todo, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, ownerID string, id string) (bool, error)
}
