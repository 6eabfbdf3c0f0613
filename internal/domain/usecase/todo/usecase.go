package todo

import (
	"context"

	"todo-api/internal/domain/model"
)

// UseCase is the todo service. Every operation is scoped to ownerID, which the caller
// has already authenticated.
type UseCase interface {
	List(ctx context.Context, ownerID string, criteria model.TodoCriteria) (*model.Page[model.TodoResponse], error)
	Get(ctx context.Context, ownerID string, id string) (*model.TodoResponse, error)
	Create(ctx context.Context, ownerID string, dto model.CreateTodoDTO) (*model.TodoResponse, error)
	Update(ctx context.Context, ownerID string, id string, dto model.UpdateTodoDTO) (*model.TodoResponse, error)
	Delete(ctx context.Context, ownerID string, id string) error
	Toggle(ctx context.Context, ownerID string, id string) (*model.TodoResponse, error)
	Stats(ctx context.Context, ownerID string) (model.TodoStats, error)
	Overdue(ctx context.Context, ownerID string) ([]model.TodoResponse, error)
}
