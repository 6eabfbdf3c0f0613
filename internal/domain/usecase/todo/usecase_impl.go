package todo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
)

const publishTimeout = 5 * time.Second

type todoUseCase struct {
	gateway db.TodoGateway
	events  queue.TodoEventSender
	clock   func() time.Time
	stats   singleflight.Group
}

// Option customizes the use case.
type Option func(*todoUseCase)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(useCase *todoUseCase) {
		useCase.clock = clock
	}
}

func NewTodoUseCase(gateway db.TodoGateway, events queue.TodoEventSender, options ...Option) UseCase {
	useCase := &todoUseCase{
		gateway: gateway,
		events:  events,
		clock:   time.Now,
	}
	for _, option := range options {
		option(useCase)
	}
	if useCase.events == nil {
		useCase.events = queue.NoopTodoEventSender{}
	}
	return useCase
}

// now is truncated to the precision Postgres stores so both gateways see identical timestamps.
func (useCase *todoUseCase) now() time.Time {
	return useCase.clock().Truncate(time.Microsecond)
}

func (useCase *todoUseCase) List(ctx context.Context, ownerID string, criteria model.TodoCriteria) (*model.Page[model.TodoResponse], error) {
	now := useCase.now()

	todos, total, err := useCase.gateway.FindPage(ctx, ownerID, criteria, now)
	if err != nil {
		return nil, storageError(err)
	}

	page := model.NewPage(todos, criteria.Page(), criteria.Limit(), total)
	return model.MapPage(page, func(todo entity.Todo) model.TodoResponse {
		return model.NewTodoResponse(todo, now)
	}), nil
}

func (useCase *todoUseCase) Get(ctx context.Context, ownerID string, id string) (*model.TodoResponse, error) {
	todo, err := useCase.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := model.NewTodoResponse(*todo, useCase.now())
	return &response, nil
}

func (useCase *todoUseCase) Create(ctx context.Context, ownerID string, dto model.CreateTodoDTO) (*model.TodoResponse, error) {
	now := useCase.now()

	todo := entity.Todo{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         dto.Title,
		Description:   dto.Description,
		Priority:      dto.Priority,
		Status:        entity.StatusActive,
		Tags:          dto.Tags,
		IsRecurring:   dto.IsRecurring,
		RecurringType: dto.RecurringType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if todo.Priority == "" {
		todo.Priority = entity.PriorityMedium
	}

	dueDateErrors := &entity.ValidationError{}
	switch {
	case dto.DueDate.Invalid:
		dueDateErrors.Add("dueDate", msg.GetMessage("todo.validation.due-date-invalid"))
	case dto.DueDate.Ptr() != nil && !dto.DueDate.Ptr().After(now):
		dueDateErrors.Add("dueDate", msg.GetMessage("todo.validation.due-date-past"))
	default:
		todo.DueDate = dto.DueDate.Ptr()
	}

	todo.Normalize()
	if err := validate(&todo, dueDateErrors); err != nil {
		return nil, err
	}
	todo.ApplyTransitions(entity.StatusActive, now)

	created, err := useCase.gateway.Create(ctx, todo)
	if err != nil {
		return nil, storageError(err)
	}

	useCase.publish(ctx, model.TodoCreated, *created, now)
	response := model.NewTodoResponse(*created, now)
	return &response, nil
}

func (useCase *todoUseCase) Update(ctx context.Context, ownerID string, id string, dto model.UpdateTodoDTO) (*model.TodoResponse, error) {
	existing, err := useCase.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	now := useCase.now()

	todo := *existing
	previous := todo.Status
	patchErrors := applyPatch(&todo, dto)

	todo.Normalize()
	if err := validate(&todo, patchErrors); err != nil {
		return nil, err
	}
	todo.ApplyTransitions(previous, now)
	todo.UpdatedAt = now

	updated, err := useCase.save(ctx, todo)
	if err != nil {
		return nil, err
	}

	useCase.publish(ctx, transitionEvent(previous, updated.Status), *updated, now)
	response := model.NewTodoResponse(*updated, now)
	return &response, nil
}

func (useCase *todoUseCase) Delete(ctx context.Context, ownerID string, id string) error {
	todoID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := useCase.gateway.Delete(ctx, ownerID, todoID)
	if err != nil {
		return storageError(err)
	}
	if !deleted {
		return ErrNotFound
	}

	useCase.publish(ctx, model.TodoDeleted, entity.Todo{ID: todoID, OwnerID: ownerID}, useCase.now())
	return nil
}

func (useCase *todoUseCase) Toggle(ctx context.Context, ownerID string, id string) (*model.TodoResponse, error) {
	todo, err := useCase.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	now := useCase.now()

	previous := todo.Status
	if todo.EffectiveStatus(now) == entity.StatusCompleted {
		todo.MarkActive(now)
	} else {
		todo.MarkCompleted(now)
	}
	todo.UpdatedAt = now

	updated, err := useCase.save(ctx, *todo)
	if err != nil {
		return nil, err
	}

	useCase.publish(ctx, transitionEvent(previous, updated.Status), *updated, now)
	response := model.NewTodoResponse(*updated, now)
	return &response, nil
}

// Stats recomputes the counters on every call. Identical requests for the same owner that
// arrive while one is running share its result.
func (useCase *todoUseCase) Stats(ctx context.Context, ownerID string) (model.TodoStats, error) {
	result, err, _ := useCase.stats.Do(ownerID, func() (interface{}, error) {
		return useCase.gateway.Stats(context.WithoutCancel(ctx), ownerID, useCase.now())
	})
	if err != nil {
		return model.TodoStats{}, storageError(err)
	}
	return result.(model.TodoStats), nil
}

func (useCase *todoUseCase) Overdue(ctx context.Context, ownerID string) ([]model.TodoResponse, error) {
	now := useCase.now()

	todos, err := useCase.gateway.FindOverdue(ctx, ownerID, now)
	if err != nil {
		return nil, storageError(err)
	}
	return model.NewTodoResponses(todos, now), nil
}

// load fetches the owner's todo, mapping a missing or foreign todo to ErrNotFound.
func (useCase *todoUseCase) load(ctx context.Context, ownerID string, id string) (*entity.Todo, error) {
	todoID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	todo, err := useCase.gateway.FindByID(ctx, ownerID, todoID)
	if err != nil {
		return nil, storageError(err)
	}
	if todo == nil {
		return nil, ErrNotFound
	}
	return todo, nil
}

func (useCase *todoUseCase) save(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	updated, err := useCase.gateway.Update(ctx, todo)
	if err != nil {
		return nil, storageError(err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// publish sends a lifecycle event for a committed write. Failures are logged only.
func (useCase *todoUseCase) publish(ctx context.Context, eventType model.TodoEventType, todo entity.Todo, now time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := useCase.events.Send(ctx, model.NewTodoEvent(eventType, todo, now)); err != nil {
		log.Error(msg.GetMessage("todo.event.publish-fail", eventType, todo.ID, err),
			zap.String("event", string(eventType)),
			zap.String("todo_id", todo.ID),
			zap.Error(err),
		)
		return
	}
	log.Debug(msg.GetMessage("todo.event.published", eventType, todo.ID))
}

// applyPatch copies the fields present in dto onto todo and returns the violations that
// Normalize would otherwise hide. The due date is not required to be in the future on update.
func applyPatch(todo *entity.Todo, dto model.UpdateTodoDTO) *entity.ValidationError {
	patchErrors := &entity.ValidationError{}

	if dto.Title != nil {
		todo.Title = *dto.Title
	}
	if dto.Description.Present {
		todo.Description = dto.Description.Value
	}
	if dto.Priority != nil {
		todo.Priority = *dto.Priority
	}
	if dto.Status != nil {
		todo.Status = *dto.Status
	}
	if dto.DueDate.Present {
		if dto.DueDate.Invalid {
			patchErrors.Add("dueDate", msg.GetMessage("todo.validation.due-date-invalid"))
		} else {
			todo.DueDate = dto.DueDate.Ptr()
		}
	}
	if dto.Tags != nil {
		todo.Tags = *dto.Tags
	}
	if dto.IsRecurring != nil {
		todo.IsRecurring = *dto.IsRecurring
	}
	if dto.RecurringType != nil {
		if *dto.RecurringType != "" && !dto.RecurringType.Valid() {
			patchErrors.Add("recurringType", msg.GetMessage("todo.validation.recurring-type-invalid"))
		}
		todo.RecurringType = *dto.RecurringType
	}
	return patchErrors
}

// validate merges the entity's own violations with extra ones found while parsing the request.
func validate(todo *entity.Todo, extra *entity.ValidationError) error {
	all := &entity.ValidationError{}

	var fieldErrors *entity.ValidationError
	if errors.As(todo.Validate(), &fieldErrors) {
		all.Fields = append(all.Fields, fieldErrors.Fields...)
	}
	all.Fields = append(all.Fields, extra.Fields...)
	return all.OrNil()
}

func transitionEvent(previous, current entity.Status) model.TodoEventType {
	switch {
	case previous != entity.StatusCompleted && current == entity.StatusCompleted:
		return model.TodoCompleted
	case previous == entity.StatusCompleted && current != entity.StatusCompleted:
		return model.TodoReopened
	default:
		return model.TodoUpdated
	}
}

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return parsed.String(), nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
