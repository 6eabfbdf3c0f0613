package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/model"
)

const statsQuery = `
SELECT
	COUNT(*) FILTER (WHERE status = @completed) AS completed,
	COUNT(*) FILTER (WHERE status <> @completed AND due_date < @now) AS overdue,
	COUNT(*) FILTER (WHERE status <> @completed AND (due_date IS NULL OR due_date >= @now)) AS active,
	COUNT(*) FILTER (WHERE due_date >= @today AND due_date < @tomorrow) AS due_today
FROM todos
WHERE owner_id = @owner`

// text columns sort bytewise so results match the in-memory store regardless of database locale
var textSortColumns = map[model.SortField]bool{
	model.SortByTitle:    true,
	model.SortByPriority: true,
	model.SortByStatus:   true,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GormTodoGateway struct {
	DB *gorm.DB
}

var _ TodoGateway = (*GormTodoGateway)(nil)

func NewGormTodoGateway(db *gorm.DB) *GormTodoGateway {
	return &GormTodoGateway{DB: db}
}

func (gateway *GormTodoGateway) owned(ctx context.Context, ownerID string) *gorm.DB {
	return gateway.DB.WithContext(ctx).Model(&entity.Todo{}).Where("owner_id = ?", ownerID)
}

func (gateway *GormTodoGateway) FindPage(ctx context.Context, ownerID string, criteria model.TodoCriteria, now time.Time) ([]entity.Todo, int64, error) {
	var total int64
	if err := gateway.owned(ctx, ownerID).Scopes(filterScope(criteria, now)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	todos := make([]entity.Todo, 0, criteria.Limit())
	if total == 0 {
		return todos, 0, nil
	}

	err := gateway.owned(ctx, ownerID).
		Scopes(filterScope(criteria, now), orderScope(criteria)).
		Offset(criteria.Offset()).
		Limit(criteria.Limit()).
		Find(&todos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find todos: %w", err)
	}
	return todos, total, nil
}

func (gateway *GormTodoGateway) FindByID(ctx context.Context, ownerID string, id string) (*entity.Todo, error) {
	var todo entity.Todo
	err := gateway.owned(ctx, ownerID).Where("id = ?", id).First(&todo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find todo %s: %w", id, err)
	}
	return &todo, nil
}

func (gateway *GormTodoGateway) FindOverdue(ctx context.Context, ownerID string, now time.Time) ([]entity.Todo, error) {
	todos := make([]entity.Todo, 0)
	err := gateway.owned(ctx, ownerID).
		Where("status <> ? AND due_date < ?", entity.StatusCompleted, now).
		Order("due_date ASC").
		Order("id ASC").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("find overdue todos: %w", err)
	}
	return todos, nil
}

func (gateway *GormTodoGateway) Stats(ctx context.Context, ownerID string, now time.Time) (model.TodoStats, error) {
	today, tomorrow := model.DayBounds(now)

	var row struct {
		Completed int64
		Overdue   int64
		Active    int64
		DueToday  int64
	}
	err := gateway.DB.WithContext(ctx).Raw(statsQuery, map[string]any{
		"completed": entity.StatusCompleted,
		"now":       now,
		"today":     today,
		"tomorrow":  tomorrow,
		"owner":     ownerID,
	}).Scan(&row).Error
	if err != nil {
		return model.TodoStats{}, fmt.Errorf("aggregate todo stats: %w", err)
	}

	return model.TodoStats{
		Total:     row.Active + row.Completed + row.Overdue,
		Active:    row.Active,
		Completed: row.Completed,
		Overdue:   row.Overdue,
		DueToday:  row.DueToday,
	}, nil
}

func (gateway *GormTodoGateway) Create(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	if err := gateway.DB.WithContext(ctx).Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &todo, nil
}

func (gateway *GormTodoGateway) Update(ctx context.Context, todo entity.Todo) (*entity.Todo, error) {
	result := gateway.DB.WithContext(ctx).
		Model(&entity.Todo{}).
		Where("id = ? AND owner_id = ?", todo.ID, todo.OwnerID).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(&todo)
	if result.Error != nil {
		return nil, fmt.Errorf("update todo %s: %w", todo.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return gateway.FindByID(ctx, todo.OwnerID, todo.ID)
}

func (gateway *GormTodoGateway) Delete(ctx context.Context, ownerID string, id string) (bool, error) {
	result := gateway.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&entity.Todo{})
	if result.Error != nil {
		return false, fmt.Errorf("delete todo %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// filterScope translates the status, priority and search filters to SQL.
func filterScope(criteria model.TodoCriteria, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch criteria.Status() {
		case entity.StatusCompleted:
			db = db.Where("status = ?", entity.StatusCompleted)
		case entity.StatusOverdue:
			db = db.Where("status <> ? AND due_date < ?", entity.StatusCompleted, now)
		case entity.StatusActive:
			db = db.Where("status <> ? AND (due_date IS NULL OR due_date >= ?)", entity.StatusCompleted, now)
		}

		if criteria.Priority() != "" {
			db = db.Where("priority = ?", criteria.Priority())
		}

		if search := criteria.Search(); search != "" {
			pattern := "%" + likeEscaper.Replace(search) + "%"
			db = db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
		}
		return db
	}
}

// orderScope sorts by the criteria key. Postgres already puts NULL due dates last
// ascending and first descending; id breaks ties.
func orderScope(criteria model.TodoCriteria) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := criteria.SortBy().Column()
		if textSortColumns[criteria.SortBy()] {
			column += ` COLLATE "C"`
		}
		direction := "DESC"
		if criteria.SortOrder() == model.SortAsc {
			direction = "ASC"
		}
		return db.Order(column + " " + direction).Order("id ASC")
	}
}
