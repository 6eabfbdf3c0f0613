package model

import (
	"cmp"
	"math"
	"strings"
	"time"

	"todo-api/internal/domain/entity"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for any accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// SortOrder is the direction of the single sort key.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortField is a sortable todo attribute, named as in the API.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByDueDate   SortField = "dueDate"
	SortByTitle     SortField = "title"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
)

var sortColumns = map[SortField]string{
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
	SortByDueDate:   "due_date",
	SortByTitle:     "title",
	SortByPriority:  "priority",
	SortByStatus:    "status",
}

// Column returns the storage column backing the field.
func (f SortField) Column() string {
	return sortColumns[f]
}

// TodoQuery carries raw list parameters as they arrive from a request.
type TodoQuery struct {
	Status    string
	Priority  string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// TodoCriteria is a normalized, read only list query. Build it with NewTodoCriteria.
type TodoCriteria struct {
	status    entity.Status
	priority  entity.Priority
	search    string
	sortBy    SortField
	sortOrder SortOrder
	page      int
	limit     int
}

// NewTodoCriteria normalizes query. Unknown status and priority values mean no filter,
// unknown sort keys fall back to createdAt desc and paging is clamped so the offset cannot overflow.
func NewTodoCriteria(query TodoQuery) TodoCriteria {
	criteria := TodoCriteria{
		search:    strings.TrimSpace(query.Search),
		sortBy:    SortByCreatedAt,
		sortOrder: SortDesc,
		page:      query.Page,
		limit:     query.Limit,
	}

	if status := entity.Status(query.Status); status.Valid() {
		criteria.status = status
	}
	if priority := entity.Priority(query.Priority); priority.Valid() {
		criteria.priority = priority
	}
	if _, ok := sortColumns[SortField(query.SortBy)]; ok {
		criteria.sortBy = SortField(query.SortBy)
	}
	if SortOrder(strings.ToLower(query.SortOrder)) == SortAsc {
		criteria.sortOrder = SortAsc
	}

	if criteria.page < 1 {
		criteria.page = DefaultPage
	}
	if criteria.page > MaxPage {
		criteria.page = MaxPage
	}
	if criteria.limit < 1 {
		criteria.limit = DefaultLimit
	}
	if criteria.limit > MaxLimit {
		criteria.limit = MaxLimit
	}
	return criteria
}

func (c TodoCriteria) Status() entity.Status     { return c.status }
func (c TodoCriteria) Priority() entity.Priority { return c.priority }
func (c TodoCriteria) Search() string            { return c.search }
func (c TodoCriteria) SortBy() SortField         { return c.sortBy }
func (c TodoCriteria) SortOrder() SortOrder      { return c.sortOrder }
func (c TodoCriteria) Page() int                 { return c.page }
func (c TodoCriteria) Limit() int                { return c.limit }

// Offset is the number of matching rows skipped before the page starts.
func (c TodoCriteria) Offset() int {
	return (c.page - 1) * c.limit
}

// Matches reports whether todo passes the status, priority and search filters at now.
// Owner scoping is the caller's job.
func (c TodoCriteria) Matches(todo entity.Todo, now time.Time) bool {
	switch c.status {
	case entity.StatusCompleted:
		if todo.Status != entity.StatusCompleted {
			return false
		}
	case entity.StatusOverdue:
		if !todo.IsOverdue(now) {
			return false
		}
	case entity.StatusActive:
		if todo.Status == entity.StatusCompleted || todo.IsOverdue(now) {
			return false
		}
	}

	if c.priority != "" && todo.Priority != c.priority {
		return false
	}

	if c.search != "" {
		needle := strings.ToLower(c.search)
		if !strings.Contains(strings.ToLower(todo.Title), needle) &&
			!strings.Contains(strings.ToLower(todo.Description), needle) {
			return false
		}
	}
	return true
}

// Compare orders two todos by the sort key and direction, then by id ascending.
// Missing due dates rank above every date, so they come last ascending and first descending.
func (c TodoCriteria) Compare(a, b entity.Todo) int {
	result := compareField(c.sortBy, a, b)
	if c.sortOrder == SortDesc {
		result = -result
	}
	if result != 0 {
		return result
	}
	return strings.Compare(a.ID, b.ID)
}

func compareField(field SortField, a, b entity.Todo) int {
	switch field {
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByDueDate:
		return compareOptionalTime(a.DueDate, b.DueDate)
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByPriority:
		return cmp.Compare(a.Priority, b.Priority)
	case SortByStatus:
		return cmp.Compare(a.Status, b.Status)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
