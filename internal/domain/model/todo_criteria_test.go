package model

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todo-api/internal/domain/entity"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestNewTodoCriteria(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		query         TodoQuery
		wantStatus    entity.Status
		wantPriority  entity.Priority
		wantSortBy    SortField
		wantSortOrder SortOrder
		wantPage      int
		wantLimit     int
	}{
		"defaults": {
			query:         TodoQuery{},
			wantSortBy:    SortByCreatedAt,
			wantSortOrder: SortDesc,
			wantPage:      1,
			wantLimit:     10,
		},
		"valid values kept": {
			query: TodoQuery{
				Status: "overdue", Priority: "high", SortBy: "dueDate", SortOrder: "asc", Page: 3, Limit: 25,
			},
			wantStatus:    entity.StatusOverdue,
			wantPriority:  entity.PriorityHigh,
			wantSortBy:    SortByDueDate,
			wantSortOrder: SortAsc,
			wantPage:      3,
			wantLimit:     25,
		},
		"unknown values ignored": {
			query: TodoQuery{
				Status: "archived", Priority: "urgent", SortBy: "ownerId", SortOrder: "sideways", Page: -2, Limit: 0,
			},
			wantSortBy:    SortByCreatedAt,
			wantSortOrder: SortDesc,
			wantPage:      1,
			wantLimit:     10,
		},
		"limit capped": {
			query:         TodoQuery{Limit: 1000},
			wantSortBy:    SortByCreatedAt,
			wantSortOrder: SortDesc,
			wantPage:      1,
			wantLimit:     MaxLimit,
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			criteria := NewTodoCriteria(tc.query)

			assert.Equal(t, tc.wantStatus, criteria.Status())
			assert.Equal(t, tc.wantPriority, criteria.Priority())
			assert.Equal(t, tc.wantSortBy, criteria.SortBy())
			assert.Equal(t, tc.wantSortOrder, criteria.SortOrder())
			assert.Equal(t, tc.wantPage, criteria.Page())
			assert.Equal(t, tc.wantLimit, criteria.Limit())
		})
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	criteria := NewTodoCriteria(TodoQuery{Page: 3, Limit: 10})
	assert.Equal(t, 20, criteria.Offset())
}

func TestOffsetDoesNotOverflow(t *testing.T) {
	t.Parallel()

	criteria := NewTodoCriteria(TodoQuery{Page: math.MaxInt/10 + 1, Limit: 10})
	assert.Equal(t, MaxPage, criteria.Page())
	assert.Positive(t, criteria.Offset())

	criteria = NewTodoCriteria(TodoQuery{Page: math.MaxInt, Limit: MaxLimit})
	assert.Equal(t, MaxPage, criteria.Page())
	assert.Positive(t, criteria.Offset())
}

func TestCriteriaMatches(t *testing.T) {
	t.Parallel()

	todos := map[string]entity.Todo{
		"noDue":       {ID: "noDue", Title: "Buy milk", Status: entity.StatusActive, Priority: entity.PriorityMedium},
		"future":      {ID: "future", Title: "Pay rent", Status: entity.StatusActive, Priority: entity.PriorityHigh, DueDate: at(time.Hour)},
		"pastActive":  {ID: "pastActive", Title: "Call mom", Description: "about MILK", Status: entity.StatusActive, Priority: entity.PriorityLow, DueDate: at(-time.Hour)},
		"pastOverdue": {ID: "pastOverdue", Title: "Taxes", Status: entity.StatusOverdue, Priority: entity.PriorityHigh, DueDate: at(-48 * time.Hour)},
		"done":        {ID: "done", Title: "Milk the cow", Status: entity.StatusCompleted, Priority: entity.PriorityMedium, DueDate: at(-time.Hour)},
	}

	for name, tc := range map[string]struct {
		query TodoQuery
		want  []string
	}{
		"no filter": {
			query: TodoQuery{},
			want:  []string{"done", "future", "noDue", "pastActive", "pastOverdue"},
		},
		"overdue is derived from due date": {
			query: TodoQuery{Status: "overdue"},
			want:  []string{"pastActive", "pastOverdue"},
		},
		"active excludes past due": {
			query: TodoQuery{Status: "active"},
			want:  []string{"future", "noDue"},
		},
		"completed": {
			query: TodoQuery{Status: "completed"},
			want:  []string{"done"},
		},
		"priority": {
			query: TodoQuery{Priority: "high"},
			want:  []string{"future", "pastOverdue"},
		},
		"search is case insensitive over title and description": {
			query: TodoQuery{Search: "milk"},
			want:  []string{"done", "noDue", "pastActive"},
		},
		"search combines with status": {
			query: TodoQuery{Search: "milk", Status: "overdue"},
			want:  []string{"pastActive"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			criteria := NewTodoCriteria(tc.query)
			var got []string
			for id, todo := range todos {
				if criteria.Matches(todo, now) {
					got = append(got, id)
				}
			}
			slices.Sort(got)

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCriteriaCompare(t *testing.T) {
	t.Parallel()

	todos := []entity.Todo{
		{ID: "a", Title: "beta", DueDate: at(2 * time.Hour), CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "b", Title: "alpha", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "c", Title: "gamma", DueDate: at(time.Hour), CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "d", Title: "alpha", CreatedAt: now.Add(-1 * time.Hour)},
	}

	for name, tc := range map[string]struct {
		query TodoQuery
		want  []string
	}{
		"default newest first with id tie-break": {
			query: TodoQuery{},
			want:  []string{"b", "d", "c", "a"},
		},
		"due date ascending puts missing dates last": {
			query: TodoQuery{SortBy: "dueDate", SortOrder: "asc"},
			want:  []string{"c", "a", "b", "d"},
		},
		"due date descending puts missing dates first": {
			query: TodoQuery{SortBy: "dueDate", SortOrder: "desc"},
			want:  []string{"b", "d", "a", "c"},
		},
		"title ascending": {
			query: TodoQuery{SortBy: "title", SortOrder: "asc"},
			want:  []string{"b", "d", "a", "c"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			criteria := NewTodoCriteria(tc.query)
			sorted := slices.Clone(todos)
			slices.SortFunc(sorted, criteria.Compare)

			got := make([]string, 0, len(sorted))
			for _, todo := range sorted {
				got = append(got, todo.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
