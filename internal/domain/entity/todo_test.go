package entity

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestApplyTransitions(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		todo             Todo
		previous         Status
		wantStatus       Status
		wantCompletedAt  bool
		wantAfterOverdue bool
	}{
		"active without due date stays active": {
			todo:       Todo{Status: StatusActive},
			previous:   StatusActive,
			wantStatus: StatusActive,
		},
		"active with future due date stays active": {
			todo:       Todo{Status: StatusActive, DueDate: at(time.Hour)},
			previous:   StatusActive,
			wantStatus: StatusActive,
		},
		"active past due becomes overdue": {
			todo:       Todo{Status: StatusActive, DueDate: at(-time.Hour)},
			previous:   StatusActive,
			wantStatus: StatusOverdue,
		},
		"completing on time": {
			todo:            Todo{Status: StatusCompleted, DueDate: at(time.Hour)},
			previous:        StatusActive,
			wantStatus:      StatusCompleted,
			wantCompletedAt: true,
		},
		"completing past due date": {
			todo:             Todo{Status: StatusCompleted, DueDate: at(-time.Hour)},
			previous:         StatusActive,
			wantStatus:       StatusCompleted,
			wantCompletedAt:  true,
			wantAfterOverdue: true,
		},
		"completing a todo stored as overdue": {
			todo:             Todo{Status: StatusCompleted},
			previous:         StatusOverdue,
			wantStatus:       StatusCompleted,
			wantCompletedAt:  true,
			wantAfterOverdue: true,
		},
		"leaving completed clears completion fields": {
			todo:       Todo{Status: StatusActive, CompletedAt: at(-time.Hour), CompletedAfterOverdue: true},
			previous:   StatusCompleted,
			wantStatus: StatusActive,
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			todo := tc.todo
			todo.ApplyTransitions(tc.previous, now)

			assert.Equal(t, tc.wantStatus, todo.Status)
			assert.Equal(t, tc.wantCompletedAt, todo.CompletedAt != nil)
			assert.Equal(t, tc.wantAfterOverdue, todo.CompletedAfterOverdue)
			assert.Equal(t, todo.Status == StatusCompleted, todo.CompletedAt != nil)
		})
	}
}

func TestMarkCompletedKeepsCompletedAt(t *testing.T) {
	t.Parallel()

	todo := Todo{Status: StatusActive}
	todo.MarkCompleted(now)
	require.NotNil(t, todo.CompletedAt)
	first := *todo.CompletedAt

	todo.MarkCompleted(now.Add(time.Hour))
	assert.Equal(t, first, *todo.CompletedAt)
	assert.False(t, todo.CompletedAfterOverdue)
}

func TestMarkActive(t *testing.T) {
	t.Parallel()

	t.Run("future due date reopens as active", func(t *testing.T) {
		t.Parallel()
		todo := Todo{Status: StatusActive, DueDate: at(time.Hour)}
		todo.MarkCompleted(now)
		todo.MarkActive(now)

		assert.Equal(t, StatusActive, todo.Status)
		assert.Nil(t, todo.CompletedAt)
		assert.False(t, todo.CompletedAfterOverdue)
	})

	t.Run("past due date reopens as overdue", func(t *testing.T) {
		t.Parallel()
		todo := Todo{Status: StatusActive, DueDate: at(-time.Hour)}
		todo.MarkCompleted(now)
		assert.True(t, todo.CompletedAfterOverdue)

		todo.MarkActive(now)
		assert.Equal(t, StatusOverdue, todo.Status)
		assert.Nil(t, todo.CompletedAt)
		assert.False(t, todo.CompletedAfterOverdue)
	})
}

func TestDerivedFields(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		todo          Todo
		wantOverdue   bool
		wantEffective Status
		wantDays      *int
	}{
		"no due date": {
			todo:          Todo{Status: StatusActive},
			wantEffective: StatusActive,
		},
		"due in 36 hours rounds up": {
			todo:          Todo{Status: StatusActive, DueDate: at(36 * time.Hour)},
			wantEffective: StatusActive,
			wantDays:      intPtr(2),
		},
		"due in exactly one day": {
			todo:          Todo{Status: StatusActive, DueDate: at(24 * time.Hour)},
			wantEffective: StatusActive,
			wantDays:      intPtr(1),
		},
		"stored active but past due": {
			todo:          Todo{Status: StatusActive, DueDate: at(-30 * time.Hour)},
			wantOverdue:   true,
			wantEffective: StatusOverdue,
			wantDays:      intPtr(-1),
		},
		"stored overdue with due date moved forward": {
			todo:          Todo{Status: StatusOverdue, DueDate: at(2 * time.Hour)},
			wantEffective: StatusActive,
			wantDays:      intPtr(1),
		},
		"completed past due": {
			todo:          Todo{Status: StatusCompleted, DueDate: at(-time.Hour), CompletedAt: at(0)},
			wantEffective: StatusCompleted,
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantOverdue, tc.todo.IsOverdue(now))
			assert.Equal(t, tc.wantEffective, tc.todo.EffectiveStatus(now))
			assert.Equal(t, tc.wantDays, tc.todo.DaysUntilDue(now))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Todo {
		return Todo{Title: "Buy milk", Priority: PriorityMedium, Status: StatusActive}
	}

	for name, tc := range map[string]struct {
		mutate     func(todo *Todo)
		wantFields []string
	}{
		"valid": {
			mutate: func(todo *Todo) {},
		},
		"valid recurring": {
			mutate: func(todo *Todo) {
				todo.IsRecurring = true
				todo.RecurringType = RecurringWeekly
			},
		},
		"blank title": {
			mutate:     func(todo *Todo) { todo.Title = "   " },
			wantFields: []string{"title"},
		},
		"title of 101 runes": {
			mutate:     func(todo *Todo) { todo.Title = strings.Repeat("é", 101) },
			wantFields: []string{"title"},
		},
		"title of 100 runes": {
			mutate: func(todo *Todo) { todo.Title = strings.Repeat("é", 100) },
		},
		"every field invalid": {
			mutate: func(todo *Todo) {
				todo.Title = ""
				todo.Description = strings.Repeat("d", 501)
				todo.Tags = []string{"ok", strings.Repeat("t", 21)}
				todo.Priority = "urgent"
				todo.Status = "archived"
				todo.RecurringType = "yearly"
			},
			wantFields: []string{"title", "description", "tags", "priority", "status", "recurringType"},
		},
		"recurring without type": {
			mutate:     func(todo *Todo) { todo.IsRecurring = true },
			wantFields: []string{"recurringType"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			todo := valid()
			tc.mutate(&todo)
			err := todo.Validate()

			if len(tc.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, len(tc.wantFields))
			for _, field := range tc.wantFields {
				assert.True(t, verr.Has(field), "missing violation for %s", field)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	todo := Todo{
		Title:         "  Buy milk ",
		Description:   " two litres\n",
		Tags:          []string{" home ", "", "  ", "shop"},
		RecurringType: RecurringDaily,
	}
	todo.Normalize()

	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, "two litres", todo.Description)
	assert.Equal(t, []string{"home", "shop"}, todo.Tags)
	assert.Equal(t, RecurringType(""), todo.RecurringType)
}

func intPtr(v int) *int {
	return &v
}
