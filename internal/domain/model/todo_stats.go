package model

import (
	"time"

	"todo-api/internal/domain/entity"
)

// TodoStats counts an owner's todos by live status bucket.
// Total always equals Active + Completed + Overdue; DueToday ignores status.
type TodoStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Overdue   int64 `json:"overdue"`
	DueToday  int64 `json:"dueToday"`
}

// DayBounds returns the start of the day containing now and the start of the next one,
// in now's location.
func DayBounds(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// AggregateStats classifies todos at now.
func AggregateStats(todos []entity.Todo, now time.Time) TodoStats {
	var stats TodoStats
	todayStart, tomorrowStart := DayBounds(now)

	for _, todo := range todos {
		switch todo.EffectiveStatus(now) {
		case entity.StatusCompleted:
			stats.Completed++
		case entity.StatusOverdue:
			stats.Overdue++
		default:
			stats.Active++
		}
		if todo.IsDueWithin(todayStart, tomorrowStart) {
			stats.DueToday++
		}
	}

	stats.Total = stats.Active + stats.Completed + stats.Overdue
	return stats
}
