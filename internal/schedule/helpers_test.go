package schedule

import (
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func task(id, desc string, cat models.Category, progress int, status models.TaskStatus) models.Task {
	return models.Task{
		ID:          id,
		Description: desc,
		Category:    cat,
		Progress:    progress,
		Status:      status,
		Priority:    models.PriorityNormal,
	}
}
