package schedule

import (
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

// RiskLevel is a coarse risk classification of a task
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// lowProgressThreshold marks a task as Medium risk once it is overdue and below it
const lowProgressThreshold = 20

// EnrichedTask is a task annotated with derived display flags.
// IsCriticalPath is a priority/status heuristic; no dependency graph is involved.
type EnrichedTask struct {
	models.Task
	IsCriticalPath bool      `json:"isCriticalPath"`
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// Raw returns the task with the derived critical path flag folded back in.
// Enriching the result again yields the same EnrichedTask.
func (e EnrichedTask) Raw() models.Task {
	t := e.Task
	t.CriticalPath = e.IsCriticalPath
	return t
}

// Enrich derives the critical path flag and risk level for a task
func Enrich(t models.Task, now time.Time) EnrichedTask {
	return EnrichedTask{
		Task:           t,
		IsCriticalPath: isCriticalPath(t),
		RiskLevel:      riskLevel(t, now),
	}
}

// EnrichAll enriches every task in order
func EnrichAll(tasks []models.Task, now time.Time) []EnrichedTask {
	out := make([]EnrichedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Enrich(t, now))
	}
	return out
}

func isCriticalPath(t models.Task) bool {
	return t.CriticalPath ||
		t.Priority == models.PriorityCritical ||
		t.Status == models.TaskDelayed
}

func riskLevel(t models.Task, now time.Time) RiskLevel {
	switch {
	case t.Status.IsStalled():
		return RiskHigh
	case t.Progress < lowProgressThreshold && t.EndDate != nil && t.EndDate.Before(now):
		return RiskMedium
	default:
		return RiskLow
	}
}
