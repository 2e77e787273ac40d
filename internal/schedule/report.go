package schedule

import (
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

// TaskSchedule is an enriched task together with its slippage
type TaskSchedule struct {
	EnrichedTask
	Deviation Deviation `json:"deviation"`
}

// Summary holds project-wide counts over the task snapshot.
// ReportedProgress is the project's own figure and AverageProgress is the
// task mean; the two are reported side by side and may disagree.
type Summary struct {
	TotalTasks        int `json:"totalTasks"`
	CompletedTasks    int `json:"completedTasks"`
	DelayedTasks      int `json:"delayedTasks"`
	CriticalPathTasks int `json:"criticalPathTasks"`
	HighRiskTasks     int `json:"highRiskTasks"`
	MaxDelayDays      int `json:"maxDelayDays"`
	AverageProgress   int `json:"averageProgress"`
	ReportedProgress  int `json:"reportedProgress"`
	ProgressGap       int `json:"progressGap"`
}

// Report is the full schedule view of one project at one instant
type Report struct {
	ProjectID   string         `json:"projectId"`
	ProjectName string         `json:"projectName"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Timeline    Timeline       `json:"timeline"`
	Phases      []PhaseResult  `json:"phases"`
	Tasks       []TaskSchedule `json:"tasks"`
	Summary     Summary        `json:"summary"`
}

// BuildReport derives the complete schedule view from a project snapshot
func BuildReport(p models.Project, tasks []models.Task, phases []Phase, clock Clock, fb Fallbacks) (*Report, error) {
	now := clock.Now()

	timeline, err := ComputeTimeline(p, now, fb)
	if err != nil {
		return nil, err
	}

	enriched := EnrichAll(tasks, now)

	rep := &Report{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		GeneratedAt: now,
		Timeline:    timeline,
		Phases:      Aggregate(phases, enriched),
		Tasks:       make([]TaskSchedule, 0, len(enriched)),
	}

	var progressSum int
	sum := Summary{TotalTasks: len(enriched), ReportedProgress: p.Progress}
	for _, e := range enriched {
		dev := Analyze(e.Task, now)
		rep.Tasks = append(rep.Tasks, TaskSchedule{EnrichedTask: e, Deviation: dev})

		progressSum += e.Progress
		if e.IsComplete() {
			sum.CompletedTasks++
		}
		if dev.IsDelayed {
			sum.DelayedTasks++
			sum.MaxDelayDays = max(sum.MaxDelayDays, dev.DelayDays)
		}
		if e.IsCriticalPath {
			sum.CriticalPathTasks++
		}
		if e.RiskLevel == RiskHigh {
			sum.HighRiskTasks++
		}
	}
	sum.AverageProgress = roundedMean(progressSum, len(enriched))
	sum.ProgressGap = sum.ReportedProgress - sum.AverageProgress
	rep.Summary = sum

	return rep, nil
}
