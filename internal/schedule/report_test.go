package schedule

import (
	"errors"
	"testing"

	"github.com/terra-clan/sitetrack/internal/models"
)

func TestBuildReport(t *testing.T) {
	project := models.Project{
		ID:        "p1",
		Name:      "Riverside Block B",
		StartDate: datePtr(2026, 1, 1),
		EndDate:   datePtr(2026, 7, 1),
		Progress:  60,
	}

	col := task("col", "Column Reinforcement", models.CategoryStructural, 45, models.TaskDelayed)
	col.EndDate = datePtr(2026, 3, 20)
	wiring := task("wir", "Conduit wiring", models.CategoryElectrical, 100, models.TaskCompleted)
	paint := task("pnt", "Exterior painting", models.CategoryFinishing, 10, models.TaskPending)
	paint.EndDate = datePtr(2026, 3, 1)
	paint.Priority = models.PriorityCritical

	clock := FixedClock(date(2026, 4, 1))
	rep, err := BuildReport(project, []models.Task{col, wiring, paint}, DefaultPhases(), clock, DefaultFallbacks())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if rep.Timeline.TotalDays != 181 || rep.Timeline.DaysCompleted != 90 {
		t.Errorf("unexpected timeline %+v", rep.Timeline)
	}
	if len(rep.Phases) != 6 {
		t.Errorf("expected 6 phases, got %d", len(rep.Phases))
	}
	if len(rep.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(rep.Tasks))
	}

	want := Summary{
		TotalTasks:        3,
		CompletedTasks:    1,
		DelayedTasks:      2,
		CriticalPathTasks: 2,
		HighRiskTasks:     1,
		MaxDelayDays:      31,
		AverageProgress:   52,
		ReportedProgress:  60,
		ProgressGap:       8,
	}
	if rep.Summary != want {
		t.Errorf("summary = %+v, want %+v", rep.Summary, want)
	}

	if rep.Tasks[2].RiskLevel != RiskMedium {
		t.Errorf("expected painting task at Medium risk, got %s", rep.Tasks[2].RiskLevel)
	}
	if !rep.GeneratedAt.Equal(date(2026, 4, 1)) {
		t.Errorf("expected GeneratedAt from clock, got %s", rep.GeneratedAt)
	}
}

func TestBuildReportEmptyTasks(t *testing.T) {
	project := models.Project{ID: "p1", StartDate: datePtr(2026, 1, 1), EndDate: datePtr(2026, 7, 1), Progress: 20}

	rep, err := BuildReport(project, nil, DefaultPhases(), FixedClock(date(2026, 4, 1)), DefaultFallbacks())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if rep.Timeline.DaysRemaining != 91 {
		t.Errorf("timeline should not depend on tasks, got %+v", rep.Timeline)
	}
	for _, p := range rep.Phases {
		if p.Status != PhaseNotStarted {
			t.Errorf("phase %s: expected Not Started, got %s", p.ID, p.Status)
		}
	}
	if rep.Summary.AverageProgress != 0 || rep.Summary.ProgressGap != 20 {
		t.Errorf("unexpected summary %+v", rep.Summary)
	}
}

func TestBuildReportInvalidProject(t *testing.T) {
	project := models.Project{ID: "p1", StartDate: datePtr(2026, 7, 1), EndDate: datePtr(2026, 1, 1)}
	_, err := BuildReport(project, nil, DefaultPhases(), FixedClock(date(2026, 4, 1)), DefaultFallbacks())
	if !errors.Is(err, models.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
