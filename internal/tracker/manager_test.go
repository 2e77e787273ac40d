package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
	"github.com/terra-clan/sitetrack/internal/phases"
	"github.com/terra-clan/sitetrack/internal/schedule"
	"github.com/terra-clan/sitetrack/internal/storage"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestService(now time.Time) *Service {
	return NewService(storage.NewMemoryRepository(), phases.NewLoader(), Options{
		Clock: schedule.FixedClock(now),
	})
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newTestService(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := svc.CreateProject(ctx, models.Project{}); !errors.Is(err, models.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}

	_, err := svc.CreateProject(ctx, models.Project{Name: "x", StartDate: date(2026, 7, 1), EndDate: date(2026, 1, 1)})
	if !errors.Is(err, models.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}

	p, err := svc.CreateProject(ctx, models.Project{Name: "Block A"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if p.ID == "" {
		t.Error("expected generated id")
	}
}

func TestCreateTaskDefaultsAndValidation(t *testing.T) {
	svc := newTestService(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, models.Project{Name: "Block A"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if _, err := svc.CreateTask(ctx, "missing", models.Task{Description: "x", Category: models.CategoryOther}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}

	if _, err := svc.CreateTask(ctx, p.ID, models.Task{Description: "x"}); !errors.Is(err, models.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}

	tk, err := svc.CreateTask(ctx, p.ID, models.Task{Description: "Slab casting", Category: models.CategoryStructural})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if tk.Status != models.TaskPending || tk.Priority != models.PriorityNormal {
		t.Errorf("defaults not applied: %+v", tk)
	}
	if tk.ProjectID != p.ID {
		t.Errorf("expected project id %s, got %s", p.ID, tk.ProjectID)
	}
}

func TestPatchTask(t *testing.T) {
	svc := newTestService(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	p, _ := svc.CreateProject(ctx, models.Project{Name: "Block A"})
	tk, err := svc.CreateTask(ctx, p.ID, models.Task{
		Description: "Slab casting",
		Category:    models.CategoryStructural,
		StartDate:   date(2026, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	progress, duration, remark := 70, 14, "curing"
	patched, err := svc.PatchTask(ctx, tk.ID, models.TaskPatch{Progress: &progress, Duration: &duration, Remark: &remark})
	if err != nil {
		t.Fatalf("PatchTask failed: %v", err)
	}
	if patched.Progress != 70 || patched.Remark != "curing" {
		t.Errorf("unexpected patch result %+v", patched)
	}
	if patched.EndDate == nil || !patched.EndDate.Equal(*date(2026, 3, 15)) {
		t.Errorf("expected end date 2026-03-15, got %v", patched.EndDate)
	}

	bad := 120
	if _, err := svc.PatchTask(ctx, tk.ID, models.TaskPatch{Progress: &bad}); !errors.Is(err, models.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := svc.PatchTask(ctx, tk.ID, models.TaskPatch{}); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("expected ErrEmptyPatch, got %v", err)
	}
	if _, err := svc.PatchTask(ctx, "nope", models.TaskPatch{Progress: &progress}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestScheduleReflectsLatestPatch(t *testing.T) {
	svc := newTestService(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	p, _ := svc.CreateProject(ctx, models.Project{
		Name:      "Block A",
		StartDate: date(2026, 1, 1),
		EndDate:   date(2026, 7, 1),
		Progress:  30,
	})
	tk, err := svc.CreateTask(ctx, p.ID, models.Task{
		Description: "Column Reinforcement",
		Category:    models.CategoryStructural,
		Progress:    45,
		EndDate:     date(2026, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	before, err := svc.Schedule(ctx, p.ID)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if before.Summary.DelayedTasks != 1 {
		t.Errorf("expected 1 delayed task, got %d", before.Summary.DelayedTasks)
	}

	done := 100
	if _, err := svc.PatchTask(ctx, tk.ID, models.TaskPatch{Progress: &done}); err != nil {
		t.Fatalf("PatchTask failed: %v", err)
	}

	after, err := svc.Schedule(ctx, p.ID)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if after.Summary.DelayedTasks != 0 {
		t.Errorf("expected no delayed tasks after completion, got %d", after.Summary.DelayedTasks)
	}
	if after.Summary.AverageProgress != 100 || after.Summary.ReportedProgress != 30 {
		t.Errorf("unexpected summary %+v", after.Summary)
	}
	for _, ph := range after.Phases {
		if ph.ID == "superstructure" && ph.Status != schedule.PhaseCompleted {
			t.Errorf("expected superstructure Completed, got %s", ph.Status)
		}
	}
}

func TestScheduleUnknownProject(t *testing.T) {
	svc := newTestService(time.Now())
	if _, err := svc.Schedule(context.Background(), "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}
