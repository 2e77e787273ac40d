package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terra-clan/sitetrack/internal/models"
)

func seedProject(t *testing.T, repo *MemoryRepository, id string, created time.Time) {
	t.Helper()
	if err := repo.CreateProject(context.Background(), &models.Project{ID: id, Name: id, CreatedAt: created}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
}

func TestMemoryRepositoryProjects(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seedProject(t, repo, "a", base)
	seedProject(t, repo, "b", base.Add(time.Hour))
	seedProject(t, repo, "c", base.Add(2*time.Hour))

	projects, err := repo.ListProjects(ctx, models.ListFilters{Limit: 2})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 || projects[0].ID != "c" || projects[1].ID != "b" {
		t.Errorf("unexpected page: %v", projects)
	}

	projects, _ = repo.ListProjects(ctx, models.ListFilters{Offset: 2})
	if len(projects) != 1 || projects[0].ID != "a" {
		t.Errorf("unexpected offset page: %v", projects)
	}

	if _, err := repo.GetProject(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := repo.UpdateProject(ctx, &models.Project{ID: "a", Name: "renamed"}); err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	p, _ := repo.GetProject(ctx, "a")
	if p.Name != "renamed" || !p.CreatedAt.Equal(base) {
		t.Errorf("update lost data: %+v", p)
	}
}

func TestMemoryRepositoryTasks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	seedProject(t, repo, "p1", time.Now())

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	early := start.AddDate(0, 0, -10)
	tasks := []*models.Task{
		{ID: "t1", ProjectID: "p1", Description: "Undated", Category: models.CategoryOther, Status: models.TaskPending},
		{ID: "t2", ProjectID: "p1", Description: "Later", Category: models.CategoryStructural, Status: models.TaskDelayed, StartDate: &start},
		{ID: "t3", ProjectID: "p1", Description: "Earlier", Category: models.CategoryStructural, Status: models.TaskPending, StartDate: &early},
	}
	for _, tk := range tasks {
		if err := repo.CreateTask(ctx, tk); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	listed, err := repo.ListTasks(ctx, "p1", models.TaskFilters{})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(listed) != 3 || listed[0].ID != "t3" || listed[1].ID != "t2" || listed[2].ID != "t1" {
		t.Errorf("unexpected order: %s %s %s", listed[0].ID, listed[1].ID, listed[2].ID)
	}

	filtered, _ := repo.ListTasks(ctx, "p1", models.TaskFilters{Status: models.TaskDelayed})
	if len(filtered) != 1 || filtered[0].ID != "t2" {
		t.Errorf("status filter failed: %v", filtered)
	}

	// returned records are copies
	*listed[1].StartDate = start.AddDate(1, 0, 0)
	again, _ := repo.GetTask(ctx, "t2")
	if !again.StartDate.Equal(start) {
		t.Error("mutating a returned task changed the stored record")
	}

	err = repo.CreateTask(ctx, &models.Task{ID: "t4", ProjectID: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown project, got %v", err)
	}

	if err := repo.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := repo.GetTask(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected tasks removed with project, got %v", err)
	}
}

func TestMemoryRepositoryEmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	seedProject(t, repo, "p1", time.Now())

	tasks, err := repo.ListTasks(ctx, "p1", models.TaskFilters{Status: models.TaskBlocked})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if tasks == nil {
		t.Error("expected empty slice, got nil")
	}

	projects, err := repo.ListProjects(ctx, models.ListFilters{Limit: 10, Offset: 5})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if projects == nil {
		t.Error("expected empty slice, got nil")
	}
}
