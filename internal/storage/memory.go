package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/terra-clan/sitetrack/internal/models"
)

// MemoryRepository implements Repository in process memory.
// Records are copied on the way in and out so callers never share state.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]models.Project
	tasks    map[string]models.Task
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects: make(map[string]models.Project),
		tasks:    make(map[string]models.Task),
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}

func (r *MemoryRepository) CreateProject(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[p.ID]; exists {
		return fmt.Errorf("failed to create project: duplicate id %s", p.ID)
	}
	r.projects[p.ID] = *p
	return nil
}

func (r *MemoryRepository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (r *MemoryRepository) UpdateProject(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[p.ID]
	if !ok {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	updated := *p
	updated.CreatedAt = existing.CreatedAt
	r.projects[p.ID] = updated
	return nil
}

func (r *MemoryRepository) DeleteProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(r.projects, id)
	for tid, t := range r.tasks {
		if t.ProjectID == id {
			delete(r.tasks, tid)
		}
	}
	return nil
}

func (r *MemoryRepository) ListProjects(ctx context.Context, filters models.ListFilters) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		p := p
		projects = append(projects, &p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID < projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return paginate(projects, filters.Limit, filters.Offset), nil
}

func (r *MemoryRepository) CreateTask(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[t.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", t.ProjectID, ErrNotFound)
	}
	if _, exists := r.tasks[t.ID]; exists {
		return fmt.Errorf("failed to create task: duplicate id %s", t.ID)
	}
	r.tasks[t.ID] = copyTask(*t)
	return nil
}

func (r *MemoryRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	out := copyTask(t)
	return &out, nil
}

func (r *MemoryRepository) UpdateTask(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[t.ID]
	if !ok {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	updated := copyTask(*t)
	updated.ProjectID = existing.ProjectID
	updated.CreatedAt = existing.CreatedAt
	r.tasks[t.ID] = updated
	return nil
}

func (r *MemoryRepository) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepository) ListTasks(ctx context.Context, projectID string, filters models.TaskFilters) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if t.ProjectID != projectID || !filters.Match(&t) {
			continue
		}
		out := copyTask(t)
		tasks = append(tasks, &out)
	}

	// start date ascending, undated last, then creation order
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.StartDate != nil && b.StartDate != nil && !a.StartDate.Equal(*b.StartDate):
			return a.StartDate.Before(*b.StartDate)
		case a.StartDate != nil && b.StartDate == nil:
			return true
		case a.StartDate == nil && b.StartDate != nil:
			return false
		}
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return tasks, nil
}

func copyTask(t models.Task) models.Task {
	if t.StartDate != nil {
		v := *t.StartDate
		t.StartDate = &v
	}
	if t.EndDate != nil {
		v := *t.EndDate
		t.EndDate = &v
	}
	if t.Resources != nil {
		v := *t.Resources
		t.Resources = &v
	}
	return t
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
