package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/sitetrack/internal/models"
	"github.com/terra-clan/sitetrack/internal/phases"
	"github.com/terra-clan/sitetrack/internal/schedule"
	"github.com/terra-clan/sitetrack/internal/storage"
)

// Common errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrEmptyPatch      = errors.New("patch has no fields")
)

// Manager defines the interface for project tracking
type Manager interface {
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, p models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, filters models.ListFilters) ([]*models.Project, error)

	CreateTask(ctx context.Context, projectID string, t models.Task) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	PatchTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, projectID string, filters models.TaskFilters) ([]*models.Task, error)

	Schedule(ctx context.Context, projectID string) (*schedule.Report, error)
	Phases() []schedule.Phase
	Ping(ctx context.Context) error
}

// Options holds optional parameters for the tracker service
type Options struct {
	Clock     schedule.Clock
	Fallbacks schedule.Fallbacks
}

// Service implements Manager on top of a Repository
type Service struct {
	repo      storage.Repository
	phases    *phases.Loader
	clock     schedule.Clock
	fallbacks schedule.Fallbacks
}

// NewService creates a new tracker service
func NewService(repo storage.Repository, loader *phases.Loader, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = schedule.SystemClock{}
	}
	if opts.Fallbacks.ProjectSpanMonths <= 0 {
		opts.Fallbacks = schedule.DefaultFallbacks()
	}

	return &Service{
		repo:      repo,
		phases:    loader,
		clock:     opts.Clock,
		fallbacks: opts.Fallbacks,
	}
}

// CreateProject validates and stores a new project
func (s *Service) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.CreateProject(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	slog.Info("project created", "id", p.ID, "name", p.Name)
	return &p, nil
}

// GetProject returns a project by ID
func (s *Service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrProjectNotFound)
	}
	return p, nil
}

// UpdateProject replaces the editable fields of a project
func (s *Service) UpdateProject(ctx context.Context, id string, p models.Project) (*models.Project, error) {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.clock.Now()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProject(ctx, &p); err != nil {
		return nil, mapNotFound(err, ErrProjectNotFound)
	}

	return &p, nil
}

// DeleteProject removes a project and its tasks
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return mapNotFound(err, ErrProjectNotFound)
	}
	slog.Info("project deleted", "id", id)
	return nil
}

// ListProjects returns a page of projects
func (s *Service) ListProjects(ctx context.Context, filters models.ListFilters) ([]*models.Project, error) {
	return s.repo.ListProjects(ctx, filters)
}

// CreateTask validates and stores a new task under a project
func (s *Service) CreateTask(ctx context.Context, projectID string, t models.Task) (*models.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	t.ID = uuid.New().String()
	t.ProjectID = projectID
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.repo.CreateTask(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	slog.Info("task created", "id", t.ID, "project_id", projectID, "category", t.Category)
	return &t, nil
}

// GetTask returns a task by ID
func (s *Service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrTaskNotFound)
	}
	return t, nil
}

// PatchTask applies a partial update to a task
func (s *Service) PatchTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	current, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := patch.Apply(*current)
	if err != nil {
		return nil, err
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateTask(ctx, &updated); err != nil {
		return nil, mapNotFound(err, ErrTaskNotFound)
	}

	slog.Info("task patched", "id", id, "progress", updated.Progress)
	return &updated, nil
}

// DeleteTask removes a task
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return mapNotFound(err, ErrTaskNotFound)
	}
	return nil
}

// ListTasks returns the tasks of a project
func (s *Service) ListTasks(ctx context.Context, projectID string, filters models.TaskFilters) ([]*models.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, projectID, filters)
}

// Schedule builds the schedule report from the current stored state of a
// project. Nothing is cached between calls.
func (s *Service) Schedule(ctx context.Context, projectID string) (*schedule.Report, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListTasks(ctx, projectID, models.TaskFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(stored))
	for _, t := range stored {
		tasks = append(tasks, *t)
	}

	start := time.Now()
	report, err := schedule.BuildReport(*p, tasks, s.phases.List(), s.clock, s.fallbacks)
	if err != nil {
		return nil, err
	}

	slog.Debug("schedule report built",
		"project_id", projectID,
		"tasks", len(tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// Phases returns the active phase table
func (s *Service) Phases() []schedule.Phase {
	return s.phases.List()
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func mapNotFound(err, target error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", target, err)
	}
	return err
}
