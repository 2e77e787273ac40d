package storage

import (
	"context"
	"errors"

	"github.com/terra-clan/sitetrack/internal/models"
)

// ErrNotFound is returned when a project or task does not exist
var ErrNotFound = errors.New("not found")

// Repository defines the interface for project and task persistence
type Repository interface {
	// Projects
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context, filters models.ListFilters) ([]*models.Project, error)

	// Tasks
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, projectID string, filters models.TaskFilters) ([]*models.Task, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
