package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/sitetrack/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const projectColumns = `id, name, location, start_date, end_date, progress, created_at, updated_at`

// CreateProject inserts a new project record
func (r *PostgresRepository) CreateProject(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		nullString(p.Location),
		nullTime(p.StartDate),
		nullTime(p.EndDate),
		p.Progress,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetProject retrieves a project by ID
func (r *PostgresRepository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// UpdateProject updates an existing project
func (r *PostgresRepository) UpdateProject(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects
		SET name = $2, location = $3, start_date = $4, end_date = $5, progress = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		nullString(p.Location),
		nullTime(p.StartDate),
		nullTime(p.EndDate),
		p.Progress,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}

	return nil
}

// DeleteProject deletes a project and, through the foreign key, its tasks
func (r *PostgresRepository) DeleteProject(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListProjects returns projects ordered by creation time, newest first
func (r *PostgresRepository) ListProjects(ctx context.Context, filters models.ListFilters) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	args := make([]interface{}, 0, 2)
	argNum := 1

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

const taskColumns = `id, project_id, description, category, status, progress, priority, start_date, end_date,
	assigned_team, location_area, remark, is_critical_path, resources, created_at, updated_at`

// CreateTask inserts a new task record
func (r *PostgresRepository) CreateTask(ctx context.Context, t *models.Task) error {
	resourcesJSON, err := marshalResources(t.Resources)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.pool.Exec(ctx, query,
		t.ID,
		t.ProjectID,
		t.Description,
		string(t.Category),
		string(t.Status),
		t.Progress,
		string(t.Priority),
		nullTime(t.StartDate),
		nullTime(t.EndDate),
		nullString(t.AssignedTeam),
		nullString(t.LocationArea),
		nullString(t.Remark),
		t.CriticalPath,
		resourcesJSON,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by ID
func (r *PostgresRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// UpdateTask updates an existing task
func (r *PostgresRepository) UpdateTask(ctx context.Context, t *models.Task) error {
	resourcesJSON, err := marshalResources(t.Resources)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET description = $2, category = $3, status = $4, progress = $5, priority = $6,
			start_date = $7, end_date = $8, assigned_team = $9, location_area = $10,
			remark = $11, is_critical_path = $12, resources = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Description,
		string(t.Category),
		string(t.Status),
		t.Progress,
		string(t.Priority),
		nullTime(t.StartDate),
		nullTime(t.EndDate),
		nullString(t.AssignedTeam),
		nullString(t.LocationArea),
		nullString(t.Remark),
		t.CriticalPath,
		resourcesJSON,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}

	return nil
}

// DeleteTask deletes a task by ID
func (r *PostgresRepository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListTasks returns the tasks of a project ordered by start date
func (r *PostgresRepository) ListTasks(ctx context.Context, projectID string, filters models.TaskFilters) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1`
	args := []interface{}{projectID}
	argNum := 2

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}

	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, string(filters.Category))
	}

	query += " ORDER BY start_date ASC NULLS LAST, created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var location sql.NullString
	var startDate, endDate sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Name,
		&location,
		&startDate,
		&endDate,
		&p.Progress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Location = location.String
	p.StartDate = timePtr(startDate)
	p.EndDate = timePtr(endDate)

	return &p, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	var category, status, priority string
	var assignedTeam, locationArea, remark sql.NullString
	var startDate, endDate sql.NullTime
	var resourcesJSON []byte

	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Description,
		&category,
		&status,
		&t.Progress,
		&priority,
		&startDate,
		&endDate,
		&assignedTeam,
		&locationArea,
		&remark,
		&t.CriticalPath,
		&resourcesJSON,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Category = models.Category(category)
	t.Status = models.TaskStatus(status)
	t.Priority = models.Priority(priority)
	t.StartDate = timePtr(startDate)
	t.EndDate = timePtr(endDate)
	t.AssignedTeam = assignedTeam.String
	t.LocationArea = locationArea.String
	t.Remark = remark.String

	if len(resourcesJSON) > 0 {
		var res models.Resources
		if err := json.Unmarshal(resourcesJSON, &res); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resources: %w", err)
		}
		t.Resources = &res
	}

	return &t, nil
}

func marshalResources(res *models.Resources) ([]byte, error) {
	if res == nil {
		return nil, nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resources: %w", err)
	}
	return data, nil
}

// Helper functions for nullable values

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
