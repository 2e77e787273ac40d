package snapshots

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/terra-clan/sitetrack/internal/models"
	"github.com/terra-clan/sitetrack/internal/tracker"
)

// pageSize is how many projects are loaded per listing call
const pageSize = 100

// Job periodically records a schedule snapshot for every project
type Job struct {
	manager  tracker.Manager
	store    Store
	spec     string
	timeout  time.Duration
	schedule *cron.Cron
}

// NewJob creates a snapshot job running on a standard cron spec
func NewJob(manager tracker.Manager, store Store, spec string, timeout time.Duration) *Job {
	if spec == "" {
		spec = "@daily"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Job{
		manager:  manager,
		store:    store,
		spec:     spec,
		timeout:  timeout,
		schedule: cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the job and starts the scheduler. The scheduler stops when
// ctx is cancelled.
func (j *Job) Start(ctx context.Context) error {
	if _, err := j.schedule.AddFunc(j.spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, j.timeout)
		defer cancel()
		j.CaptureAll(runCtx)
	}); err != nil {
		return err
	}

	j.schedule.Start()
	slog.Info("snapshot job started", "schedule", j.spec)

	go func() {
		<-ctx.Done()
		<-j.schedule.Stop().Done()
		slog.Info("snapshot job stopped")
	}()

	return nil
}

// CaptureAll snapshots every project and returns how many were stored
func (j *Job) CaptureAll(ctx context.Context) int {
	slog.Debug("running snapshot cycle")

	stored := 0
	for offset := 0; ; offset += pageSize {
		projects, err := j.manager.ListProjects(ctx, models.ListFilters{Limit: pageSize, Offset: offset})
		if err != nil {
			slog.Error("failed to list projects", "error", err)
			return stored
		}

		for _, p := range projects {
			if err := j.Capture(ctx, p.ID); err != nil {
				slog.Error("failed to snapshot project", "error", err, "project_id", p.ID)
				continue
			}
			stored++
		}

		if len(projects) < pageSize {
			break
		}
	}

	slog.Info("snapshot cycle finished", "stored", stored)
	return stored
}

// Capture snapshots one project
func (j *Job) Capture(ctx context.Context, projectID string) error {
	report, err := j.manager.Schedule(ctx, projectID)
	if err != nil {
		return err
	}
	return j.store.Append(ctx, FromReport(report))
}
