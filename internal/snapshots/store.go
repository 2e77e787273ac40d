package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/sitetrack/internal/schedule"
)

// Snapshot is a compact record of a project's schedule at one instant
type Snapshot struct {
	ProjectID        string    `json:"projectId"`
	TakenAt          time.Time `json:"takenAt"`
	AverageProgress  int       `json:"averageProgress"`
	ReportedProgress int       `json:"reportedProgress"`
	DelayedTasks     int       `json:"delayedTasks"`
	HighRiskTasks    int       `json:"highRiskTasks"`
	MaxDelayDays     int       `json:"maxDelayDays"`
	DaysRemaining    int       `json:"daysRemaining"`
}

// FromReport condenses a schedule report into a snapshot
func FromReport(r *schedule.Report) Snapshot {
	return Snapshot{
		ProjectID:        r.ProjectID,
		TakenAt:          r.GeneratedAt,
		AverageProgress:  r.Summary.AverageProgress,
		ReportedProgress: r.Summary.ReportedProgress,
		DelayedTasks:     r.Summary.DelayedTasks,
		HighRiskTasks:    r.Summary.HighRiskTasks,
		MaxDelayDays:     r.Summary.MaxDelayDays,
		DaysRemaining:    r.Timeline.DaysRemaining,
	}
}

// Store persists snapshot history per project, newest first
type Store interface {
	Append(ctx context.Context, s Snapshot) error
	List(ctx context.Context, projectID string, limit int) ([]Snapshot, error)
	Delete(ctx context.Context, projectID string) error
}

// RedisStore keeps each project's history in a capped Redis list
type RedisStore struct {
	client *redis.Client
	retain int
	prefix string
}

// NewRedisStore creates a store keeping at most retain snapshots per project
func NewRedisStore(client *redis.Client, retain int) *RedisStore {
	if retain <= 0 {
		retain = 90
	}
	return &RedisStore{
		client: client,
		retain: retain,
		prefix: "sitetrack:snapshots:",
	}
}

func (s *RedisStore) key(projectID string) string {
	return s.prefix + projectID
}

// Append pushes a snapshot and trims the list to the retention limit
func (s *RedisStore) Append(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := s.key(snap.ProjectID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.retain-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}

// List returns up to limit snapshots for a project, newest first
func (s *RedisStore) List(ctx context.Context, projectID string, limit int) ([]Snapshot, error) {
	if limit <= 0 || limit > s.retain {
		limit = s.retain
	}

	values, err := s.client.LRange(ctx, s.key(projectID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	out := make([]Snapshot, 0, len(values))
	for _, v := range values {
		var snap Snapshot
		if err := json.Unmarshal([]byte(v), &snap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		out = append(out, snap)
	}

	return out, nil
}

// Delete removes a project's history
func (s *RedisStore) Delete(ctx context.Context, projectID string) error {
	if err := s.client.Del(ctx, s.key(projectID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
