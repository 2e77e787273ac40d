package models

import (
	"fmt"
	"time"
)

// Project represents a construction project.
// Progress is the figure reported by the site team; it is not derived from tasks.
type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Location  string     `json:"location,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Progress  int        `json:"progress"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Validate checks required fields and ranges
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if err := validateProgress(p.Progress); err != nil {
		return err
	}
	return validateRange(p.StartDate, p.EndDate)
}

// ListFilters defines pagination for listing projects
type ListFilters struct {
	Limit  int
	Offset int
}
