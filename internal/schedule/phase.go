package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/terra-clan/sitetrack/internal/models"
)

// PhaseStatus is the rolled-up state of a construction phase
type PhaseStatus string

const (
	PhaseNotStarted PhaseStatus = "Not Started"
	PhaseOnTrack    PhaseStatus = "On Track"
	PhaseDelayed    PhaseStatus = "Delayed"
	PhaseCompleted  PhaseStatus = "Completed"
)

// DurationTBD is shown for phases with no dated tasks
const DurationTBD = "TBD"

// Phase groups tasks into a construction stage by category or by keywords
// found in the task description.
type Phase struct {
	ID         string            `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Categories []models.Category `yaml:"categories" json:"categories"`
	Keywords   []string          `yaml:"keywords" json:"keywords"`
}

// DefaultPhases returns the built-in phase table
func DefaultPhases() []Phase {
	return []Phase{
		{
			ID:       "pre-construction",
			Name:     "Pre-Construction",
			Keywords: []string{"survey", "permit", "design", "approval", "mobilization", "site clearing"},
		},
		{
			ID:       "foundation",
			Name:     "Foundation",
			Keywords: []string{"foundation", "excavation", "footing", "pile", "plinth"},
		},
		{
			ID:         "superstructure",
			Name:       "Superstructure",
			Categories: []models.Category{models.CategoryStructural},
			Keywords:   []string{"column", "beam", "slab", "masonry", "brick", "roof"},
		},
		{
			ID:         "finishing",
			Name:       "Finishing",
			Categories: []models.Category{models.CategoryFinishing},
			Keywords:   []string{"plaster", "paint", "tile", "tiling", "flooring", "door", "window"},
		},
		{
			ID:         "mep",
			Name:       "MEP",
			Categories: []models.Category{models.CategoryElectrical, models.CategoryPlumbing},
			Keywords:   []string{"electrical", "plumbing", "wiring", "hvac", "drainage"},
		},
		{
			ID:         "inspection-handover",
			Name:       "Inspection & Handover",
			Categories: []models.Category{models.CategoryInspection},
			Keywords:   []string{"inspection", "handover", "snag", "testing", "certificate"},
		},
	}
}

// Validate checks that the phase can be used for matching
func (p Phase) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: phase id", models.ErrMissingField)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: phase name", models.ErrMissingField)
	}
	if len(p.Categories) == 0 && len(p.Keywords) == 0 {
		return fmt.Errorf("%w: phase %s has neither categories nor keywords", models.ErrInvalidValue, p.ID)
	}
	return nil
}

// Matches reports whether a task belongs to the phase: its category is one of
// the phase categories, or its description contains one of the phase keywords
// (case-insensitive). A task may match several phases.
func (p Phase) Matches(t models.Task) bool {
	if t.Category == "" && t.Description == "" {
		return false
	}

	if t.Category != "" && slices.Contains(p.Categories, t.Category) {
		return true
	}

	if t.Description == "" {
		return false
	}

	folder := cases.Fold()
	desc := folder.String(t.Description)
	for _, kw := range p.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(desc, folder.String(kw)) {
			return true
		}
	}
	return false
}

// PhaseResult is the aggregated state of one phase
type PhaseResult struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Duration     string      `json:"duration"`
	DurationDays *int        `json:"durationDays,omitempty"`
	Progress     int         `json:"progress"`
	Status       PhaseStatus `json:"status"`
	TaskIDs      []string    `json:"taskIds"`
}

// Aggregate rolls the tasks up into each phase. Tasks matching more than one
// phase count towards all of them.
func Aggregate(phases []Phase, tasks []EnrichedTask) []PhaseResult {
	results := make([]PhaseResult, 0, len(phases))
	for _, p := range phases {
		results = append(results, aggregatePhase(p, tasks))
	}
	return results
}

func aggregatePhase(p Phase, tasks []EnrichedTask) PhaseResult {
	res := PhaseResult{
		ID:       p.ID,
		Name:     p.Name,
		Duration: DurationTBD,
		Status:   PhaseNotStarted,
		TaskIDs:  []string{},
	}

	var (
		sum         int
		hasHighRisk bool
		start, end  *time.Time
	)
	for _, t := range tasks {
		if !p.Matches(t.Task) {
			continue
		}
		res.TaskIDs = append(res.TaskIDs, t.ID)
		sum += t.Progress
		if t.RiskLevel == RiskHigh {
			hasHighRisk = true
		}
		if t.StartDate != nil && (start == nil || t.StartDate.Before(*start)) {
			start = t.StartDate
		}
		if t.EndDate != nil && (end == nil || t.EndDate.After(*end)) {
			end = t.EndDate
		}
	}

	if len(res.TaskIDs) == 0 {
		return res
	}

	res.Progress = roundedMean(sum, len(res.TaskIDs))
	switch {
	case res.Progress == 100:
		res.Status = PhaseCompleted
	case hasHighRisk:
		res.Status = PhaseDelayed
	default:
		res.Status = PhaseOnTrack
	}

	if start != nil && end != nil {
		days := max(0, daysBetween(*start, *end))
		res.DurationDays = &days
		res.Duration = formatDays(days)
	}

	return res
}

func formatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
