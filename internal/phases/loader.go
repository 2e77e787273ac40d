package phases

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/sitetrack/internal/schedule"
)

// Loader holds the active phase table. It starts with the built-in phases and
// can be replaced from a YAML file.
type Loader struct {
	mu     sync.RWMutex
	phases []schedule.Phase
	source string
}

// phaseFile is the on-disk layout of a phase table
type phaseFile struct {
	Phases []schedule.Phase `yaml:"phases"`
}

// NewLoader creates a loader holding the built-in phase table
func NewLoader() *Loader {
	return &Loader{
		phases: schedule.DefaultPhases(),
		source: "builtin",
	}
}

// LoadFromFile replaces the phase table with the phases in a YAML file.
// The current table is kept if the file is invalid.
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var file phaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Phases) == 0 {
		return fmt.Errorf("no phases defined in %s", path)
	}

	seen := make(map[string]bool, len(file.Phases))
	for _, p := range file.Phases {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid phase in %s: %w", path, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate phase id %q in %s", p.ID, path)
		}
		seen[p.ID] = true
	}

	l.mu.Lock()
	l.phases = file.Phases
	l.source = path
	l.mu.Unlock()

	slog.Info("phase table loaded", "file", path, "count", len(file.Phases))
	return nil
}

// List returns a copy of the active phase table in order
func (l *Loader) List() []schedule.Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]schedule.Phase, len(l.phases))
	copy(result, l.phases)
	return result
}

// Get returns a phase by ID
func (l *Loader) Get(id string) (schedule.Phase, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.phases {
		if p.ID == id {
			return p, true
		}
	}
	return schedule.Phase{}, false
}

// Source names where the active table came from
func (l *Loader) Source() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}
