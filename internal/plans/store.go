package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nomadcxx/aniarr/internal/paths"
)

// ErrPlanVersion is returned when a saved plan was written by an
// incompatible version.
var ErrPlanVersion = errors.New("unsupported plan version")

// DefaultPlanPath returns ~/.config/aniarr/plans/<name>.json.
func DefaultPlanPath(name string) (string, error) {
	dir, err := paths.PlansDir()
	if err != nil {
		return "", fmt.Errorf("failed to get plans directory: %w", err)
	}
	return filepath.Join(dir, name+".json"), nil
}

// Save writes the plan as indented JSON, creating parent directories.
func Save(plan *Plan, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plans directory: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Load reads a plan written by Save. Items keep their saved order.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if plan.Version != PlanVersion {
		return nil, fmt.Errorf("%w: %d", ErrPlanVersion, plan.Version)
	}
	if plan.Skipped == nil {
		plan.Skipped = make(SkipReport)
	}
	if plan.SeriesGroups == nil {
		plan.SeriesGroups = make(map[string]string)
	}
	return &plan, nil
}
