// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "lead-intelligence/internal/common/errors"
)

const DefaultPath = "configs/activity-registry.json"

// LoadRegistry reads and validates the registry file.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Save stamps LastUpdated and writes the registry as indented JSON.
func (r *ActivityRegistry) Save(path string, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.LastUpdated = now.UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends a new activity; ids must be unique.
func (r *ActivityRegistry) Add(a Activity) error {
	if _, exists := r.Find(a.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", a.ID)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	r.Activities = append(r.Activities, a)
	return nil
}

func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}
	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if err := a.Validate(); err != nil {
			return err
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true
	}
	return nil
}

// Validate checks required fields, the category, the timeout and that every error code is a known one.
func (a Activity) Validate() error {
	switch {
	case a.ID == "":
		return fmt.Errorf("activity missing required field: ID")
	case a.DisplayName == "":
		return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
	case a.TaskType == "":
		return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
	case !contains(Categories, a.Category):
		return fmt.Errorf("activity %s has unknown category %q", a.ID, a.Category)
	case a.ImplementationStatus != "" && !contains(Statuses, a.ImplementationStatus):
		return fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus)
	case a.Retries < 0:
		return fmt.Errorf("activity %s has negative retries", a.ID)
	}
	if a.Timeout != "" {
		if d, err := time.ParseDuration(a.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout)
		}
	}
	for _, code := range a.ErrorCodes {
		if _, known := apperrors.BPMNErrorMapping[apperrors.ErrorCode(code)]; !known {
			return fmt.Errorf("activity %s declares unknown error code %s", a.ID, code)
		}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
