// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var ErrActivityNotFound = errors.New("activity not found")

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

// Lookup returns the activity registered for taskType.
func (r *ActivityRegistry) Lookup(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, taskType)
}

// Validate checks required fields, uniqueness of ids and task types, and
// that every declared schema compiles.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return errors.New("activity missing required field: id")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity id: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: displayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: taskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: category", activity.ID)
		}
		if activity.ImplementationStatus != "" && !validStatuses[activity.ImplementationStatus] {
			return fmt.Errorf("activity %s has unknown status %q", activity.ID, activity.ImplementationStatus)
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout: %w", activity.ID, err)
			}
		}

		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  activity.InputSchema,
			"outputSchema": activity.OutputSchema,
		} {
			if len(schema) == 0 {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				return fmt.Errorf("activity %s has invalid %s: %w", activity.ID, name, err)
			}
		}
	}
	return nil
}

// SetField updates one editable field of the activity with the given id.
func (r *ActivityRegistry) SetField(id, field, value string) error {
	for i := range r.Activities {
		if r.Activities[i].ID != id {
			continue
		}
		a := &r.Activities[i]
		switch field {
		case "status":
			if !validStatuses[value] {
				return fmt.Errorf("unknown status %q", value)
			}
			a.ImplementationStatus = value
		case "version":
			a.Version = value
		case "description":
			a.Description = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout: %w", err)
			}
			a.Timeout = value
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
}

// Save writes the registry as indented JSON, creating parent directories.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
