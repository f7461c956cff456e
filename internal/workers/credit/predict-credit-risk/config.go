// internal/workers/credit/predict-credit-risk/config.go
package predictcreditrisk

import (
	"fmt"
	"time"

	"credit-risk-dashboard/pkg/registry"
)

type Config struct {
	Timeout     time.Duration
	InputSchema map[string]interface{}
}

// LoadConfig reads the timeout and input schema registered for TaskType.
func LoadConfig(reg *registry.ActivityRegistry) (*Config, error) {
	cfg := &Config{Timeout: 30 * time.Second}

	activity, err := reg.Lookup(TaskType)
	if err != nil {
		return nil, err
	}
	if activity.Timeout != "" {
		timeout, err := time.ParseDuration(activity.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s timeout: %w", TaskType, err)
		}
		cfg.Timeout = timeout
	}
	cfg.InputSchema = activity.InputSchema
	return cfg, nil
}
