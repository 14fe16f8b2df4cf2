// internal/workers/lead/check-lead-priority/config.go
package checkleadpriority

import (
	"fmt"
	"time"

	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/models"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// NotifyTiers lists the tiers that route to sales regardless of category.
	NotifyTiers []models.PriorityTier `mapstructure:"notify_tiers"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 10,
		Timeout:       10 * time.Second,
		NotifyTiers:   []models.PriorityTier{models.PriorityTier1},
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func CreateConfigFromAppConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	workerCfg := config.GetWorkerConfig(appConfig, TaskType)
	cfg.Enabled = workerCfg.Enabled
	if workerCfg.MaxJobsActive > 0 {
		cfg.MaxJobsActive = workerCfg.MaxJobsActive
	}
	if workerCfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(workerCfg.Timeout)
	}
	return cfg
}
