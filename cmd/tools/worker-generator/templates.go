// cmd/tools/worker-generator/templates.go
package main

const configTemplate = `// {{ .Dir }}/config.go
package {{ .PackageName }}

import (
	"fmt"
	"time"

	"{{ .Module }}/internal/common/config"
)

type Config struct {
	Enabled       bool          {{ bt }}mapstructure:"enabled"{{ bt }}
	MaxJobsActive int           {{ bt }}mapstructure:"max_jobs_active"{{ bt }}
	Timeout       time.Duration {{ bt }}mapstructure:"timeout"{{ bt }}
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       {{ .TimeoutLiteral }},
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
`

const modelsTemplate = `// {{ .Dir }}/models.go
package {{ .PackageName }}

type Input struct {
	ID string {{ bt }}json:"id"{{ bt }}
}

type Output struct {
	ID string {{ bt }}json:"id"{{ bt }}
}
`

const validationTemplate = `// {{ .Dir }}/validation.go
package {{ .PackageName }}

import "{{ .Module }}/internal/common/validation"

var inputSchema = validation.MustCompile({{ bt }}{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "string", "minLength": 1}
	}
}{{ bt }})

func GetInputSchema() *validation.Schema {
	return inputSchema
}
`

const handlerTemplate = `// {{ .Dir }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"time"

	"{{ .Module }}/internal/common/camunda"
	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"
{{ if .ErrorCodes }}
// Declared error codes (Zeebe retries):
{{- range .ErrorCodes }}
//   {{ . }} ({{ retryHint . }})
{{- end }}
{{ end }}
{{- if .Description }}
// Handler: {{ .Description }}.
{{- end }}
type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(cfg *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: cfg,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var output *Output
	input, err := h.parseInput(job)
	if err == nil {
		output, err = h.Execute(ctx, input)
	}
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.FromError(err).Code)).Inc()
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		return err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	return nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := camunda.DecodeJob(job, GetInputSchema(), &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{ID: input.ID}, nil
}
`

const testTemplate = `// {{ .Dir }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       key,
		Type:      TaskType,
		Retries:   3,
		Variables: string(variablesJSON),
	}}
}

func TestExecute(t *testing.T) {
	h := NewHandler(DefaultConfig(), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{ID: "x-1"})
	require.NoError(t, err)
	assert.Equal(t, "x-1", out.ID)
}

func TestParseInput(t *testing.T) {
	h := NewHandler(DefaultConfig(), logger.NewTestLogger(t))

	_, err := h.parseInput(createMockJob(1, map[string]interface{}{"id": "x-1"}))
	assert.NoError(t, err)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{}))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.FromError(err).Code)
}
`
