// cmd/tools/worker-generator/generate.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	apperrors "lead-intelligence/internal/common/errors"
	"lead-intelligence/pkg/registry"
)

const modulePath = "lead-intelligence"

// WorkerData feeds the templates.
type WorkerData struct {
	Module         string
	Name           string
	Description    string
	PackageName    string
	Dir            string
	TaskType       string
	TimeoutLiteral string
	ErrorCodes     []string
}

func newWorkerData(act registry.Activity, dir string) WorkerData {
	return WorkerData{
		Module:         modulePath,
		Name:           act.DisplayName,
		Description:    act.Description,
		PackageName:    strings.ReplaceAll(act.ID, "-", ""),
		Dir:            filepath.ToSlash(dir),
		TaskType:       act.TaskType,
		TimeoutLiteral: durationLiteral(act.Timeout),
		ErrorCodes:     act.ErrorCodes,
	}
}

// durationLiteral renders a registry timeout as Go source, e.g. "10s" -> "10 * time.Second".
func durationLiteral(s string) string {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return "30 * time.Second"
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

// retryHint documents the Zeebe retry budget of each declared error code.
func retryHint(code string) int {
	return apperrors.GetRetryCount(apperrors.ErrorCode(code))
}

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"validation.go":   validationTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// Generate writes the worker scaffold into dir and returns the written paths in name order.
func Generate(act registry.Activity, dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	data := newWorkerData(act, dir)
	funcs := template.FuncMap{
		"bt":        func() string { return "`" },
		"retryHint": retryHint,
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}

		tmpl, err := template.New(name).Funcs(funcs).Parse(templates[name])
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return written, fmt.Errorf("render %s: %w", name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return written, fmt.Errorf("format %s: %w", name, err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
