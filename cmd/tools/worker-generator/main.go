// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"lead-intelligence/pkg/registry"
)

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g. score-lead)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", registry.DefaultPath, "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>] [-force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator -activity score-lead")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	act, ok := reg.Find(*activity)
	if !ok {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, act.Category, act.ID)
	files, err := Generate(*act, workerDir, *force)
	if err != nil {
		fmt.Printf("Error generating worker: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("Generated %s\n", f)
	}

	fmt.Printf("\nWorker scaffold generated at: %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Fill in Input, Output and the schema in models.go and validation.go\n")
	fmt.Printf("  2. Implement Execute in handler.go\n")
	fmt.Printf("  3. Register the handler in cmd/worker-manager/wiring.go\n")
	fmt.Printf("  4. Add a workers.%s section to configs/config.yaml\n", act.TaskType)
}
