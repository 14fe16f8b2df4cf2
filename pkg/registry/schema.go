// pkg/registry/schema.go
package registry

// ActivityRegistry lists every BPMN service task the worker manager can serve.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID                   string   `json:"id"`
	DisplayName          string   `json:"displayName"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Version              string   `json:"version"`
	TaskType             string   `json:"taskType"`
	ImplementationStatus string   `json:"implementationStatus"`
	ErrorCodes           []string `json:"errorCodes"`
	Timeout              string   `json:"timeout"`
	Retries              int      `json:"retries"`
	Tags                 []string `json:"tags,omitempty"`
}

// Categories map to the directories under internal/workers.
var Categories = []string{"chat", "lead", "notification"}

var Statuses = []string{"planned", "in-progress", "completed", "verified"}
