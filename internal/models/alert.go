package models

// Priority of a maintenance alert
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Alert is a maintenance recommendation derived on a single tick
type Alert struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"`
}

// Status is the coarse vehicle health state
type Status string

const (
	StatusNormal   Status = "Normal"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
)

// Severity orders statuses for gauges and metrics (0 Normal .. 2 Critical)
func (s Status) Severity() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// HealthStatus is the derived status plus its presentation tag
type HealthStatus struct {
	Status Status `json:"status"`
	Tag    string `json:"tag"` // "red", "yellow", "green"
}
