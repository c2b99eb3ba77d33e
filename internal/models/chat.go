package models

import "time"

// ChatMessage is one line of the assistant conversation
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"` // "user" or "bot"
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HostStatus is the resource footprint of the running simulator
type HostStatus struct {
	PID           int32   `json:"pid"`
	CPUPercent    float64 `json:"cpu_percent"`
	RSSMB         float64 `json:"rss_mb"`
	Goroutines    int     `json:"goroutines"`
	SystemMemUsed float64 `json:"system_mem_used_percent"`
	SystemCPU     float64 `json:"system_cpu_percent"`
}
