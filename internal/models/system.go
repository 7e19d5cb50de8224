package models

import "time"

// SystemMetrics is a lightweight snapshot of process instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	RegistrationsCreated     uint64    `json:"registrations_created"`
	StatusUpdates            uint64    `json:"status_updates"`
	GateAttempts             uint64    `json:"gate_attempts"`
	GateFailures             uint64    `json:"gate_failures"`
	FeedBroadcasts           uint64    `json:"feed_broadcasts"`
	StorageOperations        uint64    `json:"storage_operations"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
