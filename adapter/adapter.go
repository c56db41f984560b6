// Package adapter defines the notification boundary for finished builds.
//
// Adapters publish build completion events to downstream systems such as
// CI dashboards or chat bridges. The CLI owns adapter lifecycle; users
// provide configuration only.
package adapter

import (
	"context"
	"time"
)

// EventTypeBuildCompleted is the only event type published.
const EventTypeBuildCompleted = "build_completed"

// OutcomeSuccess is the Outcome of a successful build. Failed builds carry
// the failure kind instead (compile_failed, tool_missing, ...).
const OutcomeSuccess = "success"

// BuildCompletedEvent is the payload published when a build finishes.
type BuildCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"`
	InvocationID    string `json:"invocation_id"`
	App             string `json:"app"`
	Mode            string `json:"mode"`
	Outcome         string `json:"outcome"`
	Message         string `json:"message,omitempty"`
	ExitCode        int    `json:"exit_code"`
	Artifact        string `json:"artifact,omitempty"`
	DryRun          bool   `json:"dry_run"`
	Platform        string `json:"platform"`
	Timestamp       string `json:"timestamp"` // RFC 3339
	DurationMs      int64  `json:"duration_ms"`
}

// Adapter publishes build completion events to a downstream system.
type Adapter interface {
	// Publish sends the event. Must respect context cancellation.
	Publish(ctx context.Context, event *BuildCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

// FormatTimestamp renders t the way events expect it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
