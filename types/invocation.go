package types

import (
	"errors"

	"github.com/google/uuid"
)

// InvocationMeta identifies a single CLI invocation for log correlation.
type InvocationMeta struct {
	// InvocationID is unique per process invocation.
	InvocationID string
	// Command is the CLI command being executed (build, run, serve, ...).
	Command string
	// App is the application name, when the command targets one.
	App *string
	// Mode is the build mode (native or wasm), when relevant.
	Mode *string
}

// NewInvocationMeta creates metadata with a fresh invocation ID.
func NewInvocationMeta(command string) *InvocationMeta {
	return &InvocationMeta{
		InvocationID: uuid.NewString(),
		Command:      command,
	}
}

// WithApp returns a copy with app and mode set. Empty strings leave the
// corresponding field unset.
func (m *InvocationMeta) WithApp(app, mode string) *InvocationMeta {
	cp := *m
	if app != "" {
		cp.App = &app
	}
	if mode != "" {
		cp.Mode = &mode
	}
	return &cp
}

// Validate checks that required fields are present.
func (m *InvocationMeta) Validate() error {
	if m.InvocationID == "" {
		return errors.New("invocation_id must be non-empty")
	}
	if m.Command == "" {
		return errors.New("command must be non-empty")
	}
	return nil
}
