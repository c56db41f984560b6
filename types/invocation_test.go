package types //nolint:revive // types is a valid package name

import "testing"

func TestNewInvocationMeta(t *testing.T) {
	a := NewInvocationMeta("build")
	b := NewInvocationMeta("build")

	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if a.InvocationID == b.InvocationID {
		t.Error("invocation IDs must be unique")
	}
}

func TestInvocationMeta_WithApp(t *testing.T) {
	base := NewInvocationMeta("run")
	scoped := base.WithApp("core", "native")

	if base.App != nil || base.Mode != nil {
		t.Error("WithApp mutated the receiver")
	}
	if scoped.App == nil || *scoped.App != "core" {
		t.Errorf("App = %v, want core", scoped.App)
	}
	if scoped.Mode == nil || *scoped.Mode != "native" {
		t.Errorf("Mode = %v, want native", scoped.Mode)
	}
	if scoped.InvocationID != base.InvocationID {
		t.Error("WithApp must keep the invocation ID")
	}

	if empty := base.WithApp("", ""); empty.App != nil || empty.Mode != nil {
		t.Error("empty app/mode should stay unset")
	}
}

func TestInvocationMeta_Validate(t *testing.T) {
	tests := []struct {
		name    string
		meta    InvocationMeta
		wantErr bool
	}{
		{"valid", InvocationMeta{InvocationID: "id", Command: "build"}, false},
		{"missing id", InvocationMeta{Command: "build"}, true},
		{"missing command", InvocationMeta{InvocationID: "id"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
