package types //nolint:revive // types is a valid package name

import "testing"

func TestPlatform_ExeName(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		in       string
		want     string
	}{
		{"linux no suffix", Platform{OS: "linux"}, "core_sim", "core_sim"},
		{"darwin no suffix", Platform{OS: "darwin"}, "core_sim", "core_sim"},
		{"windows adds exe", Platform{OS: "windows"}, "core_sim", "core_sim.exe"},
		{"windows keeps existing", Platform{OS: "windows"}, "core_sim.EXE", "core_sim.EXE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.platform.ExeName(tt.in); got != tt.want {
				t.Errorf("ExeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlatform_Flags(t *testing.T) {
	win := Platform{OS: "windows"}
	if !win.IsWindows() || win.IsUnix() {
		t.Error("windows flags wrong")
	}
	mac := Platform{OS: "darwin"}
	if mac.IsWindows() || !mac.IsUnix() || !mac.IsDarwin() {
		t.Error("darwin flags wrong")
	}
	if got := win.ScriptName("zig-cc"); got != "zig-cc.cmd" {
		t.Errorf("ScriptName = %q", got)
	}
	if got := mac.ScriptName("zig-cc"); got != "zig-cc" {
		t.Errorf("ScriptName = %q", got)
	}
}

func TestDetectPlatform(t *testing.T) {
	p := DetectPlatform()
	if p.OS == "" || p.Arch == "" {
		t.Errorf("DetectPlatform returned empty fields: %+v", p)
	}
}
