package types

import "fmt"

// Mode is a simulator build target.
type Mode string

// Supported modes.
const (
	ModeNative Mode = "native"
	ModeWasm   Mode = "wasm"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNative, ModeWasm:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (must be native or wasm)", s)
	}
}

func (m Mode) String() string { return string(m) }
