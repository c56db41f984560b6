package render

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
)

// Hinted is implemented by failures that suggest a next step.
type Hinted interface {
	Hint() string
}

type paint func(string) string

type styles struct {
	err     paint
	hint    paint
	success paint
	warn    paint
}

// styles binds lipgloss styles to stderr, so color is dropped when stderr
// is not a terminal. --no-color disables styling outright.
func (r *Renderer) styles() styles {
	if r.noColor {
		plain := func(s string) string { return s }
		return styles{err: plain, hint: plain, success: plain, warn: plain}
	}
	lr := lipgloss.NewRenderer(r.errOut)
	return styles{
		err:     with(lr.NewStyle().Bold(true).Foreground(errorColor)),
		hint:    with(lr.NewStyle().Foreground(mutedColor)),
		success: with(lr.NewStyle().Foreground(successColor)),
		warn:    with(lr.NewStyle().Foreground(warningColor)),
	}
}

func with(st lipgloss.Style) paint {
	return func(s string) string { return st.Render(s) }
}

// Failure writes err as a one-line failure to stderr, followed by its hint
// when it has one.
func (r *Renderer) Failure(err error) {
	st := r.styles()
	fmt.Fprintln(r.errOut, st.err("error:")+" "+err.Error())

	var h Hinted
	if errors.As(err, &h) && h.Hint() != "" {
		fmt.Fprintln(r.errOut, st.hint("hint:  "+h.Hint()))
	}
}

// Success writes a status line to stderr, keeping stdout for results.
func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.styles().success(fmt.Sprintf(format, args...)))
}

// Warn writes a warning line to stderr.
func (r *Renderer) Warn(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.styles().warn(fmt.Sprintf(format, args...)))
}
