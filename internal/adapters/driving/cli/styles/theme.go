// Package styles colours CLI output when it goes to a terminal.
package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette for command output.
type Theme struct {
	// Primary highlights titles and record names.
	Primary lipgloss.Color

	// Muted is for ids and secondary detail.
	Muted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles renders text for one writer. When the writer is not a terminal
// every method returns its input unchanged.
type Styles struct {
	theme   *Theme
	enabled bool

	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// For returns styles for w using the default theme.
func For(w io.Writer) *Styles {
	return New(w, DefaultTheme(), IsTerminal(w))
}

// New creates styles from a theme. enabled forces colour on or off.
func New(w io.Writer, theme *Theme, enabled bool) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)
	return &Styles{
		theme:   theme,
		enabled: enabled,
		title:   r.NewStyle().Bold(true).Foreground(theme.Primary),
		muted:   r.NewStyle().Foreground(theme.Muted),
		success: r.NewStyle().Bold(true).Foreground(theme.Success),
		warning: r.NewStyle().Foreground(theme.Warning),
		failure: r.NewStyle().Bold(true).Foreground(theme.Error),
	}
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Enabled reports whether output is coloured.
func (s *Styles) Enabled() bool { return s.enabled }

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme { return s.theme }

func (s *Styles) Title(v string) string   { return s.render(s.title, v) }
func (s *Styles) Muted(v string) string   { return s.render(s.muted, v) }
func (s *Styles) Success(v string) string { return s.render(s.success, v) }
func (s *Styles) Warning(v string) string { return s.render(s.warning, v) }
func (s *Styles) Error(v string) string   { return s.render(s.failure, v) }

func (s *Styles) render(style lipgloss.Style, v string) string {
	if !s.enabled {
		return v
	}
	return style.Render(v)
}
