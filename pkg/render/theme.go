// Package render styles classified test output for the terminal.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dkoosis/runautotests/pkg/classify"
)

// Theme defines one lipgloss style per color role.
type Theme struct {
	Name    string
	Info    lipgloss.Style
	Success lipgloss.Style
	Alert   lipgloss.Style
	AlertFg lipgloss.Style
	Dim     lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
}

// NewRenderer returns a lipgloss renderer bound to w with a fixed color
// profile, so output does not depend on what lipgloss guesses about w.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// newStyle keeps tabs in test output intact.
func newStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// DefaultTheme returns the classic 8-color palette used by Qt's autotest
// scripts: white on red for failures, green passes, yellow banners.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:    "default",
		Info:    newStyle(r).Foreground(lipgloss.Color("3")),                                  // yellow
		Success: newStyle(r).Foreground(lipgloss.Color("2")),                                  // green
		Alert:   newStyle(r).Foreground(lipgloss.Color("7")).Background(lipgloss.Color("1")), // white on red
		AlertFg: newStyle(r).Foreground(lipgloss.Color("1")),                                  // red
		Dim:     newStyle(r).Foreground(lipgloss.Color("7")),                                  // grey
		Warning: newStyle(r).Foreground(lipgloss.Color("3")),                                  // yellow
		Bold:    newStyle(r).Bold(true),
	}
}

// MonoTheme returns a theme that leaves every line untouched.
func MonoTheme(r *lipgloss.Renderer) Theme {
	plain := newStyle(r)
	return Theme{
		Name:    "mono",
		Info:    plain,
		Success: plain,
		Alert:   plain,
		AlertFg: plain,
		Dim:     plain,
		Warning: plain,
		Bold:    plain,
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	switch name {
	case "mono":
		return MonoTheme(r)
	default:
		return DefaultTheme(r)
	}
}

// Style returns the style for a color role.
func (t Theme) Style(role classify.Role) lipgloss.Style {
	switch role {
	case classify.RoleInfo:
		return t.Info
	case classify.RoleSuccess:
		return t.Success
	case classify.RoleAlert:
		return t.Alert
	case classify.RoleAlertFg:
		return t.AlertFg
	case classify.RoleDim:
		return t.Dim
	case classify.RoleWarning:
		return t.Warning
	default:
		return lipgloss.Style{}
	}
}

// Line applies the matched rule's style to line. Marker rules color only
// the matched span; whole-line rules color everything. Unmatched lines
// are returned unchanged.
func (t Theme) Line(line string, m classify.Match) string {
	if !m.Matched() {
		return line
	}
	style := t.Style(m.Role)
	if m.Whole {
		return style.Render(line)
	}
	return line[:m.Start] + style.Render(line[m.Start:m.End]) + line[m.End:]
}

// Error renders a harness-generated error message, such as a crash report.
func (t Theme) Error(msg string) string {
	return t.Alert.Render(msg)
}
