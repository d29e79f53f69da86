package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/signalnine/benchdiff/internal/compare"
)

// Theme styles the lines of the diff format.
type Theme struct {
	enabled  bool
	Header   lipgloss.Style
	Section  lipgloss.Style
	Removed  lipgloss.Style
	New      lipgloss.Style
	Improved lipgloss.Style
	Worsened lipgloss.Style
	Stable   lipgloss.Style
	Muted    lipgloss.Style
}

// ColorTheme returns an ANSI theme rendering for w regardless of whether w
// is a terminal; the caller decides when color is wanted.
func ColorTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return Theme{
		enabled:  true,
		Header:   r.NewStyle().Bold(true),
		Section:  r.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Removed:  r.NewStyle().Foreground(lipgloss.Color("242")), // gray
		New:      r.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Improved: r.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Worsened: r.NewStyle().Foreground(lipgloss.Color("196")), // red
		Stable:   r.NewStyle(),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonoTheme leaves every line untouched.
func MonoTheme() Theme {
	return Theme{}
}

func (t Theme) paint(s lipgloss.Style, text string) string {
	if !t.enabled {
		return text
	}
	return s.Render(text)
}

func (t Theme) forKind(k compare.Transition) lipgloss.Style {
	switch k {
	case compare.Removed:
		return t.Removed
	case compare.New:
		return t.New
	case compare.Improved:
		return t.Improved
	case compare.Worsened:
		return t.Worsened
	default:
		return t.Stable
	}
}
