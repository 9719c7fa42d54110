package theme

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAuto, ModeAlways, ModeNever:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("color mode must be auto, always or never: %s", s)
	}
}

// Enabled resolves the mode against whether output goes to a terminal.
func (m Mode) Enabled(isTerminal bool) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return isTerminal
	}
}

// 16-color ANSI indices so the palette follows the user's terminal scheme.
var platformColors = map[string]lipgloss.Color{
	"ios":      lipgloss.Color("3"),
	"ipados":   lipgloss.Color("4"),
	"macos":    lipgloss.Color("2"),
	"watchos":  lipgloss.Color("5"),
	"tvos":     lipgloss.Color("6"),
	"visionos": lipgloss.Color("15"),
	"other":    lipgloss.Color("8"),
}

type Theme struct {
	enabled  bool
	renderer *lipgloss.Renderer

	Dim lipgloss.Style
}

func New(enabled bool) Theme {
	r := lipgloss.NewRenderer(io.Discard)
	if enabled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return Theme{
		enabled:  enabled,
		renderer: r,
		Dim:      r.NewStyle().Faint(true),
	}
}

func (t Theme) Enabled() bool {
	return t.enabled
}

// Platform is the foreground style for a platform key; unknown keys get the
// "other" color.
func (t Theme) Platform(key string) lipgloss.Style {
	color, ok := platformColors[key]
	if !ok {
		color = platformColors["other"]
	}
	return t.renderer.NewStyle().Foreground(color)
}

// Render applies style only when color output is enabled.
func (t Theme) Render(style lipgloss.Style, s string) string {
	if !t.enabled || s == "" {
		return s
	}
	return style.Render(s)
}
