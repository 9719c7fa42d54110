// Package table renders timeline entries as a fixed-width, optionally
// colorized table sized to the terminal.
package table

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/ipsw-timeline/internal/feed"
	"github.com/glabrego/ipsw-timeline/internal/metadata"
	"github.com/glabrego/ipsw-timeline/internal/render/theme"
)

const (
	NoEntriesMessage = "No entries to display."

	stripeGlyph  = "▌"
	dividerGlyph = "─"
)

var reDigits = regexp.MustCompile(`\d+`)

// Terminal reports the current state of the output stream.
type Terminal interface {
	Width() int
	IsTerminal() bool
}

type Options struct {
	Color     theme.Mode
	ShowLinks bool
}

type Renderer struct {
	term Terminal
	opts Options
}

func NewRenderer(term Terminal, opts Options) *Renderer {
	return &Renderer{term: term, opts: opts}
}

// Render builds the whole table. Layout and color support are resolved on
// each call.
func (r *Renderer) Render(entries []feed.Entry) string {
	if len(entries) == 0 {
		return NoEntriesMessage
	}

	width := r.term.Width()
	layout := ComputeLayout(width, r.opts.ShowLinks)
	th := theme.New(r.opts.Color.Enabled(r.term.IsTerminal()))
	gap := strings.Repeat(" ", layout.Gap)

	lines := make([]string, 0, 2*len(entries)+2)
	lines = append(lines, strings.Join(headerCells(layout), gap))
	lines = append(lines, strings.Repeat("-", min(width, layout.TotalWidth())))

	prevDay := ""
	for _, entry := range entries {
		if day := entry.PublishedDay(); day != prevDay {
			lines = append(lines, dayDivider(day, width, th))
			prevDay = day
		}
		lines = append(lines, strings.Join(rowCells(entry, layout, r.opts.ShowLinks, th), gap))
	}
	return strings.Join(lines, "\n")
}

func headerCells(l Layout) []string {
	cells := []string{
		pad("Published", l.Date),
		pad("", l.Stripe),
		pad("Platform", l.Platform),
		pad("Version (Build)", l.Version),
		pad("Device / Notes", l.Device),
	}
	if l.Link > 0 {
		cells = append(cells, pad("Link", l.Link))
	}
	return cells
}

func rowCells(entry feed.Entry, l Layout, showLinks bool, th theme.Theme) []string {
	rel := metadata.Extract(entry.Title, entry.Description)
	platformStyle := th.Platform(rel.PlatformKey)

	cells := []string{
		pad(entry.PublishedDisplay(), l.Date),
		styledCell(stripeGlyph, l.Stripe, th, platformStyle),
		styledCell(rel.PlatformLabel, l.Platform, th, platformStyle),
		versionCell(rel, l.Version, th, platformStyle),
		styledCell(deviceText(rel), l.Device, th, th.Dim),
	}
	if showLinks {
		link := entry.Link
		if link == "" {
			link = entry.GUID
		}
		cells = append(cells, pad(link, l.Link))
	}
	return cells
}

func styledCell(s string, width int, th theme.Theme, style lipgloss.Style) string {
	text, padding := clip(s, width)
	return th.Render(style, text) + strings.Repeat(" ", padding)
}

// versionCell shows "version (build)" with numeric runs in bold so the
// version numbers stand out against the rest of the label.
func versionCell(rel metadata.Release, width int, th theme.Theme, style lipgloss.Style) string {
	// PlatformLabel is never empty, so single-word titles still get a label.
	label := rel.Version
	if label == "" {
		label = rel.PlatformLabel
	}
	if rel.Build != "" {
		label += " (" + rel.Build + ")"
	}

	text, padding := clip(label, width)
	if !th.Enabled() {
		return text + strings.Repeat(" ", padding)
	}

	if rel.Prerelease() {
		style = style.Bold(true)
	}
	numeric := style.Bold(true)

	var b strings.Builder
	last := 0
	for _, loc := range reDigits.FindAllStringIndex(text, -1) {
		b.WriteString(th.Render(style, text[last:loc[0]]))
		b.WriteString(th.Render(numeric, text[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(th.Render(style, text[last:]))
	b.WriteString(strings.Repeat(" ", padding))
	return b.String()
}

func deviceText(rel metadata.Release) string {
	switch {
	case rel.Device != "":
		return rel.Device
	case rel.Summary != "":
		return rel.Summary
	default:
		return rel.PlatformLabel
	}
}

// dayDivider renders "── 2024-05-13 ─────" across the full terminal width.
func dayDivider(day string, width int, th theme.Theme) string {
	prefix := dividerGlyph + dividerGlyph + " " + day + " "
	fill := max(0, width-displayWidth(prefix))
	return th.Render(th.Dim, prefix+strings.Repeat(dividerGlyph, fill))
}
