package table

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Ambiguous-width glyphs (the ellipsis, the stripe block) count as one cell
// regardless of the locale.
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

var cellSanitizer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// clip cuts s to width display cells, ending in an ellipsis when it had to
// cut, and reports how many spaces are needed to fill the column.
func clip(s string, width int) (text string, padding int) {
	if width <= 0 {
		return "", 0
	}
	text = widthCond.Truncate(cellSanitizer.Replace(s), width, ellipsis)
	return text, max(0, width-widthCond.StringWidth(text))
}

func pad(s string, width int) string {
	text, padding := clip(s, width)
	return text + strings.Repeat(" ", padding)
}

func displayWidth(s string) int {
	return widthCond.StringWidth(s)
}
