// Package terminal answers the two questions the renderer asks about its
// output stream: how wide is it, and is it a terminal at all.
package terminal

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

const FallbackWidth = 100

type Output struct {
	fd     uintptr
	getenv func(string) string
	size   func(fd uintptr) (int, int, error)
	isTTY  func(fd uintptr) bool
}

func New(f *os.File) Output {
	return Output{
		fd:     f.Fd(),
		getenv: os.Getenv,
		size:   term.GetSize,
		isTTY:  isTerminal,
	}
}

func Stdout() Output {
	return New(os.Stdout)
}

// Width is queried on every call so a resized terminal is picked up.
// COLUMNS wins over the ioctl; redirected output falls back to 100 cells.
func (o Output) Width() int {
	width := FallbackWidth
	if o.size != nil {
		if w, _, err := o.size(o.fd); err == nil && w > 0 {
			width = w
		}
	}
	if n := o.envInt("COLUMNS"); n > 0 {
		width = n
	}
	return width
}

func (o Output) IsTerminal() bool {
	if o.isTTY == nil {
		return false
	}
	return o.isTTY(o.fd)
}

func (o Output) envInt(key string) int {
	if o.getenv == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(o.getenv(key)))
	if err != nil {
		return 0
	}
	return n
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
