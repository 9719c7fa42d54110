package table

import "github.com/samber/lo"

const (
	dateColWidth      = 20
	stripeColWidth    = 1
	platformColWidth  = 12
	versionColWidth   = 24
	linkColWidth      = 36
	minDeviceColWidth = 16
	columnGap         = 2
)

// Layout holds the column widths for one render. The device column takes
// whatever the fixed columns leave, but never less than minDeviceColWidth.
type Layout struct {
	Date     int
	Stripe   int
	Platform int
	Version  int
	Device   int
	Link     int
	Gap      int
	Columns  int
}

func ComputeLayout(termWidth int, showLinks bool) Layout {
	l := Layout{
		Date:     dateColWidth,
		Stripe:   stripeColWidth,
		Platform: platformColWidth,
		Version:  versionColWidth,
		Gap:      columnGap,
		Columns:  5,
	}
	if showLinks {
		l.Link = linkColWidth
		l.Columns++
	}
	fixed := l.Date + l.Stripe + l.Platform + l.Version + l.Link + l.Gap*(l.Columns-1)
	l.Device = max(minDeviceColWidth, termWidth-fixed)
	return l
}

// Widths lists the column widths in display order.
func (l Layout) Widths() []int {
	widths := []int{l.Date, l.Stripe, l.Platform, l.Version, l.Device}
	if l.Link > 0 {
		widths = append(widths, l.Link)
	}
	return widths
}

// TotalWidth is the printable width of a full row including gaps.
func (l Layout) TotalWidth() int {
	return lo.Sum(l.Widths()) + l.Gap*(l.Columns-1)
}
