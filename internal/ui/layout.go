package ui

import "github.com/dshills/minicalc/internal/renderer/core"

const (
	// maxContentWidth caps the widget width on wide terminals.
	maxContentWidth = 44
	// minColumnWidth is the narrowest usable button.
	minColumnWidth = 3
	columnGap      = 1
	hintRows       = 2
)

// Layout is the computed position of every widget part for one screen size.
type Layout struct {
	Width, Height int

	// TooSmall is set when the grid cannot fit; only the display is drawn.
	TooSmall bool

	Title    core.ScreenRect
	Subtitle core.ScreenRect
	Display  core.ScreenRect
	Hints    core.ScreenRect
	Buttons  []Button
}

// density is one candidate arrangement, from roomiest to most compact.
type density struct {
	subtitle bool
	displayH int
	buttonH  int
	rowGap   int
	hints    bool
}

func (d density) height(gridRows int) int {
	h := 1 + 1 + d.displayH + 1 + gridRows*d.buttonH + (gridRows-1)*d.rowGap
	if d.subtitle {
		h++
	}
	if d.hints {
		h += 1 + hintRows
	}
	return h
}

// gridRows returns how many rows buttons occupy in a GridColumns-wide grid.
func gridRows(buttons []Button) int {
	span := 0
	for _, b := range buttons {
		span += max(b.Span, 1)
	}
	return (span + GridColumns - 1) / GridColumns
}

// ComputeLayout arranges buttons for a width x height screen.
func ComputeLayout(width, height int, showHints bool, buttons []Button) Layout {
	l := Layout{Width: width, Height: height}

	contentW := min(width, maxContentWidth)
	colW := (contentW - (GridColumns-1)*columnGap) / GridColumns
	rows := gridRows(buttons)

	candidates := []density{
		{subtitle: true, displayH: 3, buttonH: 3, rowGap: 1, hints: showHints},
		{subtitle: false, displayH: 3, buttonH: 1, rowGap: 1, hints: showHints},
		{subtitle: false, displayH: 1, buttonH: 1, rowGap: 0, hints: showHints},
		{subtitle: false, displayH: 1, buttonH: 1, rowGap: 0, hints: false},
	}

	var d density
	fits := false
	for _, c := range candidates {
		if c.height(rows) <= height {
			d, fits = c, true
			break
		}
	}
	if !fits || colW < minColumnWidth {
		l.TooSmall = true
		l.Display = core.ScreenRect{Top: 0, Left: 0, Bottom: min(height, 1), Right: width}
		return l
	}

	usedW := GridColumns*colW + (GridColumns-1)*columnGap
	left := (width - usedW) / 2
	top := (height - d.height(rows)) / 2
	row := func(y, h int) core.ScreenRect {
		return core.ScreenRect{Top: y, Left: left, Bottom: y + h, Right: left + usedW}
	}

	y := top
	l.Title = row(y, 1)
	y++
	if d.subtitle {
		l.Subtitle = row(y, 1)
		y++
	}
	y++
	l.Display = row(y, d.displayH)
	y += d.displayH + 1

	l.Buttons = make([]Button, len(buttons))
	col := 0
	for i, b := range buttons {
		span := max(b.Span, 1)
		if col+span > GridColumns {
			col = 0
			y += d.buttonH + d.rowGap
		}
		x := left + col*(colW+columnGap)
		b.Rect = core.ScreenRect{
			Top:    y,
			Left:   x,
			Bottom: y + d.buttonH,
			Right:  x + span*colW + (span-1)*columnGap,
		}
		l.Buttons[i] = b
		col += span
		if col == GridColumns && i < len(buttons)-1 {
			col = 0
			y += d.buttonH + d.rowGap
		}
	}
	y += d.buttonH

	if d.hints {
		l.Hints = row(y+1, hintRows)
	}
	return l
}
