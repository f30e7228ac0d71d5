// Package ui draws the calculator widget: a title, the display panel, the
// button grid and a key hint footer.
package ui

import (
	"time"

	"github.com/dshills/minicalc/internal/input/keymap"
	"github.com/dshills/minicalc/internal/renderer/backend"
	"github.com/dshills/minicalc/internal/renderer/core"
)

// Static widget text.
const (
	TitleText    = "MiniCalc"
	SubtitleText = "Simple and efficient calculator for everyday use"
	HintText     = "Use your keyboard for faster input"
	HintKeysText = "Press Esc to clear, Enter to calculate"
	ellipsis     = '…'
)

// FlashDuration is how long a pressed button stays highlighted.
const FlashDuration = 150 * time.Millisecond

// Widget renders calculator state and maps pointer positions to buttons.
// It is not safe for concurrent use; the app drives it from one goroutine.
type Widget struct {
	theme     Theme
	showHints bool
	buttons   []Button
	layout    Layout

	flashed   int // index into buttons, -1 for none
	flashedAt time.Time
	now       func() time.Time
}

// New creates a widget with the default theme and button grid.
func New() *Widget {
	return &Widget{
		theme:     DefaultTheme(),
		showHints: true,
		buttons:   DefaultButtons(),
		flashed:   -1,
		now:       time.Now,
	}
}

// SetTheme replaces the colors.
func (w *Widget) SetTheme(t Theme) {
	w.theme = t
}

// Theme returns the current colors.
func (w *Widget) Theme() Theme {
	return w.theme
}

// SetShowHints toggles the hint footer and re-lays out.
func (w *Widget) SetShowHints(show bool) {
	w.showHints = show
	w.Resize(w.layout.Width, w.layout.Height)
}

// Resize recomputes the layout for a new screen size.
func (w *Widget) Resize(width, height int) {
	w.layout = ComputeLayout(width, height, w.showHints, w.buttons)
}

// Layout returns the current layout.
func (w *Widget) Layout() Layout {
	return w.layout
}

// ButtonAt returns the button under the screen position (x, y).
func (w *Widget) ButtonAt(x, y int) (Button, bool) {
	for _, b := range w.layout.Buttons {
		if b.Rect.Contains(x, y) {
			return b, true
		}
	}
	return Button{}, false
}

// Flash highlights the button bound to a. It reports false when no button
// carries the action, e.g. quit.
func (w *Widget) Flash(a keymap.Action) bool {
	for i, b := range w.buttons {
		if b.Action == a {
			w.flashed = i
			w.flashedAt = w.now()
			return true
		}
	}
	return false
}

// Flashing reports whether a button is currently highlighted.
func (w *Widget) Flashing() bool {
	return w.flashed >= 0 && w.now().Sub(w.flashedAt) < FlashDuration
}

// Draw renders the widget with display as the calculator output and
// presents the frame.
func (w *Widget) Draw(b backend.Backend, display string) {
	b.Clear()
	defer b.Show()

	l := w.layout
	if l.TooSmall {
		w.drawDisplayLine(b, l.Display, display)
		return
	}

	title := core.DefaultStyle().Bold()
	drawCentered(b, l.Title, TitleText, title)
	if !l.Subtitle.Empty() {
		drawCentered(b, l.Subtitle, SubtitleText, core.DefaultStyle().WithForeground(core.ColorFromRGB(0x8E, 0x8E, 0x93)))
	}

	b.Fill(l.Display, core.NewStyledCell(' ', w.theme.DisplayStyle()))
	mid := l.Display.Top + l.Display.Height()/2
	w.drawDisplayLine(b, core.ScreenRect{Top: mid, Left: l.Display.Left + 1, Bottom: mid + 1, Right: l.Display.Right - 1}, display)

	flashing := w.Flashing()
	for i, btn := range l.Buttons {
		style := w.theme.ButtonStyle(btn.Kind)
		if flashing && i == w.flashed {
			style = style.WithBackground(style.Background.Lighten(0.35))
		}
		b.Fill(btn.Rect, core.NewStyledCell(' ', style))
		labelRow := btn.Rect.Top + btn.Rect.Height()/2
		drawCentered(b, core.ScreenRect{Top: labelRow, Left: btn.Rect.Left, Bottom: labelRow + 1, Right: btn.Rect.Right}, btn.Label, style)
	}

	if !l.Hints.Empty() {
		dim := core.DefaultStyle().WithForeground(core.ColorFromRGB(0x8E, 0x8E, 0x93))
		drawCentered(b, core.ScreenRect{Top: l.Hints.Top, Left: l.Hints.Left, Bottom: l.Hints.Top + 1, Right: l.Hints.Right}, HintText, dim)
		drawCentered(b, core.ScreenRect{Top: l.Hints.Top + 1, Left: l.Hints.Left, Bottom: l.Hints.Top + 2, Right: l.Hints.Right}, HintKeysText, dim)
	}
}

// drawDisplayLine right-aligns text in the first row of r.
func (w *Widget) drawDisplayLine(b backend.Backend, r core.ScreenRect, text string) {
	if r.Empty() {
		return
	}
	text = FitDisplay(text, r.Width())
	drawText(b, r.Right-core.StringWidth(text), r.Top, r.Right, text, w.theme.DisplayStyle())
}

// FitDisplay truncates text from the left so it fits in width columns,
// marking the cut with an ellipsis.
func FitDisplay(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if core.StringWidth(text) <= width {
		return text
	}

	runes := []rune(text)
	budget := width - core.RuneWidth(ellipsis)
	start := len(runes)
	for start > 0 {
		rw := core.RuneWidth(runes[start-1])
		if rw > budget {
			break
		}
		budget -= rw
		start--
	}
	return string(ellipsis) + string(runes[start:])
}

// drawCentered draws text centered in the first row of r, cut at the
// right edge.
func drawCentered(b backend.Backend, r core.ScreenRect, text string, style core.Style) {
	x := r.Left + max((r.Width()-core.StringWidth(text))/2, 0)
	drawText(b, x, r.Top, r.Right, text, style)
}

// drawText writes text from column x, stopping before maxX.
func drawText(b backend.Backend, x, y, maxX int, text string, style core.Style) {
	for _, r := range text {
		rw := core.RuneWidth(r)
		if x+rw > maxX {
			return
		}
		b.SetCell(x, y, core.NewStyledCell(r, style))
		x += max(rw, 1)
	}
}
