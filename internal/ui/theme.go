package ui

import "github.com/dshills/minicalc/internal/renderer/core"

// Theme holds the widget colors.
type Theme struct {
	DisplayFG   core.Color
	DisplayBG   core.Color
	DigitBG     core.Color
	OperatorFG  core.Color
	EqualsBG    core.Color
	ClearFG     core.Color
	BackspaceFG core.Color
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() Theme {
	return Theme{
		DisplayFG:   core.ColorFromRGB(0xFF, 0xFF, 0xFF),
		DisplayBG:   core.ColorFromRGB(0x1C, 0x1C, 0x1E),
		DigitBG:     core.ColorFromRGB(0x3A, 0x3A, 0x3C),
		OperatorFG:  core.ColorFromRGB(0xFF, 0x9F, 0x0A),
		EqualsBG:    core.ColorFromRGB(0xFF, 0x9F, 0x0A),
		ClearFG:     core.ColorFromRGB(0xFF, 0x45, 0x3A),
		BackspaceFG: core.ColorFromRGB(0xFF, 0xD6, 0x0A),
	}
}

// ButtonStyle returns the style for a button of kind k.
func (t Theme) ButtonStyle(k Kind) core.Style {
	base := core.DefaultStyle().WithBackground(t.DigitBG).WithForeground(t.DisplayFG)
	switch k {
	case KindOperator:
		return base.WithForeground(t.OperatorFG).Bold()
	case KindEquals:
		return base.WithBackground(t.EqualsBG).WithForeground(t.DisplayBG).Bold()
	case KindClear:
		return base.WithForeground(t.ClearFG).Bold()
	case KindBackspace:
		return base.WithForeground(t.BackspaceFG).Bold()
	default:
		return base
	}
}

// DisplayStyle returns the style of the display panel.
func (t Theme) DisplayStyle() core.Style {
	return core.DefaultStyle().WithBackground(t.DisplayBG).WithForeground(t.DisplayFG).Bold()
}
