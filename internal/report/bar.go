package report

import (
	"math"
	"strings"
)

// BarWidth is the glyph budget of the macro distribution gauges.
const BarWidth = 40

// RenderBar draws a fixed-width text gauge for a 0-100 percentage.
// Input outside the 0-100 domain is not clamped back into the budget: over
// 100 the bar comes out wider than width, below 0 it comes out narrower.
// Callers own the domain.
func RenderBar(percentage float64, width int) string {
	filled := int(math.Round(percentage / 100 * float64(width)))
	unfilled := width - filled
	if filled < 0 {
		filled = 0
	}
	if unfilled < 0 {
		unfilled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", unfilled)
}
