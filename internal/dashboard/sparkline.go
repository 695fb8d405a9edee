package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws the most recent width values. Percent series are
// scaled against a fixed 0-100 range so a flat 3% line stays low; other
// series scale between their own min and max.
func RenderSparkline(data []float64, width int, percent bool, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := 0.0, 100.0
	if !percent {
		minVal, maxVal = data[0], data[0]
		for _, v := range data {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	levels := len(sparklineBlocks)
	span := maxVal - minVal
	for _, v := range data {
		level := 0
		if span > 0 {
			level = int((v - minVal) / span * float64(levels-1))
		}
		if level < 0 {
			level = 0
		} else if level >= levels {
			level = levels - 1
		}
		sb.WriteRune(sparklineBlocks[level])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
