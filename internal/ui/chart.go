package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const yLabelWidth = 8

// chartGrid maps the samples onto a width×height cell grid. Column c covers
// times [lo + c·dx, lo + (c+1)·dx); every cell between the column's lowest
// and highest sample is filled, so noisy signals draw as an envelope.
// Returned rows run top to bottom. ymin and ymax are the value range used.
func chartGrid(width, height int, x, y []float64, lo, hi float64) (grid [][]bool, ymin, ymax float64) {
	if len(y) < len(x) {
		x = x[:len(y)]
	}
	grid = make([][]bool, height)
	for r := range grid {
		grid[r] = make([]bool, width)
	}
	if width <= 0 || height <= 0 || len(x) == 0 || !(hi > lo) {
		return grid, 0, 0
	}

	inRange := func(i int) bool {
		v := y[i]
		return !math.IsNaN(v) && !math.IsInf(v, 0) && x[i] >= lo && x[i] <= hi
	}

	ymin, ymax = math.Inf(1), math.Inf(-1)
	for i := range x {
		if inRange(i) {
			ymin = math.Min(ymin, y[i])
			ymax = math.Max(ymax, y[i])
		}
	}
	if math.IsInf(ymin, 1) {
		return grid, 0, 0
	}
	if ymax-ymin < 1e-9 {
		ymin -= 0.5
		ymax += 0.5
	}

	row := func(v float64) int {
		r := int(math.Round((ymax - v) / (ymax - ymin) * float64(height-1)))
		return min(max(r, 0), height-1)
	}

	colLo := make([]int, width)
	colHi := make([]int, width)
	for c := range colLo {
		colLo[c], colHi[c] = -1, -1
	}
	dx := (hi - lo) / float64(width)
	for i, t := range x {
		if !inRange(i) {
			continue
		}
		c := min(int((t-lo)/dx), width-1)
		r := row(y[i])
		if colLo[c] < 0 || r < colLo[c] {
			colLo[c] = r
		}
		if colHi[c] < 0 || r > colHi[c] {
			colHi[c] = r
		}
	}

	// Bridge gaps between neighboring columns so the trace stays connected.
	prev := -1
	for c := 0; c < width; c++ {
		if colLo[c] < 0 {
			continue
		}
		top, bottom := colLo[c], colHi[c]
		if prev >= 0 {
			top = min(top, (colLo[prev]+colHi[prev])/2)
			bottom = max(bottom, (colLo[prev]+colHi[prev])/2)
		}
		for r := top; r <= bottom; r++ {
			grid[r][c] = true
		}
		prev = c
	}
	return grid, ymin, ymax
}

// RenderChart draws a time series as a block chart with a y-axis on the
// left and the [lo, hi] time range underneath.
func RenderChart(width, height int, x, y []float64, lo, hi float64, color lipgloss.Color) string {
	plotW := width - yLabelWidth - 1
	plotH := height - 1
	if plotW < 4 || plotH < 2 {
		return renderSparkline(y, max(width, 1))
	}

	grid, ymin, ymax := chartGrid(plotW, plotH, x, y, lo, hi)
	trace := lipgloss.NewStyle().Foreground(color)

	lines := make([]string, 0, height)
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = formatAxis(ymax)
		case plotH - 1:
			label = formatAxis(ymin)
		}
		var sb strings.Builder
		for _, on := range cells {
			if on {
				sb.WriteRune('█')
			} else {
				sb.WriteRune(' ')
			}
		}
		lines = append(lines, StyleAxis.Render(fmt.Sprintf("%*s│", yLabelWidth, label))+trace.Render(sb.String()))
	}

	left := fmt.Sprintf("%.1fs", lo)
	right := fmt.Sprintf("%.1fs", hi)
	gap := max(0, plotW-len(left)-len(right))
	lines = append(lines, StyleAxis.Render(strings.Repeat(" ", yLabelWidth)+"└"+left+strings.Repeat(" ", gap)+right))
	return strings.Join(lines, "\n")
}

func formatAxis(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if len(s) > yLabelWidth {
		s = fmt.Sprintf("%.1e", v)
	}
	return s
}

// renderSparkline is the fallback for panels too small for a full chart.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []rune("▁▂▃▄▅▆▇█")

	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng <= 0 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
