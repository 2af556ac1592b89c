package ui

import (
	"fmt"
	"strings"

	"cooling-tower.klederson.com/internal/report"
	"cooling-tower.klederson.com/internal/sensor"
	"github.com/charmbracelet/lipgloss"
)

// SensorView is the live data behind one sensor panel.
type SensorView struct {
	Spec   sensor.Spec
	X, Y   []float64
	Lo, Hi float64 // Time axis range
	Latest float64
	HasAny bool
}

// RenderSensorPanel wraps a sensor's live chart with a titled border.
func RenderSensorPanel(width, height int, v SensorView) string {
	innerW := max(width-4, 10)
	innerH := max(height-2, 2)

	color := lipgloss.Color("#FFFFFF")
	if v.Spec.ID.Valid() {
		color = SensorColors[v.Spec.ID]
	}
	name := lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(v.Spec.ID.String()))
	value := StyleLabel.Render("--")
	if v.HasAny {
		value = StyleValue.Render(fmt.Sprintf("%.3f %s", v.Latest, v.Spec.ID.Unit()))
	}
	rate := StyleLabel.Render(fmt.Sprintf("fs %g Hz  Ts %s", v.Spec.RateHz, report.IntervalLabel(v.Spec.RateHz)))
	title := name + "  " + value
	gap := max(1, innerW-lipgloss.Width(title)-lipgloss.Width(rate))
	titleLine := title + strings.Repeat(" ", gap) + rate

	chart := RenderChart(innerW, innerH-1, v.X, v.Y, v.Lo, v.Hi, color)
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(titleLine + "\n" + chart)
}
