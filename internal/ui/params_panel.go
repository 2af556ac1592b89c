package ui

import (
	"fmt"
	"strings"

	"cooling-tower.klederson.com/internal/sensor"
)

// RenderParamsPanel lists the process parameters with the selected one
// highlighted.
func RenderParamsPanel(width, height int, p sensor.Params, selected sensor.Field) string {
	innerW := max(width-4, 10)

	lines := []string{
		StylePanelTitle.Render("PROCESS PARAMETERS"),
		StyleAxis.Render(strings.Repeat("-", innerW)),
	}
	for f := sensor.Field(0); int(f) < sensor.FieldCount; f++ {
		info := f.Info()
		row := fmt.Sprintf(" %-16s %7.2f %-4s", info.Label, p.Get(f), info.Unit)
		bounds := fmt.Sprintf("[%g, %g]", info.Min, info.Max)
		gap := max(1, innerW-len([]rune(row))-len(bounds))
		if f == selected {
			lines = append(lines, StyleCursorLine.Render(row+strings.Repeat(" ", gap)+bounds))
			continue
		}
		lines = append(lines, StyleLabel.Render(row)+strings.Repeat(" ", gap)+StyleAxis.Render(bounds))
	}
	lines = append(lines, "", StyleHelp.Render(" [↑/↓] select  [+/-] adjust"))

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}
