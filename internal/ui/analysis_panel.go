package ui

import (
	"fmt"
	"strings"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/report"
	"github.com/charmbracelet/lipgloss"
)

// AnalysisLines formats a report for the scrollable analysis panel: a short
// per-sensor summary followed by the full s- and z-domain reports.
func AnalysisLines(r *analysis.Report) []string {
	if r == nil {
		return []string{StyleHelp.Render("No analysis yet. Press [U] to run one.")}
	}

	lines := []string{StyleLabel.Render(fmt.Sprintf("Run %d  (%d ms)", r.Run, r.Elapsed.Milliseconds()))}
	for _, s := range r.Sensors {
		name := fmt.Sprintf("%-4s", s.Spec.ID.Short())
		if s.Err != nil {
			lines = append(lines, StyleLabel.Render(name)+" "+StyleError.Render("ERR ")+StyleLabel.Render(s.Err.Error()))
			continue
		}
		row := fmt.Sprintf(" N=%-6d μ=%.3f σ=%.3f", s.Plan.Count, s.Summary.Mean, s.Summary.StdDev)
		if pk, ok := s.Spectrum.Peak(); ok {
			row += fmt.Sprintf(" peak %.3g Hz", pk.Frequency)
		}
		lines = append(lines, StyleLabel.Render(name)+StyleValue.Render(row))
	}

	st := r.Stability
	verdict := StyleOK.Render("STABLE")
	if !st.Stable {
		verdict = StyleError.Render("UNSTABLE")
	}
	lines = append(lines, "",
		StyleLabel.Render(fmt.Sprintf("s_p = %.4f rad/s  K_sys = %.4f  ", st.Pole, st.KSys))+verdict)
	if r.DiscreteErr != nil {
		lines = append(lines, StyleError.Render("z: "+r.DiscreteErr.Error()))
	} else {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("z_p = %.3g  z_z = %.3g  (T = %.2f s)",
			r.Discrete.ZPole, r.Discrete.ZZero, r.Discrete.SamplingInterval)))
	}

	lines = append(lines, "")
	lines = append(lines, strings.Split(strings.TrimRight(report.Laplace(st), "\n"), "\n")...)
	lines = append(lines, "")
	lines = append(lines, strings.Split(strings.TrimRight(report.ZDomain(r.Discrete, r.DiscreteErr), "\n"), "\n")...)
	return lines
}

// RenderAnalysisPanel shows lines starting at scroll, clipped to the panel.
func RenderAnalysisPanel(width, height int, lines []string, scroll int, busy bool) string {
	innerW := max(width-4, 10)
	innerH := max(height-2, 3)

	title := StylePanelTitle.Render("ANALYSIS")
	if busy {
		title += "  " + StyleStatusStopped.Render("running...")
	}
	out := []string{title, StyleAxis.Render(strings.Repeat("-", innerW))}

	room := innerH - len(out)
	scroll = min(max(scroll, 0), max(len(lines)-room, 0))
	end := min(scroll+room, len(lines))
	clip := lipgloss.NewStyle().MaxWidth(innerW)
	for _, l := range lines[scroll:end] {
		out = append(out, clip.Render(l))
	}

	for len(out) < innerH {
		out = append(out, "")
	}
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(strings.Join(out, "\n"))
}
