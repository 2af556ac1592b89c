package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar shows about the running session.
type StatusInfo struct {
	Running      bool
	Time         float64 // Simulated seconds
	Ticks        int64
	Samples      int64
	Runs         int64
	Failures     int64
	MeanAnalysis time.Duration
	Message      string // Last notice, e.g. an export result
	Error        bool   // Message is an error
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusInfo) string {
	status := StyleStatusStopped.Render("[STOPPED]")
	if s.Running {
		status = StyleStatusRunning.Render("[RUNNING]")
	}

	info := fmt.Sprintf(" t=%.2fs  Ticks: %d  Samples: %d  Analyses: %d  Failed: %d  Avg: %s",
		s.Time, s.Ticks, s.Samples, s.Runs, s.Failures, s.MeanAnalysis.Round(time.Millisecond))

	content := status + StyleStatusBar.Render(info)
	if s.Message != "" {
		sty := StyleOK
		if s.Error {
			sty = StyleError
		}
		content += "  " + sty.Render(s.Message)
	}

	gap := max(0, width-lipgloss.Width(content))
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
