package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the sensor panels on the left, the side panels on the
// right, with the menu bar on top and the status bar on bottom.
func ComposeLayout(menuBar string, charts []string, side []string, statusBar string) string {
	left := lipgloss.JoinVertical(lipgloss.Left, charts...)
	right := lipgloss.JoinVertical(lipgloss.Left, side...)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
