package ui

import (
	"fmt"
	"strings"

	"cooling-tower.klederson.com/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// RenderMenuBar renders the top menu bar. broker is empty when telemetry is
// off.
func RenderMenuBar(width int, running bool, broker string) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"S", "tart"},
		{"X", " stop"},
		{"U", "pdate"},
		{"E", "xport"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusStopped.Render("STOPPED")
	if running {
		status = StyleStatusRunning.Render("RUNNING")
	}

	mqtt := "off"
	if broker != "" {
		mqtt = broker
	}
	brokerInfo := StyleMenuLabel.Render("MQTT: " + mqtt)

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + brokerInfo + " "

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
