package ui

import (
	"cooling-tower.klederson.com/internal/sensor"
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette
var (
	ColorBright     = lipgloss.Color("#00D7FF")
	ColorNormal     = lipgloss.Color("#00AFD7")
	ColorMid        = lipgloss.Color("#5F87AF")
	ColorDim        = lipgloss.Color("#3A4A5A")
	ColorBar        = lipgloss.Color("#0A1A2A")
	ColorBorderNorm = lipgloss.Color("#2F5F7F")
	ColorBorderHot  = lipgloss.Color("#00D7FF")
	ColorOK         = lipgloss.Color("#5FD75F")
	ColorError      = lipgloss.Color("#FF3300")
	ColorWarning    = lipgloss.Color("#FFAA00")
)

// SensorColors gives every sensor trace its own color, indexed by sensor.ID.
var SensorColors = [sensor.Count]lipgloss.Color{
	lipgloss.Color("#FF5F5F"), // Temperature
	lipgloss.Color("#5FAFFF"), // Humidity
	lipgloss.Color("#5FD75F"), // Airflow
	lipgloss.Color("#D787FF"), // Vibration
	lipgloss.Color("#FFD75F"), // Dissolved oxygen
}

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorNormal)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorNormal).
			Padding(0, 1)

	StyleStatusRunning = lipgloss.NewStyle().
				Foreground(ColorOK).
				Bold(true)

	StyleStatusStopped = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderHot)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMid)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleAxis = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMid)

	StyleOK = lipgloss.NewStyle().
		Foreground(ColorOK)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Selected parameter row: dark text on the accent color.
	StyleCursorLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorBright).
			Bold(true)
)
