package app

import (
	"time"

	"cooling-tower.klederson.com/internal/analysis"
)

// StartMsg starts (or restarts) the simulation.
type StartMsg struct{}

// TickMsg advances the simulation by one step. Gen ties the tick to the
// Start call that scheduled it so ticks from an earlier run are dropped.
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// AnalysisMsg carries a finished analysis run.
type AnalysisMsg struct {
	Report     analysis.Report
	PublishErr error
}

// ExportMsg reports the outcome of writing a run to disk.
type ExportMsg struct {
	Files []string
	Err   error
}
