package ui

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// NewProgressWriter builds the page-write bar: page count only, no timing.
func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetAutoStop(true)
	writer.SetTrackerLength(24)
	writer.SetTrackerPosition(progress.PositionRight)
	writer.SetUpdateFrequency(50 * time.Millisecond)
	writer.SetStyle(progress.StyleCircle)

	visibility := &writer.Style().Visibility
	visibility.ETA = false
	visibility.Speed = false
	visibility.Time = false
	visibility.Percentage = false
	visibility.Value = true

	return writer
}
