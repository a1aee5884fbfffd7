package db

import (
	"time"

	"github.com/user/trimstrip-cli/trim"
)

// Video represents a row in the videos table.
type Video struct {
	ID            int64
	Path          string
	Filename      string
	Extension     string
	DurationTicks int64
	Timescale     int32
	// StopTime is the playhead position in seconds when the video was last closed.
	StopTime float64
}

// Duration returns the stored duration as a TimeValue.
func (v Video) Duration() trim.TimeValue {
	return trim.TimeValue{Ticks: v.DurationTicks, Timescale: v.Timescale}
}

// Trim represents a row in the trims table.
type Trim struct {
	ID         int64
	VideoID    int64
	StartTicks int64
	EndTicks   int64
	Timescale  int32
	Label      string
	CreatedAt  time.Time
}

// Window returns the trim as start and end times.
func (t Trim) Window() trim.Window {
	return trim.Window{
		Start: trim.TimeValue{Ticks: t.StartTicks, Timescale: t.Timescale},
		End:   trim.TimeValue{Ticks: t.EndTicks, Timescale: t.Timescale},
	}
}
