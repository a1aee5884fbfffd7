// Package trim maps positions on a bounded film strip to media time and keeps
// a pair of trim handles and a playhead consistent while they are dragged.
package trim

import (
	"fmt"
	"math"
)

// DefaultTimescale is used when a media source does not report its own.
const DefaultTimescale int32 = 600

// OvershootTolerance is the largest normalized time accepted without a
// warning. Positions derived from rounded pixels can land slightly past the
// end of the track; anything up to this ratio is clamped silently.
const OvershootTolerance = 1.05

// TimeValue is a media timestamp expressed as ticks of a timescale.
type TimeValue struct {
	Ticks     int64
	Timescale int32
}

// NewTimeValue converts seconds into a TimeValue of the given timescale.
func NewTimeValue(seconds float64, timescale int32) TimeValue {
	if timescale <= 0 {
		timescale = DefaultTimescale
	}
	return TimeValue{
		Ticks:     int64(math.Round(seconds * float64(timescale))),
		Timescale: timescale,
	}
}

// Seconds returns the timestamp in seconds. A zero timescale yields 0.
func (t TimeValue) Seconds() float64 {
	if t.Timescale == 0 {
		return 0
	}
	return float64(t.Ticks) / float64(t.Timescale)
}

// ConvertScale re-expresses t in another timescale, rounding half away from zero.
func (t TimeValue) ConvertScale(timescale int32) TimeValue {
	if timescale == t.Timescale || timescale <= 0 {
		return t
	}
	return NewTimeValue(t.Seconds(), timescale)
}

// Compare returns -1, 0 or +1 comparing t with other in seconds.
func (t TimeValue) Compare(other TimeValue) int {
	a, b := t.Seconds(), other.Seconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than other.
func (t TimeValue) Before(other TimeValue) bool {
	return t.Compare(other) < 0
}

// String formats the value as seconds with millisecond precision.
func (t TimeValue) String() string {
	return fmt.Sprintf("%.3fs", t.Seconds())
}

// Track is the horizontal pixel space that represents the whole asset.
type Track struct {
	WidthPixels   float64
	DurationTicks int64
	Timescale     int32
}

// DurationSeconds returns the asset duration in seconds.
func (tr Track) DurationSeconds() float64 {
	if tr.Timescale <= 0 {
		return 0
	}
	return float64(tr.DurationTicks) / float64(tr.Timescale)
}

// Duration returns the asset duration as a TimeValue.
func (tr Track) Duration() TimeValue {
	return TimeValue{Ticks: tr.DurationTicks, Timescale: tr.Timescale}
}

// Validate checks that the track can be used for mapping.
func (tr Track) Validate() error {
	switch {
	case tr.WidthPixels <= 0 || math.IsNaN(tr.WidthPixels) || math.IsInf(tr.WidthPixels, 0):
		return &ConfigurationError{Field: "track.width", Reason: fmt.Sprintf("must be positive, got %v", tr.WidthPixels)}
	case tr.Timescale <= 0:
		return &ConfigurationError{Field: "track.timescale", Reason: fmt.Sprintf("must be positive, got %d", tr.Timescale)}
	case tr.DurationTicks <= 0:
		return &ConfigurationError{Field: "track.duration", Reason: "asset has no duration"}
	}
	return nil
}

// PositionToTime converts a pixel offset on the track into media time.
// Out-of-range positions are clamped to the start or end of the asset.
func PositionToTime(position float64, track Track) TimeValue {
	if track.WidthPixels <= 0 {
		return TimeValue{Timescale: track.Timescale}
	}
	ratio := clamp(position/track.WidthPixels, 0, 1)
	return TimeValue{
		Ticks:     int64(math.Round(ratio * float64(track.DurationTicks))),
		Timescale: track.Timescale,
	}
}

// NormalizedTime returns t as a fraction of the track duration without
// clamping. A degenerate track yields 0.
func NormalizedTime(t TimeValue, track Track) float64 {
	duration := track.DurationSeconds()
	if duration <= 0 {
		return 0
	}
	return t.Seconds() / duration
}

// TimeToPosition converts media time into a pixel offset on the track. The
// ratio is computed in seconds so that mismatched timescales still agree.
func TimeToPosition(t TimeValue, track Track) float64 {
	return clamp(NormalizedTime(t, track), 0, 1) * track.WidthPixels
}

// DistanceForDuration returns how many pixels a span of seconds occupies.
func DistanceForDuration(seconds float64, track Track) float64 {
	duration := track.DurationSeconds()
	if duration <= 0 {
		return 0
	}
	return seconds / duration * track.WidthPixels
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
