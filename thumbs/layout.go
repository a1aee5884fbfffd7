// Package thumbs lays out and produces the film strip shown under the trim
// handles: how many stills fit a strip width, at which times they are taken,
// and a cancellable background generator that extracts them.
package thumbs

import (
	"math"

	"github.com/user/trimstrip-cli/trim"
)

// Size is a width and height in strip units.
type Size struct {
	Width  float64
	Height float64
}

// ThumbnailSize scales a frame of natural size to the strip height, keeping
// its aspect ratio. Degenerate input yields a zero Size.
func ThumbnailSize(natural Size, height float64) Size {
	if natural.Width <= 0 || natural.Height <= 0 || height <= 0 {
		return Size{}
	}
	scale := height / natural.Height
	return Size{Width: natural.Width * scale, Height: height}
}

// Count is the number of thumbnails of thumbWidth that fill stripWidth,
// rounded half away from zero. The result depends only on its inputs, so a
// strip of unchanged width never regenerates.
func Count(stripWidth, thumbWidth float64) int {
	if thumbWidth <= 0 || stripWidth <= 0 {
		return 0
	}
	return int(math.Abs(math.Round(stripWidth / thumbWidth)))
}

// FrameTimes returns count equally spaced times from the start of the asset.
// The step is the integer tick duration divided by count, so every time lies
// on the asset's own timescale.
func FrameTimes(duration trim.TimeValue, count int) []trim.TimeValue {
	if count <= 0 || duration.Ticks <= 0 {
		return nil
	}
	step := duration.Ticks / int64(count)
	times := make([]trim.TimeValue, count)
	for i := range times {
		times[i] = trim.TimeValue{Ticks: int64(i) * step, Timescale: duration.Timescale}
	}
	return times
}
