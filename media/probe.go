package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/trimstrip-cli/deps"
	"github.com/user/trimstrip-cli/trim"
)

// ErrNoVideoStream is returned for files without a decodable video stream.
var ErrNoVideoStream = errors.New("media: no video stream")

// Asset is what the trimmer needs to know about a video file.
type Asset struct {
	Path          string
	DurationTicks int64
	Timescale     int32
	// Width and Height are the display size with rotation applied.
	Width     int
	Height    int
	FrameRate float64
	Codec     string
}

// Duration returns the asset length as a TimeValue.
func (a *Asset) Duration() trim.TimeValue {
	return trim.TimeValue{Ticks: a.DurationTicks, Timescale: a.Timescale}
}

// DurationSeconds returns the asset length in seconds.
func (a *Asset) DurationSeconds() float64 {
	return a.Duration().Seconds()
}

// Track lays the asset out on a strip of the given width.
func (a *Asset) Track(width float64) trim.Track {
	return trim.Track{WidthPixels: width, DurationTicks: a.DurationTicks, Timescale: a.Timescale}
}

// Probe runs ffprobe on path and extracts duration, timescale and frame size.
func Probe(ctx context.Context, path string) (*Asset, error) {
	if path == "" {
		return nil, fmt.Errorf("media: file path is required")
	}
	bin, err := deps.Locate(deps.Ffprobe)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0",
		path,
	}
	output, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("media: ffprobe %s: %w", path, err)
	}

	asset, err := ParseProbe(output)
	if err != nil {
		return nil, fmt.Errorf("media: %s: %w", path, err)
	}
	asset.Path = path
	return asset, nil
}

// probeResult matches the parts of ffprobe's JSON output we read.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType    string            `json:"codec_type"`
	CodecName    string            `json:"codec_name"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	RFrameRate   string            `json:"r_frame_rate"`
	TimeBase     string            `json:"time_base"`
	DurationTS   int64             `json:"duration_ts"`
	Duration     string            `json:"duration"`
	Tags         map[string]string `json:"tags"`
	SideDataList []struct {
		Rotation float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// ParseProbe builds an Asset from ffprobe JSON. The stream's own time base
// is used when it is 1/N; otherwise the duration in seconds is expressed at
// trim.DefaultTimescale.
func ParseProbe(data []byte) (*Asset, error) {
	var probe probeResult
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var video *probeStream
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == "video" {
			video = &probe.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, ErrNoVideoStream
	}

	asset := &Asset{
		Width:     video.Width,
		Height:    video.Height,
		FrameRate: ParseFrameRate(video.RFrameRate),
		Codec:     video.CodecName,
	}
	if quarterTurn(video) {
		asset.Width, asset.Height = asset.Height, asset.Width
	}

	if ts, ok := parseTimeBase(video.TimeBase); ok && video.DurationTS > 0 {
		asset.Timescale = ts
		asset.DurationTicks = video.DurationTS
		return asset, nil
	}

	seconds, err := strconv.ParseFloat(video.Duration, 64)
	if err != nil || seconds <= 0 {
		seconds, err = strconv.ParseFloat(probe.Format.Duration, 64)
	}
	if err != nil || seconds <= 0 || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("no usable duration (format %q)", probe.Format.Duration)
	}
	d := trim.NewTimeValue(seconds, trim.DefaultTimescale)
	asset.Timescale = d.Timescale
	asset.DurationTicks = d.Ticks
	return asset, nil
}

// ParseFrameRate turns an ffprobe rate such as "30000/1001" into frames per
// second. Malformed input yields 0.
func ParseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseTimeBase(tb string) (int32, bool) {
	num, den, ok := strings.Cut(tb, "/")
	if !ok || num != "1" {
		return 0, false
	}
	n, err := strconv.ParseInt(den, 10, 32)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int32(n), true
}

func quarterTurn(s *probeStream) bool {
	rotation := 0.0
	if r, ok := s.Tags["rotate"]; ok {
		rotation, _ = strconv.ParseFloat(r, 64)
	}
	for _, sd := range s.SideDataList {
		if sd.Rotation != 0 {
			rotation = sd.Rotation
		}
	}
	return int(math.Abs(rotation))%180 == 90
}
