package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"strconv"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/deps"
	"github.com/user/trimstrip-cli/trim"
)

// Extractor produces a still of the video at path at the given time.
type Extractor interface {
	Extract(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error)
}

// ExtractorFunc adapts a function to an Extractor.
type ExtractorFunc func(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
	return f(ctx, path, at, size)
}

// FFmpegExtractor grabs single frames by shelling out to ffmpeg. Size is in
// pixels; a zero dimension keeps the source size on that axis.
type FFmpegExtractor struct {
	logger     zerolog.Logger
	ffmpegPath string
}

// NewFFmpegExtractor resolves ffmpeg from PATH.
func NewFFmpegExtractor(logger zerolog.Logger) (*FFmpegExtractor, error) {
	path, err := deps.Locate(deps.Ffmpeg)
	if err != nil {
		return nil, err
	}
	return &FFmpegExtractor{
		logger:     logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath: path,
	}, nil
}

// Extract decodes one PNG frame from ffmpeg's stdout.
func (e *FFmpegExtractor) Extract(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
	args := extractArgs(path, at, size)
	e.logger.Debug().Strs("args", args).Msg("extracting frame")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg frame at %s: %w: %s", at, err, bytes.TrimSpace(stderr.Bytes()))
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode frame at %s: %w", at, err)
	}
	return img, nil
}

func extractArgs(path string, at trim.TimeValue, size Size) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		// Input seeking lands on the frame at or after the time.
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 6, 64),
		"-i", path,
		"-frames:v", "1",
	}
	if size.Width > 0 || size.Height > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", scaleDim(size.Width), scaleDim(size.Height)))
	}
	return append(args, "-f", "image2pipe", "-vcodec", "png", "-")
}

func scaleDim(v float64) int {
	if v <= 0 {
		return -2
	}
	// Even sizes keep yuv420 scalers happy.
	n := int(v+0.5) &^ 1
	if n < 2 {
		n = 2
	}
	return n
}

// Reduce scales img down to w x h cells with nfnt/resize.
func Reduce(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return resize.Resize(uint(w), uint(h), img, resize.Bilinear)
}

// Swatch reduces img to a single representative colour.
func Swatch(img image.Image) color.RGBA {
	small := resize.Resize(1, 1, img, resize.Bilinear)
	r, g, b, a := small.At(small.Bounds().Min.X, small.Bounds().Min.Y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
