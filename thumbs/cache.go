package thumbs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/trim"
)

// CachedExtractor keeps extracted stills as PNG files in a directory and only
// calls the wrapped Extractor on a miss. Entries are keyed by the file's
// identity (path, size, modification time), the time and the requested size,
// so an edited file never serves stale stills.
type CachedExtractor struct {
	next   Extractor
	dir    string
	logger zerolog.Logger
}

// NewCachedExtractor wraps next with a cache in dir. An empty dir disables
// the cache and returns next unchanged.
func NewCachedExtractor(next Extractor, dir string, logger zerolog.Logger) (Extractor, error) {
	if dir == "" {
		return next, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating thumbnail cache: %w", err)
	}
	return &CachedExtractor{next: next, dir: dir, logger: logger}, nil
}

func (c *CachedExtractor) Extract(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
	key, err := cacheKey(path, at, size)
	if err != nil {
		return nil, err
	}
	file := filepath.Join(c.dir, key+".png")

	if img, err := readPNG(file); err == nil {
		return img, nil
	}

	img, err := c.next.Extract(ctx, path, at, size)
	if err != nil {
		return nil, err
	}
	if err := writePNG(file, img); err != nil {
		_ = os.Remove(file)
		c.logger.Warn().Err(err).Str("file", file).Msg("thumbnail cache write failed")
	}
	return img, nil
}

func cacheKey(path string, at trim.TimeValue, size Size) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%d/%d|%dx%d", abs, info.Size(), info.ModTime().UnixNano(),
		at.Ticks, at.Timescale, scaleDim(size.Width), scaleDim(size.Height))
	return hex.EncodeToString(h.Sum(nil))[:32], nil
}

func readPNG(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func writePNG(file string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), ".thumb-*")
	if err != nil {
		return err
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), file)
}
