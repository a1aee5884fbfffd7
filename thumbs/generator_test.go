package thumbs

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/trim"
)

func solid(c color.RGBA, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var tenSecondStrip = Request{
	Path:     "clip.mp4",
	Duration: trim.TimeValue{Ticks: 6000, Timescale: 600},
	Count:    4,
}

func collect(t *testing.T, ch <-chan Frame, n int) []Frame {
	t.Helper()
	frames := make([]Frame, 0, n)
	for len(frames) < n {
		select {
		case f := <-ch:
			frames = append(frames, f)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d frames", len(frames), n)
		}
	}
	return frames
}

func TestGeneratorDeliversFramesInOrder(t *testing.T) {
	ex := ExtractorFunc(func(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
		return solid(color.RGBA{R: 200, A: 255}, 16, 9), nil
	})
	g := NewGenerator(ex, zerolog.Nop())
	out := make(chan Frame, 8)

	req := tenSecondStrip
	req.Cells = Size{Width: 4, Height: 2}
	id := g.Regenerate(context.Background(), req, out)

	frames := collect(t, out, 4)
	for i, f := range frames {
		if f.Generation != id || f.Index != i || f.Count != 4 {
			t.Errorf("frame %d = gen %d index %d count %d", i, f.Generation, f.Index, f.Count)
		}
		if f.Time.Ticks != int64(i)*1500 {
			t.Errorf("frame %d time = %v", i, f.Time)
		}
		if b := f.Image.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
			t.Errorf("frame %d reduced to %v, want 4x2", i, b)
		}
	}
	g.Cancel()
}

func TestGeneratorSupersedesPreviousGeneration(t *testing.T) {
	release := make(chan struct{})
	ex := ExtractorFunc(func(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
		if path == "slow.mp4" {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return solid(color.RGBA{A: 255}, 2, 2), nil
	})
	g := NewGenerator(ex, zerolog.Nop())
	out := make(chan Frame, 16)

	slow := tenSecondStrip
	slow.Path = "slow.mp4"
	first := g.Regenerate(context.Background(), slow, out)
	second := g.Regenerate(context.Background(), tenSecondStrip, out)
	close(release)

	if second != first+1 || g.Generation() != second {
		t.Fatalf("generations = %d then %d, current %d", first, second, g.Generation())
	}
	for _, f := range collect(t, out, 4) {
		if f.Generation != second {
			t.Errorf("received frame from generation %d, want only %d", f.Generation, second)
		}
	}
	g.Cancel()
	select {
	case f := <-out:
		t.Errorf("unexpected extra frame %+v", f)
	default:
	}
}

func TestGeneratorCancelStopsDelivery(t *testing.T) {
	started := make(chan struct{}, 1)
	ex := ExtractorFunc(func(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return nil, ctx.Err()
	})
	g := NewGenerator(ex, zerolog.Nop())
	out := make(chan Frame)

	g.Regenerate(context.Background(), tenSecondStrip, out)
	<-started
	g.Cancel()

	select {
	case f := <-out:
		t.Errorf("frame %+v delivered after Cancel", f)
	default:
	}
}

func TestGeneratorReportsExtractErrors(t *testing.T) {
	boom := errors.New("boom")
	ex := ExtractorFunc(func(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
		if at.Ticks == 1500 {
			return nil, boom
		}
		return solid(color.RGBA{A: 255}, 2, 2), nil
	})
	g := NewGenerator(ex, zerolog.Nop())
	out := make(chan Frame, 4)
	g.Regenerate(context.Background(), tenSecondStrip, out)

	frames := collect(t, out, 4)
	if !errors.Is(frames[1].Err, boom) || frames[1].Image != nil {
		t.Errorf("frame 1 = %+v, want extract error", frames[1])
	}
	if frames[2].Err != nil {
		t.Errorf("frame 2 error = %v, want nil", frames[2].Err)
	}
}

func TestGeneratorStartDropsSupersededReservation(t *testing.T) {
	ex := ExtractorFunc(func(ctx context.Context, path string, at trim.TimeValue, size Size) (image.Image, error) {
		return solid(color.RGBA{G: 200, A: 255}, 16, 9), nil
	})
	g := NewGenerator(ex, zerolog.Nop())
	defer g.Cancel()
	out := make(chan Frame, 8)

	older := g.Reserve()
	newer := g.Reserve()
	if g.Generation() != newer {
		t.Fatalf("generation = %d, want %d", g.Generation(), newer)
	}

	// The newer request starts first, then the older one arrives late.
	if !g.Start(context.Background(), newer, tenSecondStrip, out) {
		t.Fatal("latest reservation was not started")
	}
	if g.Start(context.Background(), older, tenSecondStrip, out) {
		t.Fatal("superseded reservation was started")
	}

	for _, f := range collect(t, out, tenSecondStrip.Count) {
		if f.Generation != newer {
			t.Errorf("frame %d from generation %d, want %d", f.Index, f.Generation, newer)
		}
	}
}

func TestGeneratorEmptyRequest(t *testing.T) {
	g := NewGenerator(ExtractorFunc(func(context.Context, string, trim.TimeValue, Size) (image.Image, error) {
		t.Fatal("extractor should not be called")
		return nil, nil
	}), zerolog.Nop())

	req := tenSecondStrip
	req.Count = 0
	if id := g.Regenerate(context.Background(), req, make(chan Frame)); id != 1 {
		t.Errorf("generation = %d, want 1", id)
	}
	g.Cancel()
}

func TestSwatch(t *testing.T) {
	got := Swatch(solid(color.RGBA{R: 10, G: 120, B: 240, A: 255}, 8, 8))
	if got != (color.RGBA{R: 10, G: 120, B: 240, A: 255}) {
		t.Errorf("Swatch() = %v", got)
	}
}

func TestExtractArgs(t *testing.T) {
	args := extractArgs("in.mp4", trim.TimeValue{Ticks: 900, Timescale: 600}, Size{Width: 33, Height: 0})
	want := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", "1.500000",
		"-i", "in.mp4",
		"-frames:v", "1",
		"-vf", "scale=32:-2",
		"-f", "image2pipe", "-vcodec", "png", "-",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}
