package thumbs

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/trim"
)

// Request describes one strip to generate.
type Request struct {
	Path     string
	Duration trim.TimeValue
	Count    int
	// Size is passed to the Extractor for every still.
	Size Size
	// Cells, when non-zero, reduces each still to Cells.Width x Cells.Height
	// samples before delivery.
	Cells Size
}

// Frame is one delivered still. Image is nil when Err is set.
type Frame struct {
	Generation uint64
	Index      int
	Count      int
	Time       trim.TimeValue
	Image      image.Image
	Err        error
}

// Generator produces strip stills in the background. At most one generation
// runs at a time: starting a new one cancels the previous one and waits for it
// to finish, so stale frames are never delivered after fresh ones.
//
// Ids are handed out by Reserve, in request order. Start only runs the most
// recent reservation, so requests started out of order cannot let an older
// layout win.
type Generator struct {
	extractor Extractor
	logger    zerolog.Logger
	latest    atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGenerator creates a Generator backed by extractor.
func NewGenerator(extractor Extractor, logger zerolog.Logger) *Generator {
	return &Generator{
		extractor: extractor,
		logger:    logger.With().Str("component", "thumbs").Logger(),
	}
}

// Reserve claims the next generation id without blocking. Frames of every
// earlier generation are stale from this point on.
func (g *Generator) Reserve() uint64 {
	return g.latest.Add(1)
}

// Start cancels any running generation and runs req as generation id. It
// returns false without doing anything when id is no longer the latest
// reservation.
func (g *Generator) Start(ctx context.Context, id uint64, req Request, out chan<- Frame) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id != g.latest.Load() {
		g.logger.Debug().Uint64("generation", id).Msg("dropping superseded thumbnail request")
		return false
	}
	g.stopLocked()
	if id != g.latest.Load() {
		return false
	}

	times := FrameTimes(req.Duration, req.Count)
	if len(times) == 0 {
		return true
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	g.cancel = cancel
	g.done = done

	g.logger.Debug().Uint64("generation", id).Int("count", len(times)).Str("path", req.Path).Msg("generating thumbnails")
	go func() {
		defer close(done)
		defer cancel()
		g.run(runCtx, id, req, times, out)
	}()
	return true
}

// Regenerate reserves a generation and starts it. Frames are sent on out in
// order and never after the generation has been superseded. It returns the
// generation id stamped on every Frame.
func (g *Generator) Regenerate(ctx context.Context, req Request, out chan<- Frame) uint64 {
	id := g.Reserve()
	g.Start(ctx, id, req, out)
	return id
}

// Cancel stops the running generation, if any, and waits for it to exit.
func (g *Generator) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

// Generation returns the id of the most recent reservation.
func (g *Generator) Generation() uint64 {
	return g.latest.Load()
}

func (g *Generator) stopLocked() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
	g.cancel = nil
	g.done = nil
}

func (g *Generator) run(ctx context.Context, id uint64, req Request, times []trim.TimeValue, out chan<- Frame) {
	for i, at := range times {
		if g.latest.Load() != id {
			return
		}
		img, err := g.extractor.Extract(ctx, req.Path, at, req.Size)
		if ctx.Err() != nil {
			g.logger.Debug().Uint64("generation", id).Int("delivered", i).Msg("thumbnail generation cancelled")
			return
		}
		if err != nil {
			g.logger.Warn().Err(err).Uint64("generation", id).Int("index", i).Stringer("time", at).Msg("thumbnail failed")
		} else if req.Cells.Width > 0 && req.Cells.Height > 0 {
			img = Reduce(img, int(req.Cells.Width), int(req.Cells.Height))
		}
		select {
		case out <- Frame{Generation: id, Index: i, Count: len(times), Time: at, Image: img, Err: err}:
		case <-ctx.Done():
			return
		}
	}
}
