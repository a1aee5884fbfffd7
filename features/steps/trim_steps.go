//go:build integration

package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"
	"github.com/user/trimstrip-cli/trim"
)

const (
	timescale        = 600
	pixelTolerance   = 1e-6
	secondsTolerance = 0.01
)

type trimContext struct {
	durationSeconds float64
	widthPixels     float64
	draggableWidth  float64
	minSeconds      float64
	maxSeconds      float64

	session  *trim.Session
	events   []trim.Event
	lastSeek bool
}

func (c *trimContext) track(width float64) trim.Track {
	return trim.Track{
		WidthPixels:   width,
		DurationTicks: int64(math.Round(c.durationSeconds * timescale)),
		Timescale:     timescale,
	}
}

func (c *trimContext) initialize(start, end trim.TimeValue) error {
	c.session = trim.NewSession(
		trim.WithDraggableWidth(c.draggableWidth),
		trim.WithListener(trim.ListenerFunc(func(e trim.Event) {
			c.events = append(c.events, e)
		})),
	)
	return c.session.Initialize(c.track(c.widthPixels), start, end, c.minSeconds, c.maxSeconds)
}

func (c *trimContext) requireSession() error {
	if c.session == nil {
		return fmt.Errorf("no trim window has been set up")
	}
	return nil
}

func parseHandle(name string) trim.Handle {
	if name == "left" {
		return trim.Left
	}
	return trim.Right
}

func (c *trimContext) aTrackOverAVideo(width, seconds float64) error {
	c.widthPixels = width
	c.durationSeconds = seconds
	return nil
}

func (c *trimContext) handlesPixelsWide(width float64) error {
	c.draggableWidth = width
	return nil
}

func (c *trimContext) aTrimBandOf(minSeconds, maxSeconds float64) error {
	c.minSeconds = minSeconds
	c.maxSeconds = maxSeconds
	return nil
}

func (c *trimContext) theWindowSpansPixels(left, right float64) error {
	tr := c.track(c.widthPixels)
	return c.initialize(trim.PositionToTime(left, tr), trim.PositionToTime(right, tr))
}

func (c *trimContext) theWindowSpansSeconds(start, end float64) error {
	return c.initialize(trim.NewTimeValue(start, timescale), trim.NewTimeValue(end, timescale))
}

func (c *trimContext) iDragTheHandleBy(name string, delta float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	h := parseHandle(name)
	c.events = nil
	c.session.OnHandleDrag(h, trim.Began, 0)
	c.session.OnHandleDrag(h, trim.Changed, delta)
	c.session.OnHandleDrag(h, trim.Ended, 0)
	return nil
}

func (c *trimContext) iDragTheHandleByAndCancel(name string, delta float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	h := parseHandle(name)
	c.events = nil
	c.session.OnHandleDrag(h, trim.Began, 0)
	c.session.OnHandleDrag(h, trim.Changed, delta)
	c.session.OnHandleDrag(h, trim.Cancelled, 0)
	return nil
}

func (c *trimContext) theHandleIsAtPixel(name string, want float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	pos := c.session.Positions()
	got := pos.Left
	if parseHandle(name) == trim.Right {
		got = pos.Right
	}
	if math.Abs(got-want) > pixelTolerance {
		return fmt.Errorf("%s handle at pixel %v, want %v", name, got, want)
	}
	return nil
}

func (c *trimContext) theHandleIsAtSeconds(name string, want float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	w := c.session.CurrentWindow()
	got := w.Start.Seconds()
	if parseHandle(name) == trim.Right {
		got = w.End.Seconds()
	}
	if math.Abs(got-want) > secondsTolerance {
		return fmt.Errorf("%s handle at %vs, want %vs", name, got, want)
	}
	return nil
}

func (c *trimContext) theHandleMapsBackTo(name string, want float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	pos := c.session.Positions()
	px := pos.Left
	if parseHandle(name) == trim.Right {
		px = pos.Right
	}
	got := trim.PositionToTime(px, c.session.Track()).Seconds()
	if math.Abs(got-want) > secondsTolerance {
		return fmt.Errorf("%s handle pixel %v maps to %vs, want %vs", name, px, got, want)
	}
	return nil
}

func (c *trimContext) theWindowLengthIsPixels(want float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if got := c.session.Positions().Distance(); math.Abs(got-want) > pixelTolerance {
		return fmt.Errorf("window length %v pixels, want %v", got, want)
	}
	return nil
}

func (c *trimContext) theEventsWere(table *godog.Table) error {
	var want []string
	for _, row := range table.Rows[1:] {
		want = append(want, row.Cells[0].Value+" "+row.Cells[1].Value)
	}
	var got []string
	for _, e := range c.events {
		switch e.Kind {
		case trim.DragBeganEvent, trim.DragChangedEvent:
			got = append(got, fmt.Sprintf("%s %s", e.Kind, e.Handle))
		default:
			got = append(got, fmt.Sprintf("%s -", e.Kind))
		}
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		return fmt.Errorf("events = %v, want %v", got, want)
	}
	return nil
}

func (c *trimContext) playbackSeeksTo(seconds float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	c.lastSeek = c.session.SeekPlayhead(trim.NewTimeValue(seconds, timescale))
	return nil
}

func (c *trimContext) iBeginDraggingThePlayhead() error {
	if err := c.requireSession(); err != nil {
		return err
	}
	c.session.OnPlayheadDrag(trim.Began, 0)
	return nil
}

func (c *trimContext) iMoveThePlayheadBy(delta float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	c.session.OnPlayheadDrag(trim.Changed, delta)
	return nil
}

func (c *trimContext) iStopDraggingThePlayhead() error {
	if err := c.requireSession(); err != nil {
		return err
	}
	c.session.OnPlayheadDrag(trim.Ended, 0)
	return nil
}

func (c *trimContext) theSeekIs(outcome string) error {
	want := outcome == "applied"
	if c.lastSeek != want {
		return fmt.Errorf("seek applied = %v, want %v", c.lastSeek, want)
	}
	return nil
}

func (c *trimContext) thePlayheadIsAtSeconds(want float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if got := c.session.PlayheadTime().Seconds(); math.Abs(got-want) > secondsTolerance {
		return fmt.Errorf("playhead at %vs, want %vs", got, want)
	}
	return nil
}

func (c *trimContext) theTrackIsResizedTo(width float64) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.session.Resize(c.track(width))
}

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	c := &trimContext{}

	ctx.Before(func(bc context.Context, sc *godog.Scenario) (context.Context, error) {
		*c = trimContext{}
		return bc, nil
	})

	const num = `(-?\d+(?:\.\d+)?)`

	ctx.Step(`^a `+num+` pixel track over a `+num+` second video$`, c.aTrackOverAVideo)
	ctx.Step(`^handles `+num+` pixels wide$`, c.handlesPixelsWide)
	ctx.Step(`^a trim band of `+num+` to `+num+` seconds$`, c.aTrimBandOf)
	ctx.Step(`^the window spans pixels `+num+` to `+num+`$`, c.theWindowSpansPixels)
	ctx.Step(`^the window spans `+num+` to `+num+` seconds$`, c.theWindowSpansSeconds)
	ctx.Step(`^I drag the (left|right) handle by `+num+` pixels$`, c.iDragTheHandleBy)
	ctx.Step(`^I drag the (left|right) handle by `+num+` pixels and cancel$`, c.iDragTheHandleByAndCancel)
	ctx.Step(`^the (left|right) handle is at pixel `+num+`$`, c.theHandleIsAtPixel)
	ctx.Step(`^the (left|right) handle is at `+num+` seconds$`, c.theHandleIsAtSeconds)
	ctx.Step(`^the (left|right) handle pixel maps back to `+num+` seconds$`, c.theHandleMapsBackTo)
	ctx.Step(`^the window length is `+num+` pixels$`, c.theWindowLengthIsPixels)
	ctx.Step(`^the reported events were:$`, c.theEventsWere)
	ctx.Step(`^playback seeks to `+num+` seconds$`, c.playbackSeeksTo)
	ctx.Step(`^I begin dragging the playhead$`, c.iBeginDraggingThePlayhead)
	ctx.Step(`^I move the playhead by `+num+` pixels$`, c.iMoveThePlayheadBy)
	ctx.Step(`^I stop dragging the playhead$`, c.iStopDraggingThePlayhead)
	ctx.Step(`^the seek is (applied|ignored)$`, c.theSeekIs)
	ctx.Step(`^the playhead is at `+num+` seconds$`, c.thePlayheadIsAtSeconds)
	ctx.Step(`^the track is resized to `+num+` pixels$`, c.theTrackIsResizedTo)
}
