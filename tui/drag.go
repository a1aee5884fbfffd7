package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui/components"
)

// gesture is one phase event for a dragger, in strip columns.
type gesture struct {
	target trim.Dragger
	phase  trim.Phase
	delta  float64
}

// dragTracker turns mouse press, motion and release into gesture phases for
// a single dragger at a time.
type dragTracker struct {
	active bool
	target trim.Dragger
	lastX  int
}

// Active reports whether a drag is in progress.
func (d *dragTracker) Active() bool {
	return d.active
}

// Target returns the dragger being dragged. Only valid while Active.
func (d *dragTracker) Target() trim.Dragger {
	return d.target
}

// Press starts a drag of target at column x. A press while another drag is
// active ends that drag first.
func (d *dragTracker) Press(target trim.Dragger, x int) []gesture {
	var out []gesture
	if d.active {
		out = append(out, d.Release(x)...)
	}
	d.active = true
	d.target = target
	d.lastX = x
	return append(out, gesture{target: target, phase: trim.Began})
}

// Motion reports the column movement since the last event.
func (d *dragTracker) Motion(x int) []gesture {
	if !d.active || x == d.lastX {
		return nil
	}
	delta := x - d.lastX
	d.lastX = x
	return []gesture{{target: d.target, phase: trim.Changed, delta: float64(delta)}}
}

// Release applies any outstanding movement and ends the drag.
func (d *dragTracker) Release(x int) []gesture {
	if !d.active {
		return nil
	}
	out := d.Motion(x)
	d.active = false
	return append(out, gesture{target: d.target, phase: trim.Ended})
}

// Cancel ends the drag without applying further movement.
func (d *dragTracker) Cancel() []gesture {
	if !d.active {
		return nil
	}
	d.active = false
	return []gesture{{target: d.target, phase: trim.Cancelled}}
}

// nudge is the full gesture a key press stands for.
func nudge(target trim.Dragger, delta float64) []gesture {
	return []gesture{
		{target: target, phase: trim.Began},
		{target: target, phase: trim.Changed, delta: delta},
		{target: target, phase: trim.Ended},
	}
}

// hit is the result of hit-testing a mouse press.
type hit struct {
	target trim.Dragger
	ok     bool
	// seek is set when the press landed on the strip body away from the
	// handles: the playhead jumps to column before the scrub starts.
	seek   bool
	column int
}

// hitTest resolves a press against the zones marked by the strip. Handle
// cells inside the strip count as their handle.
func hitTest(zones *zone.Manager, msg tea.MouseMsg, pos trim.Positions, dw float64) hit {
	switch {
	case zones.Get(components.ZoneLeftGrip).InBounds(msg):
		return hit{target: trim.LeftHandle, ok: true}
	case zones.Get(components.ZoneRightGrip).InBounds(msg):
		return hit{target: trim.RightHandle, ok: true}
	case zones.Get(components.ZonePlayhead).InBounds(msg):
		return hit{target: trim.Playhead, ok: true}
	}

	x, _ := zones.Get(components.ZoneStrip).Pos(msg)
	if x < 0 {
		return hit{}
	}
	return hitColumn(x, pos, dw)
}

// hitColumn resolves a press on strip column x.
func hitColumn(x int, pos trim.Positions, dw float64) hit {
	c := float64(x) + 0.5
	switch {
	case c >= pos.Left && c <= pos.Left+dw:
		return hit{target: trim.LeftHandle, ok: true}
	case c <= pos.Right && c >= pos.Right-dw:
		return hit{target: trim.RightHandle, ok: true}
	}
	return hit{target: trim.Playhead, ok: true, seek: true, column: x}
}
