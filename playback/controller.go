// Package playback couples a trim session to a media player: gestures pause
// and seek the player, and the player's position drives the playhead.
package playback

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/mpv"
	"github.com/user/trimstrip-cli/trim"
)

// Player is the part of the mpv client the controller drives.
type Player interface {
	GetTimePos() (float64, error)
	GetPaused() (bool, error)
	SetPaused(paused bool) error
	Seek(seconds float64, exact bool) error
}

// Status is a snapshot of the player as seen by the last Tick.
type Status struct {
	Position trim.TimeValue
	Playing  bool
	// Looped is set when playback hit the window end and was rewound.
	Looped bool
}

// Controller implements trim.Listener. It is driven from the same loop that
// feeds the session, so it needs no locking.
type Controller struct {
	player  Player
	session *trim.Session
	log     zerolog.Logger
	// exact selects frame-accurate seeks; otherwise seeks land on keyframes.
	exact   bool
	playing bool
}

// NewController creates a controller. Register it on the session with
// Session.SetListener or trim.WithListener.
func NewController(player Player, session *trim.Session, exact bool, logger zerolog.Logger) *Controller {
	return &Controller{
		player:  player,
		session: session,
		exact:   exact,
		log:     logger.With().Str("component", "playback").Logger(),
	}
}

// Playing reports whether the controller believes the player is running.
func (c *Controller) Playing() bool {
	return c.playing
}

// SetHighPrecision switches between exact and keyframe seeks.
func (c *Controller) SetHighPrecision(exact bool) {
	c.exact = exact
}

// TogglePlay starts or pauses playback. Starting from the window end rewinds
// to the window start first.
func (c *Controller) TogglePlay() error {
	if c.playing {
		c.pause()
		return nil
	}
	w := c.session.CurrentWindow()
	if !c.session.PlayheadTime().Before(w.End) {
		if err := c.Rewind(); err != nil {
			return err
		}
	}
	if err := c.player.SetPaused(false); err != nil {
		return err
	}
	c.playing = true
	return nil
}

// Rewind seeks the player exactly to the window start and puts the playhead
// there. Playback state is left alone.
func (c *Controller) Rewind() error {
	if err := c.player.Seek(c.session.CurrentWindow().Start.Seconds(), true); err != nil {
		return err
	}
	c.session.ResetPlayhead()
	return nil
}

// SeekTo moves the playhead to t, clamped into the window, and seeks the
// player exactly there.
func (c *Controller) SeekTo(t trim.TimeValue) error {
	if !c.session.SeekPlayhead(t) {
		return nil
	}
	return c.player.Seek(c.session.PlayheadTime().Seconds(), true)
}

// Tick polls the player and moves the playhead to its position. When playback
// reaches the window end the player is rewound to the start and paused.
func (c *Controller) Tick() (Status, error) {
	st := Status{Position: c.session.PlayheadTime(), Playing: c.playing}
	if c.session.IsDragging() {
		return st, nil
	}

	if paused, err := c.player.GetPaused(); err == nil {
		c.playing = !paused
	}
	pos, err := c.player.GetTimePos()
	if errors.Is(err, mpv.ErrPropertyUnavailable) {
		return st, nil
	}
	if err != nil {
		return st, err
	}

	t := trim.NewTimeValue(pos, c.session.Track().Timescale)
	c.session.SeekPlayhead(t)

	w := c.session.CurrentWindow()
	if c.playing && !t.Before(w.End) {
		// Always exact here, or the playhead lags behind the rewind.
		if err := c.player.Seek(w.Start.Seconds(), true); err != nil {
			return st, err
		}
		c.session.SeekPlayhead(w.Start)
		c.pause()
		c.session.ResetPlayhead()
		st.Looped = true
	}

	st.Position = c.session.PlayheadTime()
	st.Playing = c.playing
	return st, nil
}

func (c *Controller) pause() {
	if err := c.player.SetPaused(true); err != nil {
		c.log.Warn().Err(err).Msg("pause failed")
	}
	c.playing = false
}

func (c *Controller) seek(t trim.TimeValue) {
	if err := c.player.Seek(t.Seconds(), c.exact); err != nil {
		c.log.Warn().Err(err).Stringer("time", t).Msg("seek failed")
	}
}

func (c *Controller) DragBegan(h trim.Handle, t trim.TimeValue) {
	c.log.Debug().Stringer("handle", h).Stringer("time", t).Msg("drag began")
	c.pause()
}

func (c *Controller) DragChanged(h trim.Handle, t trim.TimeValue) {
	c.seek(t)
}

func (c *Controller) DragEnded(start, end trim.TimeValue) {
	c.log.Debug().Stringer("start", start).Stringer("end", end).Msg("drag ended")
	c.seek(start)
}

func (c *Controller) ScrubBegan(t trim.TimeValue) {
	c.pause()
}

func (c *Controller) ScrubChanged(t trim.TimeValue) {
	c.seek(t)
}

func (c *Controller) ScrubEnded(t trim.TimeValue) {
	c.seek(t)
}
