package tui

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/config"
	"github.com/user/trimstrip-cli/db"
	"github.com/user/trimstrip-cli/media"
	"github.com/user/trimstrip-cli/thumbs"
	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui/components"
)

type fakePlayer struct {
	pos    float64
	paused bool
	seeks  []string
}

func (p *fakePlayer) GetTimePos() (float64, error) { return p.pos, nil }
func (p *fakePlayer) GetPaused() (bool, error)     { return p.paused, nil }

func (p *fakePlayer) SetPaused(paused bool) error {
	p.paused = paused
	return nil
}

func (p *fakePlayer) Seek(seconds float64, exact bool) error {
	p.pos = seconds
	p.seeks = append(p.seeks, fmt.Sprintf("%.1f", seconds))
	return nil
}

var tenSecondAsset = &media.Asset{
	Path:          "clip.mp4",
	DurationTicks: 6000,
	Timescale:     600,
	Width:         1920,
	Height:        1080,
}

func sec(s float64) trim.TimeValue {
	return trim.NewTimeValue(s, 600)
}

// newTestModel returns a model laid out on a 100 column strip.
func newTestModel(t *testing.T, d Deps) (*Model, *fakePlayer) {
	t.Helper()
	player := &fakePlayer{paused: true}
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Asset == nil {
		d.Asset = tenSecondAsset
	}
	d.Player = player
	d.Logger = zerolog.Nop()

	m := NewModel(d)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 104, Height: 30})
	if m.err != nil {
		t.Fatalf("layout: %v", m.err)
	}
	return m, player
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLayoutInitializesSession(t *testing.T) {
	m, _ := newTestModel(t, Deps{})

	if got := m.session.Track().WidthPixels; got != 100 {
		t.Fatalf("track width = %v, want 100", got)
	}
	w := m.session.CurrentWindow()
	if w.Start != sec(0) || w.End != sec(6) {
		t.Errorf("window = %v-%v, want the 6s default", w.Start, w.End)
	}
	if p := m.session.Positions(); p.Left != 0 || p.Right != 60 {
		t.Errorf("positions = %+v", p)
	}
}

func TestResizeKeepsTimes(t *testing.T) {
	m, _ := newTestModel(t, Deps{Initial: trim.Window{Start: sec(2), End: sec(5)}})

	m.Update(tea.WindowSizeMsg{Width: 204, Height: 30})
	if p := m.session.Positions(); p.Left != 40 || p.Right != 100 {
		t.Errorf("positions after resize = %+v, want 40/100", p)
	}
	w := m.session.CurrentWindow()
	if w.Start != sec(2) || w.End != sec(5) {
		t.Errorf("window = %v-%v, want 2s-5s", w.Start, w.End)
	}
}

func TestHandleKeysNudge(t *testing.T) {
	m, player := newTestModel(t, Deps{Initial: trim.Window{Start: sec(2), End: sec(5)}})

	m.Update(key("]"))
	if w := m.session.CurrentWindow(); w.Start != sec(2.1) {
		t.Errorf("start = %v, want 2.1s", w.Start)
	}
	m.Update(key("}"))
	if w := m.session.CurrentWindow(); w.End != sec(5.1) {
		t.Errorf("end = %v, want 5.1s", w.End)
	}
	if len(player.seeks) == 0 || !player.paused {
		t.Errorf("nudges should pause and seek the player, seeks = %v", player.seeks)
	}
}

func TestPlayheadKeysStayInWindow(t *testing.T) {
	m, _ := newTestModel(t, Deps{Initial: trim.Window{Start: sec(2), End: sec(5)}})

	m.Update(key("h"))
	if got := m.session.PlayheadTime(); got != sec(2) {
		t.Errorf("playhead = %v, want clamped to 2s", got)
	}
	m.Update(key("L"))
	if got := m.session.PlayheadTime(); got != sec(2.5) {
		t.Errorf("playhead = %v, want 2.5s", got)
	}
}

func TestMouseDragMovesHandle(t *testing.T) {
	m, _ := newTestModel(t, Deps{Initial: trim.Window{Start: sec(2), End: sec(5)}})

	m.apply(m.drag.Press(trim.RightHandle, 50))
	m.apply(m.drag.Motion(45))
	if !m.session.IsDragging() {
		t.Fatal("session should report a drag in progress")
	}
	m.Update(key("esc"))
	if m.session.IsDragging() || m.drag.Active() {
		t.Fatal("esc should cancel the drag")
	}
	if w := m.session.CurrentWindow(); w.End != sec(4.5) {
		t.Errorf("end = %v, want 4.5s kept after cancel", w.End)
	}
}

func TestBlurCancelsDrag(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m.apply(m.drag.Press(trim.Playhead, 10))
	m.Update(tea.BlurMsg{})
	if m.drag.Active() || m.session.IsScrubbing() {
		t.Error("focus loss should end the scrub")
	}
}

func TestSpaceTogglesPlayback(t *testing.T) {
	m, player := newTestModel(t, Deps{})
	m.Update(key(" "))
	if player.paused || !m.ctrl.Playing() {
		t.Error("space should start playback")
	}
	m.Update(key(" "))
	if !player.paused {
		t.Error("second space should pause")
	}
}

func TestSaveAndApplyTrim(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	video, err := db.EnsureVideo(store, tenSecondAsset.Path, tenSecondAsset.Duration())
	if err != nil {
		t.Fatalf("EnsureVideo: %v", err)
	}

	m, _ := newTestModel(t, Deps{DB: store, Video: video, Initial: trim.Window{Start: sec(2), End: sec(5)}})
	if m.dirty() {
		t.Fatal("freshly opened window should not be dirty")
	}
	m.Update(key("]"))
	if !m.dirty() {
		t.Fatal("moved window should be dirty")
	}

	m.saveTrim("  intro ")
	if m.dirty() {
		t.Error("saved window should not be dirty")
	}
	if len(m.trims.Items) != 1 || m.trims.Items[0].Label != "intro" {
		t.Fatalf("trims = %+v", m.trims.Items)
	}

	m.Update(key("}"))
	m.Update(key("}"))
	m.Update(key("enter"))
	w := m.session.CurrentWindow()
	if w.Start != sec(2.1) || w.End != sec(5) {
		t.Errorf("applied window = %v-%v, want 2.1s-5s", w.Start, w.End)
	}

	m.Update(key("x"))
	if len(m.trims.Items) != 0 {
		t.Errorf("trims after delete = %+v", m.trims.Items)
	}
}

func TestQuitAsksWhenDirty(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	video, err := db.EnsureVideo(store, tenSecondAsset.Path, tenSecondAsset.Duration())
	if err != nil {
		t.Fatal(err)
	}

	m, _ := newTestModel(t, Deps{DB: store, Video: video})
	m.Update(key("]"))
	m.Update(key("q"))
	if m.form == nil || m.formKind != formQuit {
		t.Fatal("q with unsaved changes should ask first")
	}
	if m.quitting {
		t.Error("model quit without confirmation")
	}
}

func TestQuitWhenClean(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	_, cmd := m.Update(key("q"))
	if !m.quitting || cmd == nil {
		t.Error("q should quit straight away without a database")
	}
}

func TestViewRendersPanels(t *testing.T) {
	m, _ := newTestModel(t, Deps{Initial: trim.Window{Start: sec(2), End: sec(5)}})
	view := m.View()
	for _, want := range []string{"Trim", "Window", "Saved trims", "0:02.000", "0:05.000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(m.View(), "Terminal too narrow") {
		t.Error("narrow terminal should show a warning")
	}
}

func TestStripRequest(t *testing.T) {
	req := StripRequest(tenSecondAsset, 100, 2)
	// 16:9 at 4 samples high is about 7.1 columns per still
	if req.Count != 14 {
		t.Errorf("count = %d, want 14", req.Count)
	}
	if req.Cells.Width != 8 || req.Cells.Height != 4 {
		t.Errorf("cells = %+v, want 8x4", req.Cells)
	}
	if req.Size.Height != thumbPixelHeight {
		t.Errorf("size = %+v", req.Size)
	}

	unknown := &media.Asset{Path: "x", DurationTicks: 600, Timescale: 600}
	if got := StripRequest(unknown, 100, 2); got.Count != 14 {
		t.Errorf("count without natural size = %d, want the 16:9 fallback", got.Count)
	}
}

var blankStill = thumbs.ExtractorFunc(func(ctx context.Context, path string, at trim.TimeValue, size thumbs.Size) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 16, 9)), nil
})

func TestResizeCommandsOutOfOrderKeepLatestStrip(t *testing.T) {
	m, _ := newTestModel(t, Deps{Extractor: blankStill})

	_, narrow := m.Update(tea.WindowSizeMsg{Width: 64, Height: 30})
	_, wide := m.Update(tea.WindowSizeMsg{Width: 204, Height: 30})
	if narrow == nil || wide == nil {
		t.Fatal("resize did not schedule thumbnail generation")
	}

	// Bubbletea may run the two commands in either order.
	if msg, ok := wide().(regenMsg); !ok || msg.generation != m.gen.Generation() {
		t.Fatalf("wide strip did not start as the latest generation: %#v", msg)
	}
	if msg := narrow(); msg != nil {
		t.Fatalf("superseded narrow strip started: %#v", msg)
	}

	want := StripRequest(tenSecondAsset, components.StripWidth(204), m.cfg.Thumbnails.Height).Count
	if len(m.frames) != want {
		t.Fatalf("strip holds %d slots, want %d", len(m.frames), want)
	}
	for delivered := 0; delivered < want; delivered++ {
		select {
		case f := <-m.frameCh:
			if f.Generation != m.gen.Generation() || f.Count != want {
				t.Fatalf("stale frame %d of %d from generation %d", f.Index, f.Count, f.Generation)
			}
			m.Update(frameMsg(f))
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d frames", delivered, want)
		}
	}
	for i, img := range m.frames {
		if img == nil {
			t.Errorf("frame %d missing", i)
		}
	}
}
