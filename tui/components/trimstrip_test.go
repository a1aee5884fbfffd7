package components

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/trim"
)

func TestTrimStripGeometry(t *testing.T) {
	state := TrimStripState{
		Frames:         []image.Image{image.NewUniform(color.White), nil},
		Rows:           3,
		Left:           10,
		Right:          40,
		Playhead:       20,
		DraggableWidth: 1,
	}
	out := TrimStrip(state, 64, nil)
	lines := strings.Split(out, "\n")

	if len(lines) != state.Rows+StripChrome {
		t.Fatalf("got %d lines, want %d", len(lines), state.Rows+StripChrome)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 64 {
			t.Errorf("line %d width = %d, want 64", i, w)
		}
	}

	grips := []rune(stripText(lines[1]))
	if grips[10] != '▼' || grips[39] != '▼' {
		t.Errorf("grip row = %q, want grips at 10 and 39", string(grips))
	}
	head := []rune(stripText(lines[len(lines)-2]))
	if head[20] != '▲' {
		t.Errorf("playhead row = %q, want marker at 20", string(head))
	}
}

// stripText returns the strip columns of a boxed line without styling.
func stripText(line string) string {
	runes := []rune(stripANSI(line))
	return string(runes[StripInset : len(runes)-StripInset])
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestTrimStripMarksZones(t *testing.T) {
	var ids []string
	mark := func(id, s string) string {
		ids = append(ids, id)
		return s
	}
	TrimStrip(TrimStripState{Rows: 1, Left: 0, Right: 30, DraggableWidth: 1}, 40, mark)

	want := map[string]bool{ZoneLeftGrip: true, ZoneRightGrip: true, ZoneStrip: true, ZonePlayhead: true}
	for _, id := range ids {
		delete(want, id)
	}
	if len(want) != 0 {
		t.Errorf("zones not marked: %v", want)
	}
}

func TestTrimStripDraggingPlayhead(t *testing.T) {
	state := TrimStripState{Rows: 1, Left: 0, Right: 30, Playhead: 29.9, DraggableWidth: 1, Dragging: true, Active: trim.Playhead}
	lines := strings.Split(TrimStrip(state, 44, nil), "\n")
	head := []rune(stripText(lines[len(lines)-2]))
	if head[29] != '▲' {
		t.Errorf("playhead row = %q, want marker at 29", string(head))
	}
}

func TestTrimStripTooNarrow(t *testing.T) {
	if got := TrimStrip(TrimStripState{Rows: 1}, 4, nil); got != "" {
		t.Errorf("TrimStrip(width 4) = %q, want empty", got)
	}
}

func TestHandleColumns(t *testing.T) {
	tests := []struct {
		left, right float64
		dw, cols    int
		wantL       int
		wantR       int
	}{
		{left: 0, right: 100, dw: 1, cols: 100, wantL: 0, wantR: 99},
		{left: 10.4, right: 40.2, dw: 1, cols: 100, wantL: 10, wantR: 40},
		{left: 10, right: 11, dw: 1, cols: 100, wantL: 10, wantR: 10},
		{left: 10, right: 11, dw: 2, cols: 100, wantL: 10, wantR: 11},
	}
	for _, tt := range tests {
		l, r := handleColumns(tt.left, tt.right, tt.dw, tt.cols)
		if l != tt.wantL || r != tt.wantR {
			t.Errorf("handleColumns(%v, %v) = %d, %d; want %d, %d", tt.left, tt.right, l, r, tt.wantL, tt.wantR)
		}
	}
}

func TestSampleOutsideFrames(t *testing.T) {
	s := TrimStripState{}
	if got := s.sample(0, 0, 10, 2); got != placeholder {
		t.Errorf("sample with no frames = %v, want placeholder", got)
	}
	red := image.NewUniform(color.RGBA{R: 255, A: 255})
	s.Frames = []image.Image{red}
	if got := s.sample(9, 1, 10, 2); got.R != 255 {
		t.Errorf("sample = %v, want red", got)
	}
}

func TestTrimsListSelection(t *testing.T) {
	var s TrimsListState
	if s.SelectedItem() != nil {
		t.Fatal("empty list has no selection")
	}
	s.SetItems([]TrimItem{{ID: 1}, {ID: 2}, {ID: 3}})
	s.MoveDown()
	s.MoveDown()
	s.MoveDown()
	if s.SelectedItem().ID != 3 {
		t.Errorf("selected = %d, want 3", s.SelectedItem().ID)
	}
	s.SetItems(s.Items[:1])
	if s.SelectedItem().ID != 1 {
		t.Errorf("selection not clamped after shrink")
	}

	lines := TrimsList(TrimsListState{Items: []TrimItem{{ID: 1}, {ID: 2}, {ID: 3}}, Selected: 2}, 2)
	if len(lines) != 2 || !strings.Contains(lines[1], "#3") {
		t.Errorf("lines = %q, want the selection scrolled into view", lines)
	}
}

func TestStatusBarFitsWidth(t *testing.T) {
	out := StatusBar(StatusBarState{Start: 2, End: 5.5, Duration: 10, MinSeconds: 2, MaxSeconds: 6.5, Dirty: true}, 100)
	if w := lipgloss.Width(out); w != 100 {
		t.Errorf("width = %d, want 100", w)
	}
	for _, want := range []string{"3.500s*", "2s-6.5s", "key"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar %q is missing %q", out, want)
		}
	}
}
