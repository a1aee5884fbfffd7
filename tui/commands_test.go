package tui

import (
	"testing"

	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui/components"
)

func testWindow(start, end float64) trim.Window {
	return trim.Window{Start: sec(start), End: sec(end)}
}

// typeCommand enters line on the command line and runs it.
func typeCommand(m *Model, line string) {
	m.Update(key(":"))
	for _, r := range line {
		m.Update(key(string(r)))
	}
	m.Update(key("enter"))
}

func TestCommandSetsWindow(t *testing.T) {
	m, player := newTestModel(t, Deps{})

	typeCommand(m, "in 2")
	typeCommand(m, "out 0:05")

	w := m.session.CurrentWindow()
	if w.Start != sec(2) || w.End != sec(5) {
		t.Fatalf("window = %v-%v, want 2s-5s", w.Start, w.End)
	}
	if m.isError {
		t.Errorf("unexpected error message %q", m.message)
	}
	if last := player.seeks[len(player.seeks)-1]; last != "2.0" {
		t.Errorf("last seek = %s, want a rewind to 2.0", last)
	}
	if m.cmdline.Active {
		t.Error("command line still open after enter")
	}
}

func TestCommandRejectsWindowOutsideBand(t *testing.T) {
	m, _ := newTestModel(t, Deps{})

	tests := []struct {
		name string
		line string
	}{
		{"too long", "out 9"},
		{"too short", "len 1"},
		{"past end", "in 8"},
		{"reversed", "out 0"},
		{"bad time", "in 1:99"},
		{"missing time", "go"},
		{"unknown", "frobnicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typeCommand(m, tt.line)
			if !m.isError {
				t.Errorf("%q: message = %q, want an error", tt.line, m.message)
			}
			w := m.session.CurrentWindow()
			if w.Start != sec(0) || w.End != sec(6) {
				t.Errorf("%q changed the window to %v-%v", tt.line, w.Start, w.End)
			}
		})
	}
}

func TestCommandLength(t *testing.T) {
	m, _ := newTestModel(t, Deps{Initial: testWindow(1, 4)})

	typeCommand(m, "len 2.5")
	w := m.session.CurrentWindow()
	if w.Start != sec(1) || w.End != sec(3.5) {
		t.Errorf("window = %v-%v, want 1s-3.5s", w.Start, w.End)
	}
}

func TestCommandSeek(t *testing.T) {
	m, player := newTestModel(t, Deps{Initial: testWindow(1, 4)})

	typeCommand(m, "go 2.5")
	if got := m.session.PlayheadTime(); got != sec(2.5) {
		t.Errorf("playhead = %v, want 2.5s", got)
	}
	if player.pos != 2.5 {
		t.Errorf("player at %v, want 2.5", player.pos)
	}

	typeCommand(m, "go 9")
	if got := m.session.PlayheadTime(); got != sec(4) {
		t.Errorf("playhead = %v, want clamped to 4s", got)
	}
}

func TestCommandQuit(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m.Update(key("]"))

	typeCommand(m, "q")
	if m.quitting || !m.isError {
		t.Fatalf("quit with an unsaved window: quitting=%v message=%q", m.quitting, m.message)
	}

	typeCommand(m, "q!")
	if !m.quitting {
		t.Error(":q! did not quit")
	}
}

func TestCommandLineModeAndEscape(t *testing.T) {
	m, _ := newTestModel(t, Deps{})

	m.Update(key(":"))
	if m.mode() != components.ModeCommand {
		t.Fatalf("mode = %v, want command", m.mode())
	}
	m.Update(key("i"))
	m.Update(key("esc"))
	if m.cmdline.Active || m.cmdline.Input != "" {
		t.Errorf("esc left the command line at %+v", m.cmdline)
	}
	if m.mode() != components.ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode())
	}
}
