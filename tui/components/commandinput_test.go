package components

import "testing"

func TestCommandInputEditing(t *testing.T) {
	var s CommandInputState
	s.Open()
	for _, r := range "in 12" {
		s.InsertChar(r)
	}
	s.MoveCursorLeft()
	s.MoveCursorLeft()
	s.InsertChar('0')
	if s.Input != "in 012" || s.CursorPos != 4 {
		t.Fatalf("input = %q cursor %d", s.Input, s.CursorPos)
	}
	s.Backspace()
	s.Delete()
	if s.Input != "in 2" {
		t.Errorf("input after backspace/delete = %q", s.Input)
	}

	if got := s.GetCommand(); got != "in 2" {
		t.Errorf("GetCommand = %q", got)
	}
	if s.Active || s.Input != "" {
		t.Errorf("state after GetCommand = %+v", s)
	}
}

func TestCommandInputBackspaceOnEmptyCloses(t *testing.T) {
	var s CommandInputState
	s.Open()
	s.Backspace()
	if s.Active {
		t.Error("backspace on an empty line should close the command line")
	}
}

func TestCommandInputHistory(t *testing.T) {
	var s CommandInputState
	for _, cmd := range []string{"in 1", "out 4", "out 4"} {
		s.Open()
		for _, r := range cmd {
			s.InsertChar(r)
		}
		s.GetCommand()
	}
	if len(s.History) != 2 {
		t.Fatalf("history = %q, want repeats collapsed", s.History)
	}

	s.Open()
	s.HistoryPrev()
	s.HistoryPrev()
	s.HistoryPrev()
	if s.Input != "in 1" {
		t.Errorf("oldest entry = %q", s.Input)
	}
	s.HistoryNext()
	if s.Input != "out 4" {
		t.Errorf("next entry = %q", s.Input)
	}
	s.HistoryNext()
	if s.Input != "" || s.CursorPos != 0 {
		t.Errorf("past newest = %q cursor %d", s.Input, s.CursorPos)
	}
}

func TestModeIndicator(t *testing.T) {
	for _, mode := range []Mode{ModeNormal, ModeCommand, ModeTrim, ModeScrub, ModeForm} {
		if got := ModeIndicator(mode); got == "" {
			t.Errorf("ModeIndicator(%v) is empty", mode)
		}
	}
	if ModeScrub.String() != "scrub" {
		t.Errorf("ModeScrub = %q", ModeScrub.String())
	}
}
