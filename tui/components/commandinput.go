package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/tui/styles"
)

// CommandInputState holds the state of the ':' command line.
type CommandInputState struct {
	// Active indicates if command mode is active
	Active bool
	// Input is the current command input buffer
	Input string
	// CursorPos is the cursor position within the input
	CursorPos int
	// History holds executed commands, oldest first.
	History []string
	// histPos indexes History while browsing; len(History) means the live line.
	histPos int
}

// CommandInput renders the command line: a ':' prompt with the current input
// and a cursor.
func CommandInput(state CommandInputState, width int) string {
	promptStyle := lipgloss.NewStyle().
		Foreground(styles.Info).
		Bold(true)

	inputStyle := lipgloss.NewStyle().
		Foreground(styles.Text)

	input := state.Input
	cursor := "_"
	var displayInput string
	if state.CursorPos >= len(input) {
		displayInput = input + cursor
	} else {
		displayInput = input[:state.CursorPos] + cursor + input[state.CursorPos:]
	}

	lineStyle := lipgloss.NewStyle().
		Background(styles.Panel).
		Width(width)

	return lineStyle.Render(promptStyle.Render(":") + inputStyle.Render(displayInput))
}

// Open activates command mode with an empty line.
func (s *CommandInputState) Open() {
	s.Input = ""
	s.CursorPos = 0
	s.Active = true
	s.histPos = len(s.History)
}

// InsertChar inserts a character at the current cursor position. The
// buffer is byte-indexed, so callers only pass printable ASCII.
func (s *CommandInputState) InsertChar(c rune) {
	if s.CursorPos >= len(s.Input) {
		s.Input += string(c)
	} else {
		s.Input = s.Input[:s.CursorPos] + string(c) + s.Input[s.CursorPos:]
	}
	s.CursorPos++
}

// Backspace deletes the character before the cursor. On an empty line it
// leaves command mode.
func (s *CommandInputState) Backspace() {
	if len(s.Input) == 0 {
		s.Clear()
		return
	}
	if s.CursorPos > 0 {
		if s.CursorPos >= len(s.Input) {
			s.Input = s.Input[:len(s.Input)-1]
		} else {
			s.Input = s.Input[:s.CursorPos-1] + s.Input[s.CursorPos:]
		}
		s.CursorPos--
	}
}

// Delete deletes the character at the cursor.
func (s *CommandInputState) Delete() {
	if s.CursorPos < len(s.Input) {
		s.Input = s.Input[:s.CursorPos] + s.Input[s.CursorPos+1:]
	}
}

// MoveCursorLeft moves the cursor left.
func (s *CommandInputState) MoveCursorLeft() {
	if s.CursorPos > 0 {
		s.CursorPos--
	}
}

// MoveCursorRight moves the cursor right.
func (s *CommandInputState) MoveCursorRight() {
	if s.CursorPos < len(s.Input) {
		s.CursorPos++
	}
}

// HistoryPrev recalls the previous command.
func (s *CommandInputState) HistoryPrev() {
	if s.histPos == 0 {
		return
	}
	s.histPos--
	s.Input = s.History[s.histPos]
	s.CursorPos = len(s.Input)
}

// HistoryNext recalls the next command, or an empty line past the newest.
func (s *CommandInputState) HistoryNext() {
	if s.histPos >= len(s.History) {
		return
	}
	s.histPos++
	if s.histPos == len(s.History) {
		s.Input = ""
	} else {
		s.Input = s.History[s.histPos]
	}
	s.CursorPos = len(s.Input)
}

// Clear clears the input buffer and deactivates command mode.
func (s *CommandInputState) Clear() {
	s.Input = ""
	s.CursorPos = 0
	s.Active = false
}

// GetCommand returns the current command, records it in the history and
// clears the input.
func (s *CommandInputState) GetCommand() string {
	cmd := s.Input
	if cmd != "" && (len(s.History) == 0 || s.History[len(s.History)-1] != cmd) {
		s.History = append(s.History, cmd)
	}
	s.Clear()
	return cmd
}
