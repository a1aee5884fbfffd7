package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui/forms"
)

// bandSlack absorbs tick rounding when checking a typed window length.
const bandSlack = 1e-6

func (m *Model) handleCommandInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "esc":
		m.cmdline.Clear()
		return m, nil

	case "enter":
		line := m.cmdline.GetCommand()
		if line == "" {
			return m, nil
		}
		result, cmd, err := m.executeCommand(line)
		if err != nil {
			return m, m.flash("Error: "+err.Error(), true)
		}
		if result != "" {
			return m, tea.Batch(cmd, m.flash(result, false))
		}
		return m, cmd

	case "backspace":
		m.cmdline.Backspace()
	case "delete":
		m.cmdline.Delete()
	case "left":
		m.cmdline.MoveCursorLeft()
	case "right":
		m.cmdline.MoveCursorRight()
	case "up":
		m.cmdline.HistoryPrev()
	case "down":
		m.cmdline.HistoryNext()

	default:
		if msg.Type == tea.KeySpace {
			m.cmdline.InsertChar(' ')
			return m, nil
		}
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if r >= ' ' && r <= '~' {
					m.cmdline.InsertChar(r)
				}
			}
		}
	}
	return m, nil
}

// executeCommand runs one command line and returns the message to show.
func (m *Model) executeCommand(line string) (string, tea.Cmd, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil, nil
	}
	cmd, args := parts[0], parts[1:]
	w := m.session.CurrentWindow()
	ts := m.asset.Timescale

	switch cmd {
	case "in":
		t, err := timeArg(cmd, args, ts)
		if err != nil {
			return "", nil, err
		}
		if err := m.typeWindow(t, w.End); err != nil {
			return "", nil, err
		}
		return "In at " + timeutil.FormatPrecise(t.Seconds()), nil, nil

	case "out":
		t, err := timeArg(cmd, args, ts)
		if err != nil {
			return "", nil, err
		}
		if err := m.typeWindow(w.Start, t); err != nil {
			return "", nil, err
		}
		return "Out at " + timeutil.FormatPrecise(t.Seconds()), nil, nil

	case "len":
		if len(args) != 1 {
			return "", nil, fmt.Errorf("len requires a length (e.g. len 4.5)")
		}
		length, err := timeutil.ParseTimeToSeconds(args[0])
		if err != nil {
			return "", nil, err
		}
		end := trim.NewTimeValue(w.Start.Seconds()+length, ts)
		if err := m.typeWindow(w.Start, end); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Length %.3fs", length), nil, nil

	case "seek", "go":
		t, err := timeArg(cmd, args, ts)
		if err != nil {
			return "", nil, err
		}
		if err := m.ctrl.SeekTo(t); err != nil {
			return "", nil, err
		}
		return "Playhead at " + timeutil.FormatPrecise(m.session.PlayheadTime().Seconds()), nil, nil

	case "play", "pause":
		if m.ctrl.Playing() == (cmd == "play") {
			return "", nil, nil
		}
		if err := m.ctrl.TogglePlay(); err != nil {
			return "", nil, err
		}
		if cmd == "play" {
			return "Playing", nil, nil
		}
		return "Paused", nil, nil

	case "exact":
		on := !m.cfg.Trim.HighPrecisionScrub
		if len(args) == 1 {
			switch args[0] {
			case "on":
				on = true
			case "off":
				on = false
			default:
				return "", nil, fmt.Errorf("exact takes on or off")
			}
		}
		m.cfg.Trim.HighPrecisionScrub = on
		m.ctrl.SetHighPrecision(on)
		if on {
			return "Exact seeks", nil, nil
		}
		return "Keyframe seeks", nil, nil

	case "w", "save":
		if m.store == nil || m.video == nil {
			return "", nil, fmt.Errorf("no database: trims cannot be saved")
		}
		label := strings.Join(args, " ")
		if err := forms.ValidateLabel(label); err != nil {
			return "", nil, err
		}
		return "", m.saveTrim(label), nil

	case "q", "quit":
		if m.dirty() {
			return "", nil, fmt.Errorf("unsaved window (save with :w or quit with :q!)")
		}
		_, quit := m.quit()
		return "", quit, nil

	case "q!":
		_, quit := m.quit()
		return "", quit, nil

	default:
		return "", nil, fmt.Errorf("unknown command: %s", cmd)
	}
}

func timeArg(cmd string, args []string, timescale int32) (trim.TimeValue, error) {
	if len(args) != 1 {
		return trim.TimeValue{}, fmt.Errorf("%s requires a time (e.g. %s 1:02.5)", cmd, cmd)
	}
	secs, err := timeutil.ParseTimeToSeconds(args[0])
	if err != nil {
		return trim.TimeValue{}, err
	}
	return trim.NewTimeValue(secs, timescale), nil
}

// typeWindow replaces the window with one typed by the user. Unlike a drag,
// a typed window must already be inside the asset and the length band.
func (m *Model) typeWindow(start, end trim.TimeValue) error {
	if !start.Before(end) {
		return fmt.Errorf("out must be after in")
	}
	if m.asset.Duration().Before(end) {
		return fmt.Errorf("out is past the end of the video (%s)", timeutil.FormatPrecise(m.asset.DurationSeconds()))
	}
	length := end.Seconds() - start.Seconds()
	minS, maxS := m.cfg.Trim.MinDurationSeconds, m.cfg.Trim.MaxDurationSeconds
	if length < minS-bandSlack || length > maxS+bandSlack {
		return fmt.Errorf("length %.3fs is outside %v-%vs", length, minS, maxS)
	}
	if err := m.session.SetWindow(start, end); err != nil {
		return err
	}
	if err := m.ctrl.Rewind(); err != nil {
		m.log.Warn().Err(err).Msg("rewind after typed window failed")
	}
	return nil
}
