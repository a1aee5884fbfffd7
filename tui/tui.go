// Package tui is the interactive trimmer: a film strip with draggable in/out
// handles and a playhead, driving mpv through a trim session.
package tui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"
	"github.com/user/trimstrip-cli/config"
	"github.com/user/trimstrip-cli/db"
	"github.com/user/trimstrip-cli/media"
	"github.com/user/trimstrip-cli/mpv"
	"github.com/user/trimstrip-cli/pkg/timeutil"
	"github.com/user/trimstrip-cli/playback"
	"github.com/user/trimstrip-cli/thumbs"
	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui/components"
	"github.com/user/trimstrip-cli/tui/forms"
	"github.com/user/trimstrip-cli/tui/layout"
	"github.com/user/trimstrip-cli/tui/styles"
)

// thumbPixelHeight is the height stills are decoded at before being reduced
// to strip cells.
const thumbPixelHeight = 72

// fastNudge is the column step of the shifted scrub keys.
const fastNudge = 5

// tickMsg is sent on every poll interval to sync with the player.
type tickMsg time.Time

// frameMsg carries one generated still.
type frameMsg thumbs.Frame

// regenMsg reports that a thumbnail generation has started.
type regenMsg struct{ generation uint64 }

// clearMessageMsg clears the message line if it still shows message id.
type clearMessageMsg struct{ id int }

type formKind int

const (
	formNone formKind = iota
	formSave
	formQuit
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Config    *config.Config
	Asset     *media.Asset
	Player    playback.Player
	DB        *sql.DB
	Video     *db.Video
	Extractor thumbs.Extractor
	Logger    zerolog.Logger
	// Initial is the window to open with. The zero value opens at the start
	// of the asset with the longest allowed length.
	Initial trim.Window
}

// Model is the Bubbletea model for the trimmer.
type Model struct {
	cfg    *config.Config
	asset  *media.Asset
	player playback.Player
	store  *sql.DB
	video  *db.Video
	log    zerolog.Logger

	session *trim.Session
	ctrl    *playback.Controller
	initial trim.Window
	// saved is the window as opened or last written to the database.
	saved trim.Window

	gen       *thumbs.Generator
	frameCh   chan thumbs.Frame
	frames    []image.Image
	stripCols int
	ctx       context.Context
	cancel    context.CancelFunc

	zones *zone.Manager
	drag  dragTracker

	trims   components.TrimsListState
	cmdline components.CommandInputState

	form        *huh.Form
	formKind    formKind
	saveResult  forms.SaveTrimResult
	confirmQuit bool

	width     int
	height    int
	showHelp  bool
	message   string
	messageID int
	isError   bool
	err       error
	quitting  bool
}

// NewModel creates the model. The session is initialized on the first
// window size message, once the strip width is known.
func NewModel(d Deps) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	logger := d.Logger.With().Str("component", "tui").Logger()

	session := trim.NewSession(
		trim.WithLogger(d.Logger),
		trim.WithDraggableWidth(d.Config.Trim.DraggableWidth),
		trim.WithSnapEpsilon(d.Config.Trim.SnapEpsilon),
	)
	ctrl := playback.NewController(d.Player, session, d.Config.Trim.HighPrecisionScrub, d.Logger)
	session.SetListener(ctrl)

	m := &Model{
		cfg:     d.Config,
		asset:   d.Asset,
		player:  d.Player,
		store:   d.DB,
		video:   d.Video,
		log:     logger,
		session: session,
		ctrl:    ctrl,
		initial: d.Initial,
		frameCh: make(chan thumbs.Frame, 16),
		ctx:     ctx,
		cancel:  cancel,
		zones:   zone.New(),
	}
	if d.Extractor != nil {
		m.gen = thumbs.NewGenerator(d.Extractor, d.Logger)
	}
	if m.initial == (trim.Window{}) {
		m.initial = defaultWindow(d.Asset, d.Config.Trim.MaxDurationSeconds)
	}
	m.loadTrims()
	return m
}

// defaultWindow starts at zero and is as long as allowed, capped by the asset.
func defaultWindow(asset *media.Asset, maxSeconds float64) trim.Window {
	end := asset.Duration()
	if maxSeconds > 0 && maxSeconds < end.Seconds() {
		end = trim.NewTimeValue(maxSeconds, asset.Timescale)
	}
	return trim.Window{Start: trim.TimeValue{Timescale: asset.Timescale}, End: end}
}

// Init starts polling the player and listening for stills.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), waitForFrame(m.frameCh))
}

func (m *Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.cfg.Player.PollIntervalMs) * time.Millisecond
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForFrame(ch <-chan thumbs.Frame) tea.Cmd {
	return func() tea.Msg {
		return frameMsg(<-ch)
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.layoutStrip()

	case tickMsg:
		m.tick()
		return m, m.tickCmd()

	case frameMsg:
		m.addFrame(thumbs.Frame(msg))
		return m, waitForFrame(m.frameCh)

	case regenMsg:
		m.log.Debug().Uint64("generation", msg.generation).Msg("strip regenerating")
		return m, nil

	case clearMessageMsg:
		if msg.id == m.messageID {
			m.message = ""
		}
		return m, nil

	case tea.BlurMsg:
		m.apply(m.drag.Cancel())
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// layoutStrip fits the session and the thumbnails to the terminal width.
func (m *Model) layoutStrip() tea.Cmd {
	cols := components.StripWidth(m.width)
	if cols <= 0 || cols == m.stripCols {
		return nil
	}
	track := m.asset.Track(float64(cols))

	if !m.session.Initialized() {
		err := m.session.Initialize(track, m.initial.Start, m.initial.End,
			m.cfg.Trim.MinDurationSeconds, m.cfg.Trim.MaxDurationSeconds)
		if err != nil {
			m.err = err
			return nil
		}
		m.err = nil
		m.saved = m.session.CurrentWindow()
		if m.video != nil && m.video.StopTime > 0 {
			m.session.SeekPlayhead(trim.NewTimeValue(m.video.StopTime, m.asset.Timescale))
		}
	} else if err := m.session.Resize(track); err != nil {
		m.log.Warn().Err(err).Int("columns", cols).Msg("resize rejected")
		return nil
	}

	m.stripCols = cols
	return m.regenerate(cols)
}

// regenerate restarts thumbnail generation for a strip of cols columns. The
// id is reserved here, on the update loop, so commands that run out of order
// cannot start an older layout. Starting waits for the superseded run to stop,
// so it runs off the update loop.
func (m *Model) regenerate(cols int) tea.Cmd {
	if m.gen == nil {
		return nil
	}
	req := StripRequest(m.asset, cols, m.cfg.Thumbnails.Height)
	m.frames = make([]image.Image, req.Count)
	gen, ctx, out := m.gen, m.ctx, m.frameCh
	id := gen.Reserve()
	return func() tea.Msg {
		if !gen.Start(ctx, id, req, out) {
			return nil
		}
		return regenMsg{generation: id}
	}
}

// StripRequest lays out stills for a strip of cols columns and rows rows.
// Each row shows two samples, so a cell is treated as square.
func StripRequest(asset *media.Asset, cols, rows int) thumbs.Request {
	if rows < 1 {
		rows = 1
	}
	natural := thumbs.Size{Width: float64(asset.Width), Height: float64(asset.Height)}
	if natural.Width <= 0 || natural.Height <= 0 {
		natural = thumbs.Size{Width: 16, Height: 9}
	}
	cell := thumbs.ThumbnailSize(natural, float64(2*rows))
	count := thumbs.Count(float64(cols), cell.Width)
	if count < 1 {
		count = 1
	}
	return thumbs.Request{
		Path:     asset.Path,
		Duration: asset.Duration(),
		Count:    count,
		Size:     thumbs.ThumbnailSize(natural, thumbPixelHeight),
		Cells: thumbs.Size{
			Width:  math.Ceil(float64(cols) / float64(count)),
			Height: float64(2 * rows),
		},
	}
}

func (m *Model) addFrame(f thumbs.Frame) {
	if m.gen == nil || f.Generation != m.gen.Generation() {
		return
	}
	if len(m.frames) != f.Count {
		m.frames = make([]image.Image, f.Count)
	}
	if f.Index >= 0 && f.Index < len(m.frames) {
		m.frames[f.Index] = f.Image
	}
}

// tick syncs the playhead with the player.
func (m *Model) tick() {
	if !m.session.Initialized() || m.player == nil {
		return
	}
	st, err := m.ctrl.Tick()
	if errors.Is(err, mpv.ErrNotConnected) {
		return
	}
	if err != nil {
		m.log.Debug().Err(err).Msg("player poll failed")
		return
	}
	if st.Looped {
		m.log.Debug().Stringer("start", m.session.CurrentWindow().Start).Msg("playback looped")
	}
}

// apply feeds gestures into the session in order.
func (m *Model) apply(gestures []gesture) {
	if !m.session.Initialized() {
		return
	}
	for _, g := range gestures {
		switch g.target {
		case trim.LeftHandle:
			m.session.OnHandleDrag(trim.Left, g.phase, g.delta)
		case trim.RightHandle:
			m.session.OnHandleDrag(trim.Right, g.phase, g.delta)
		case trim.Playhead:
			m.session.OnPlayheadDrag(g.phase, g.delta)
		}
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.form != nil || m.showHelp || !m.session.Initialized() {
		return nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		h := hitTest(m.zones, msg, m.session.Positions(), m.cfg.Trim.DraggableWidth)
		if !h.ok {
			return nil
		}
		if h.seek {
			m.seekColumn(h.column)
		}
		m.apply(m.drag.Press(h.target, msg.X))
	case tea.MouseActionMotion:
		m.apply(m.drag.Motion(msg.X))
	case tea.MouseActionRelease:
		m.apply(m.drag.Release(msg.X))
	}
	return nil
}

// seekColumn moves the playhead to the centre of strip column c.
func (m *Model) seekColumn(c int) {
	t := trim.PositionToTime(float64(c)+0.5, m.session.Track())
	m.session.SeekPlayhead(t)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cmdline.Active {
		return m.handleCommandInput(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "q":
		if m.dirty() {
			return m.openForm(formQuit)
		}
		return m.quit()
	case "?":
		m.showHelp = true
		return m, nil
	case "esc":
		m.apply(m.drag.Cancel())
		return m, nil
	}

	if !m.session.Initialized() || m.drag.Active() {
		return m, nil
	}

	switch msg.String() {
	case " ":
		if err := m.ctrl.TogglePlay(); err != nil {
			return m, m.flash(fmt.Sprintf("Playback: %v", err), true)
		}
	case "[":
		m.apply(nudge(trim.LeftHandle, -1))
	case "]":
		m.apply(nudge(trim.LeftHandle, 1))
	case "{":
		m.apply(nudge(trim.RightHandle, -1))
	case "}":
		m.apply(nudge(trim.RightHandle, 1))
	case "h", "left":
		m.apply(nudge(trim.Playhead, -1))
	case "l", "right":
		m.apply(nudge(trim.Playhead, 1))
	case "H", "shift+left":
		m.apply(nudge(trim.Playhead, -fastNudge))
	case "L", "shift+right":
		m.apply(nudge(trim.Playhead, fastNudge))
	case "p":
		m.cfg.Trim.HighPrecisionScrub = !m.cfg.Trim.HighPrecisionScrub
		m.ctrl.SetHighPrecision(m.cfg.Trim.HighPrecisionScrub)
	case "s":
		return m.openForm(formSave)
	case ":":
		m.cmdline.Open()
	case "j", "up":
		m.trims.MoveUp()
	case "k", "down":
		m.trims.MoveDown()
	case "enter":
		return m, m.applySelectedTrim()
	case "x":
		return m, m.deleteSelectedTrim()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

// dirty reports whether the window differs from the last saved one.
func (m *Model) dirty() bool {
	if m.store == nil || !m.session.Initialized() {
		return false
	}
	w := m.session.CurrentWindow()
	return w.Start.Compare(m.saved.Start) != 0 || w.End.Compare(m.saved.End) != 0
}

func (m *Model) openForm(kind formKind) (tea.Model, tea.Cmd) {
	switch kind {
	case formSave:
		if m.store == nil || m.video == nil {
			return m, m.flash("No database: trims cannot be saved", true)
		}
		m.saveResult = forms.SaveTrimResult{}
		m.form = forms.NewSaveTrimForm(m.session.CurrentWindow(), &m.saveResult)
	case formQuit:
		m.confirmQuit = false
		m.form = forms.NewConfirmQuitForm(&m.confirmQuit)
	}
	m.formKind = kind
	return m, m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m.quit()
	}

	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}

	switch m.form.State {
	case huh.StateCompleted:
		kind := m.formKind
		m.form, m.formKind = nil, formNone
		switch kind {
		case formSave:
			if m.saveResult.Confirm {
				return m, m.saveTrim(m.saveResult.Label)
			}
		case formQuit:
			if m.confirmQuit {
				return m.quit()
			}
		}
		return m, nil
	case huh.StateAborted:
		m.form, m.formKind = nil, formNone
		return m, nil
	}
	return m, cmd
}

func (m *Model) saveTrim(label string) tea.Cmd {
	w := m.session.CurrentWindow()
	id, err := db.InsertTrim(m.store, m.video.ID, w, strings.TrimSpace(label))
	if err != nil {
		m.log.Error().Err(err).Msg("saving trim failed")
		return m.flash(fmt.Sprintf("Save failed: %v", err), true)
	}
	m.saved = w
	m.loadTrims()
	m.log.Info().Int64("trim_id", id).Stringer("start", w.Start).Stringer("end", w.End).Msg("trim saved")
	return m.flash(fmt.Sprintf("Saved trim #%d", id), false)
}

func (m *Model) applySelectedTrim() tea.Cmd {
	item := m.trims.SelectedItem()
	if item == nil {
		return nil
	}
	t, err := db.SelectTrimByID(m.store, item.ID)
	if err != nil {
		return m.flash(fmt.Sprintf("Load failed: %v", err), true)
	}
	w := t.Window()
	if err := m.session.SetWindow(w.Start, w.End); err != nil {
		return m.flash(fmt.Sprintf("Load failed: %v", err), true)
	}
	m.saved = m.session.CurrentWindow()
	if err := m.ctrl.Rewind(); err != nil {
		m.log.Warn().Err(err).Msg("rewind after load failed")
	}
	return m.flash(fmt.Sprintf("Loaded trim #%d", t.ID), false)
}

func (m *Model) deleteSelectedTrim() tea.Cmd {
	item := m.trims.SelectedItem()
	if item == nil {
		return nil
	}
	if err := db.DeleteTrim(m.store, item.ID); err != nil {
		return m.flash(fmt.Sprintf("Delete failed: %v", err), true)
	}
	id := item.ID
	m.loadTrims()
	return m.flash(fmt.Sprintf("Deleted trim #%d", id), false)
}

// loadTrims refreshes the saved-trims panel from the database.
func (m *Model) loadTrims() {
	if m.store == nil || m.video == nil {
		return
	}
	rows, err := db.SelectTrimsByVideo(m.store, m.video.ID)
	if err != nil {
		m.log.Warn().Err(err).Msg("loading trims failed")
		return
	}
	items := make([]components.TrimItem, 0, len(rows))
	for _, t := range rows {
		w := t.Window()
		items = append(items, components.TrimItem{
			ID:    t.ID,
			Label: t.Label,
			Start: w.Start.Seconds(),
			End:   w.End.Seconds(),
		})
	}
	m.trims.SetItems(items)
}

// flash shows a message for a few seconds.
func (m *Model) flash(text string, isError bool) tea.Cmd {
	m.messageID++
	m.message = text
	m.isError = isError
	id := m.messageID
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearMessageMsg{id: id}
	})
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return components.HelpOverlay(m.width, m.height)
	}

	if m.width < layout.MinTerminalWidth {
		warningStyle := lipgloss.NewStyle().Foreground(styles.Warning).Bold(true)
		hintStyle := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true)
		return warningStyle.Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width)) + "\n" +
			hintStyle.Render(fmt.Sprintf("Minimum width: %d columns", layout.MinTerminalWidth))
	}

	statusBar := components.StatusBar(m.statusState(), m.width)
	if m.err != nil {
		return statusBar + "\n\n" + styles.Warn.Render("Error: "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	strip := components.TrimStrip(m.stripState(), m.width, m.zones.Mark)

	if m.form != nil {
		return m.zones.Scan(statusBar + "\n" + strip + "\n\n" + m.form.View())
	}

	stripHeight := m.cfg.Thumbnails.Height + components.StripChrome
	panelHeight := m.height - 1 - stripHeight - 2
	if panelHeight < 3 {
		panelHeight = 3
	}

	view := statusBar + "\n" + strip + "\n" + m.renderPanels(panelHeight) + "\n" +
		m.renderMessage() + "\n" + components.ControlsDisplay(m.width)
	return m.zones.Scan(view)
}

func (m *Model) renderPanels(height int) string {
	leftW, rightW, sideBySide := layout.SplitWidth(m.width)
	if !sideBySide {
		return layout.Container{Width: m.width, Height: height}.Render(m.trimsPanel(m.width, height))
	}
	left := layout.Container{Width: leftW, Height: height}.Render(m.windowPanel(leftW))
	right := layout.Container{Width: rightW, Height: height}.Render(m.trimsPanel(rightW, height))
	return layout.JoinColumns([]string{left, right}, []int{leftW, rightW}, height)
}

func (m *Model) windowPanel(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	valueStyle := lipgloss.NewStyle().Foreground(styles.Text)

	w := m.session.CurrentWindow()
	length := w.DurationSeconds()
	lengthStyle := valueStyle
	if length < m.cfg.Trim.MinDurationSeconds || length > m.cfg.Trim.MaxDurationSeconds {
		lengthStyle = styles.Warn
	}
	row := func(label, value string, st lipgloss.Style) string {
		return labelStyle.Render(fmt.Sprintf("%-6s", label)) + st.Render(value)
	}
	lines := []string{
		row("File", filepath.Base(m.asset.Path), valueStyle),
		row("In", timeutil.FormatPrecise(w.Start.Seconds()), valueStyle),
		row("Out", timeutil.FormatPrecise(w.End.Seconds()), valueStyle),
		row("Length", fmt.Sprintf("%.3fs", length), lengthStyle),
		row("Head", timeutil.FormatPrecise(m.session.PlayheadTime().Seconds()), valueStyle),
	}
	return components.InfoBox("Window", lines, width)
}

func (m *Model) trimsPanel(width, height int) string {
	return components.InfoBox("Saved trims", components.TrimsList(m.trims, height-2), width)
}

// renderMessage renders the bottom line: the command line while it is open,
// otherwise the mode badge and any flashed message.
func (m *Model) renderMessage() string {
	if m.cmdline.Active {
		return components.CommandInput(m.cmdline, m.width)
	}
	line := components.ModeIndicator(m.mode())
	if m.message == "" {
		return line
	}
	if m.isError {
		return line + " " + styles.Warn.Render(m.message)
	}
	return line + " " + styles.Ok.Render(m.message)
}

func (m *Model) mode() components.Mode {
	switch {
	case m.form != nil:
		return components.ModeForm
	case m.cmdline.Active:
		return components.ModeCommand
	case m.drag.Active() && m.drag.Target() == trim.Playhead:
		return components.ModeScrub
	case m.drag.Active():
		return components.ModeTrim
	}
	return components.ModeNormal
}

func (m *Model) statusState() components.StatusBarState {
	st := components.StatusBarState{
		Playing:       m.ctrl.Playing(),
		Duration:      m.asset.DurationSeconds(),
		MinSeconds:    m.cfg.Trim.MinDurationSeconds,
		MaxSeconds:    m.cfg.Trim.MaxDurationSeconds,
		HighPrecision: m.cfg.Trim.HighPrecisionScrub,
		Dirty:         m.dirty(),
	}
	if m.session.Initialized() {
		w := m.session.CurrentWindow()
		st.Position = m.session.PlayheadTime().Seconds()
		st.Start = w.Start.Seconds()
		st.End = w.End.Seconds()
	}
	return st
}

func (m *Model) stripState() components.TrimStripState {
	pos := m.session.Positions()
	return components.TrimStripState{
		Frames:         m.frames,
		Rows:           m.cfg.Thumbnails.Height,
		Left:           pos.Left,
		Right:          pos.Right,
		Playhead:       pos.Playhead,
		DraggableWidth: int(math.Ceil(m.cfg.Trim.DraggableWidth)),
		Dragging:       m.drag.Active(),
		Active:         m.drag.Target(),
	}
}

// Close stops background work. Run calls it when the program exits.
func (m *Model) Close() {
	m.cancel()
	if m.gen != nil {
		m.gen.Cancel()
	}
	m.zones.Close()
}

// StopTime is the playhead position to remember for the next session.
func (m *Model) StopTime() float64 {
	if !m.session.Initialized() {
		return 0
	}
	return m.session.PlayheadTime().Seconds()
}

// Run starts the trimmer and blocks until the user quits. The playhead
// position is stored on the video row on exit.
func Run(d Deps) error {
	model := NewModel(d)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()

	if d.DB != nil && d.Video != nil {
		if serr := db.UpdateVideoStopTime(d.DB, d.Video.ID, model.StopTime()); serr != nil {
			d.Logger.Warn().Err(serr).Msg("saving stop time failed")
		}
	}
	return err
}
