package components

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/trimstrip-cli/trim"
	"github.com/user/trimstrip-cli/tui/styles"
)

// Zone ids marked in the strip for mouse hit-testing.
const (
	ZoneStrip     = "trim-strip"
	ZoneLeftGrip  = "trim-grip-left"
	ZoneRightGrip = "trim-grip-right"
	ZonePlayhead  = "trim-playhead"
)

// StripInset is the number of columns the box border and padding take on
// each side of the strip.
const StripInset = 2

// StripChrome is the number of rows the box adds around the strip rows:
// border, grip row, playhead row, border.
const StripChrome = 4

// StripWidth returns the strip width in columns inside a box of width.
func StripWidth(width int) int {
	if width <= 2*StripInset {
		return 0
	}
	return width - 2*StripInset
}

// TrimStripState is what the strip needs to draw one frame. Positions are in
// strip columns, the same unit the trim session works in.
type TrimStripState struct {
	// Frames are the reduced stills, in strip order. Nil entries are still
	// loading.
	Frames []image.Image
	// Rows is the strip height in terminal rows. Every row shows two samples.
	Rows           int
	Left           float64
	Right          float64
	Playhead       float64
	DraggableWidth int
	Dragging       bool
	Active         trim.Dragger
}

// Marker wraps s in a hit-test zone named id.
type Marker func(id, s string) string

// TrimStrip renders the film strip with the trim window, its handles and the
// playhead inside a bordered box of the given width.
func TrimStrip(state TrimStripState, width int, mark Marker) string {
	cols := StripWidth(width)
	if cols <= 0 {
		return ""
	}
	if mark == nil {
		mark = func(_, s string) string { return s }
	}
	rows := state.Rows
	if rows < 1 {
		rows = 1
	}
	dw := state.DraggableWidth
	if dw < 1 {
		dw = 1
	}

	leftCol, rightCol := handleColumns(state.Left, state.Right, dw, cols)
	playCol := StripColumn(state.Playhead, cols)

	gripStyle := lipgloss.NewStyle().Foreground(styles.Handle).Bold(true)
	headStyle := lipgloss.NewStyle().Foreground(styles.Playhead).Bold(true)
	if state.Dragging {
		switch state.Active {
		case trim.LeftHandle, trim.RightHandle:
			gripStyle = gripStyle.Foreground(styles.Text)
		case trim.Playhead:
			headStyle = headStyle.Foreground(styles.Text)
		}
	}

	grips := markerRow(cols, []marker{
		{col: leftCol, glyph: mark(ZoneLeftGrip, gripStyle.Render("▼"))},
		{col: rightCol, glyph: mark(ZoneRightGrip, gripStyle.Render("▼"))},
	})

	stripLines := make([]string, rows)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for c := 0; c < cols; c++ {
			b.WriteString(state.cell(c, r, cols, rows, dw, leftCol, rightCol, playCol))
		}
		stripLines[r] = b.String()
	}
	strip := strings.Split(mark(ZoneStrip, strings.Join(stripLines, "\n")), "\n")

	head := markerRow(cols, []marker{
		{col: playCol, glyph: mark(ZonePlayhead, headStyle.Render("▲"))},
	})

	lines := make([]string, 0, rows+2)
	lines = append(lines, grips)
	lines = append(lines, strip...)
	lines = append(lines, head)
	return boxed("Trim", lines, width)
}

// StripColumn maps a position in columns to the cell that contains it.
func StripColumn(pos float64, cols int) int {
	c := int(math.Floor(pos))
	if c >= cols {
		c = cols - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// handleColumns returns the first cell of the left handle and the last cell
// of the right handle. The left position is the handle's leading edge and the
// right position its trailing edge.
func handleColumns(left, right float64, dw, cols int) (int, int) {
	l := StripColumn(left, cols)
	r := int(math.Ceil(right)) - 1
	if r < l+dw-1 {
		r = l + dw - 1
	}
	if r >= cols {
		r = cols - 1
	}
	return l, r
}

func (s TrimStripState) cell(c, r, cols, rows, dw, leftCol, rightCol, playCol int) string {
	upper := s.sample(c, 2*r, cols, 2*rows)
	lower := s.sample(c, 2*r+1, cols, 2*rows)

	center := float64(c) + 0.5
	if center < s.Left || center > s.Right {
		upper, lower = dim(upper), dim(lower)
	}

	switch {
	case c >= leftCol && c < leftCol+dw:
		return lipgloss.NewStyle().Background(styles.Handle).Foreground(styles.Ink).Render("▐")
	case c <= rightCol && c > rightCol-dw:
		return lipgloss.NewStyle().Background(styles.Handle).Foreground(styles.Ink).Render("▌")
	case c == playCol:
		return lipgloss.NewStyle().Foreground(styles.Playhead).Background(hex(lower)).Render("│")
	}
	return lipgloss.NewStyle().Foreground(hex(upper)).Background(hex(lower)).Render("▀")
}

// sample returns the colour of the still covering column c at sample row y of
// h rows.
func (s TrimStripState) sample(c, y, cols, h int) color.RGBA {
	if len(s.Frames) == 0 {
		return placeholder
	}
	thumbW := float64(cols) / float64(len(s.Frames))
	i := int(float64(c) / thumbW)
	if i >= len(s.Frames) {
		i = len(s.Frames) - 1
	}
	img := s.Frames[i]
	if img == nil {
		return placeholder
	}
	b := img.Bounds()
	if b.Empty() {
		return placeholder
	}
	fx := (float64(c) - float64(i)*thumbW + 0.5) / thumbW
	fy := (float64(y) + 0.5) / float64(h)
	x := b.Min.X + int(fx*float64(b.Dx()))
	yy := b.Min.Y + int(fy*float64(b.Dy()))
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if yy >= b.Max.Y {
		yy = b.Max.Y - 1
	}
	return color.RGBAModel.Convert(img.At(x, yy)).(color.RGBA)
}

var placeholder = color.RGBA{R: 0x2B, G: 0x2F, B: 0x38, A: 0xFF}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * styles.MaskFactor),
		G: uint8(float64(c.G) * styles.MaskFactor),
		B: uint8(float64(c.B) * styles.MaskFactor),
		A: c.A,
	}
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

type marker struct {
	col   int
	glyph string
}

// markerRow places single-cell glyphs on an otherwise blank row. Later
// markers on an occupied cell are dropped.
func markerRow(cols int, markers []marker) string {
	cells := make([]string, cols)
	for i := range cells {
		cells[i] = " "
	}
	used := make(map[int]bool, len(markers))
	for _, m := range markers {
		if m.col < 0 || m.col >= cols || used[m.col] {
			continue
		}
		used[m.col] = true
		cells[m.col] = m.glyph
	}
	return strings.Join(cells, "")
}

// boxed wraps content lines in a rounded border with a tab-style title. Every
// content line gets one column of padding on each side.
func boxed(title string, lines []string, width int) string {
	borderStyle := lipgloss.NewStyle().Foreground(styles.Border)
	headerStyle := lipgloss.NewStyle().Foreground(styles.Handle).Bold(true)

	boxInner := width - 2
	header := headerStyle.Render(" " + title + " ")
	fill := boxInner - 1 - lipgloss.Width(header)
	if fill < 0 {
		fill = 0
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, borderStyle.Render("╭─")+header+borderStyle.Render(strings.Repeat("─", fill)+"╮"))
	for _, line := range lines {
		pad := boxInner - 2 - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		out = append(out, borderStyle.Render("│")+" "+line+strings.Repeat(" ", pad)+" "+borderStyle.Render("│"))
	}
	out = append(out, borderStyle.Render("╰"+strings.Repeat("─", boxInner)+"╯"))
	return strings.Join(out, "\n")
}
