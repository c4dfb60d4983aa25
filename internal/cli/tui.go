package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// Terminal cells are mapped to surface pixels at a fixed ratio, so the
// diagram keeps its proportions on a typical 1:2 character cell.
const (
	cellW = 8.0
	cellH = 16.0

	// headerRows and footerRows are the lines View draws around the canvas.
	headerRows = 2
	footerRows = 6

	// nudge is how far one key press drags a node or pans, in pixels.
	nudge = 4 * cellW

	maxEvents = 3
)

var (
	viewHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	viewDimStyle    = lipgloss.NewStyle().Foreground(colorFaint)
	viewEventStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// =============================================================================
// eventLog - Notifications from the diagram
// =============================================================================

// eventLog keeps the most recent diagram notifications for display.
type eventLog struct {
	lines []string
}

func (l *eventLog) add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	if len(l.lines) > maxEvents {
		l.lines = l.lines[len(l.lines)-maxEvents:]
	}
}

// events wires the diagram's notifications into l.
func (l *eventLog) events() diagram.Events {
	return diagram.Events{
		OnNodeClick: func(_ string, n workflow.Node) {
			l.add("click %s (%s, %s)", n.ID, n.Type, n.EffectiveStatus())
		},
		OnNodePositionChanged: func(_ string, id string, from, to geometry.Point) {
			l.add("moved %s (%.0f,%.0f) → (%.0f,%.0f)", id, from.X, from.Y, to.X, to.Y)
		},
		OnTransformChanged: func(_ string, t camera.Transform) {
			l.add("view x=%.0f y=%.0f k=%.2f", t.X, t.Y, t.K)
		},
	}
}

// =============================================================================
// DiagramModel - Interactive terminal diagram
// =============================================================================

// DiagramModel is the bubbletea model for exploring a diagram. Keys and mouse
// input are translated into the same gestures a browser would send.
type DiagramModel struct {
	inst     *diagram.Instance
	log      *eventLog
	title    string
	cols     int
	rows     int
	selected int
}

// NewDiagramModel creates a model over inst. log receives the instance's
// notifications and must be the one wired into inst.
func NewDiagramModel(inst *diagram.Instance, log *eventLog, title string) DiagramModel {
	return DiagramModel{inst: inst, log: log, title: title, cols: 80, rows: 24}
}

func (m DiagramModel) Init() tea.Cmd {
	return nil
}

func (m DiagramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.inst.ZoomIn()
		case "-", "_":
			m.inst.ZoomOut()
		case "f":
			m.inst.FitToScreen()
		case "0":
			m.inst.Reset()
		case "tab":
			m.cycle(1)
		case "shift+tab":
			m.cycle(-1)
		case "enter", " ":
			if c, ok := m.selectedCenter(); ok {
				m.inst.PointerDown(c, diagram.PrimaryButton)
				m.inst.PointerUp(c)
			}
		case "s":
			m.cycleStatus()
		case "h":
			m.dragSelected(-nudge, 0)
		case "l":
			m.dragSelected(nudge, 0)
		case "k":
			m.dragSelected(0, -nudge)
		case "j":
			m.dragSelected(0, nudge)
		case "left":
			m.pan(nudge, 0)
		case "right":
			m.pan(-nudge, 0)
		case "up":
			m.pan(0, nudge)
		case "down":
			m.pan(0, -nudge)
		}

	case tea.MouseMsg:
		p := m.cellToSurface(msg.X, msg.Y)
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.inst.Wheel(-100, p)
		case msg.Button == tea.MouseButtonWheelDown:
			m.inst.Wheel(100, p)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.inst.PointerDown(p, diagram.PrimaryButton)
			if id := m.inst.HitTest(p); id != "" {
				m.selectID(id)
			}
		case msg.Action == tea.MouseActionMotion:
			m.inst.PointerMove(p)
		case msg.Action == tea.MouseActionRelease:
			m.inst.PointerUp(p)
		}

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height
		m.inst.Resize(canvasSize(m.cols, m.rows))
	}
	return m, nil
}

func (m DiagramModel) View() string {
	var b strings.Builder

	t := m.inst.Transform()
	b.WriteString(viewHeaderStyle.Render(m.title))
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("  zoom %.0f%%  mode %s", t.K*100, m.inst.Mode())))
	b.WriteString("\n\n")

	data := m.inst.Data()
	canvasRows := max(m.rows-headerRows-footerRows, 1)
	b.WriteString(drawCanvas(&data, m.inst.Options(), t, m.cols, canvasRows, m.selectedID()))
	b.WriteString("\n")

	if n := data.Node(m.selectedID()); n != nil {
		line := fmt.Sprintf("%s %s", n.ID, nodeTitle(n))
		if n.Description != "" {
			line += " " + iconInfo + " " + n.Description
		}
		b.WriteString(StyleValue.Render(line) + "  " + statusStyle(n.EffectiveStatus()).Render(string(n.EffectiveStatus())))
	}
	b.WriteString("\n")
	for i := 0; i < maxEvents; i++ {
		if i < len(m.log.lines) {
			b.WriteString(viewEventStyle.Render("  " + m.log.lines[i]))
		}
		b.WriteString("\n")
	}
	b.WriteString(viewDimStyle.Render("tab select  hjkl drag  ←↑↓→ pan  +/- zoom  f fit  0 reset  s status  ⏎ click  q quit"))
	return b.String()
}

// canvasSize is the surface size for a terminal of cols x rows cells.
func canvasSize(cols, rows int) geometry.Size {
	canvasRows := max(rows-headerRows-footerRows, 1)
	return geometry.Size{W: float64(cols) * cellW, H: float64(canvasRows) * cellH}
}

// cellToSurface maps a terminal cell to the surface point at its center.
func (m DiagramModel) cellToSurface(col, row int) geometry.Point {
	return geometry.Point{
		X: (float64(col) + 0.5) * cellW,
		Y: (float64(row-headerRows) + 0.5) * cellH,
	}
}

func (m DiagramModel) selectedID() string {
	data := m.inst.Data()
	if len(data.Nodes) == 0 {
		return ""
	}
	return data.Nodes[m.selected%len(data.Nodes)].ID
}

func (m *DiagramModel) selectID(id string) {
	for i, n := range m.inst.Data().Nodes {
		if n.ID == id {
			m.selected = i
			return
		}
	}
}

func (m *DiagramModel) cycle(step int) {
	nodes, _ := m.inst.Counts()
	if nodes == 0 {
		return
	}
	m.selected = ((m.selected+step)%nodes + nodes) % nodes
}

func (m *DiagramModel) cycleStatus() {
	data := m.inst.Data()
	n := data.Node(m.selectedID())
	if n == nil {
		return
	}
	next := workflow.Statuses[0]
	for i, s := range workflow.Statuses {
		if s == n.EffectiveStatus() {
			next = workflow.Statuses[(i+1)%len(workflow.Statuses)]
			break
		}
	}
	m.inst.UpdateNodeStatus(n.ID, next)
}

// selectedCenter is the screen point at the center of the selected node.
func (m DiagramModel) selectedCenter() (geometry.Point, bool) {
	data := m.inst.Data()
	n := data.Node(m.selectedID())
	if n == nil || n.Position == nil {
		return geometry.Point{}, false
	}
	box := m.inst.Transform().ApplyRect(n.Box(m.inst.Options().NodeSize()))
	return box.Center(), true
}

// dragSelected drags the selected node by (dx, dy) screen pixels.
func (m *DiagramModel) dragSelected(dx, dy float64) {
	if c, ok := m.selectedCenter(); ok {
		m.gesture(c, dx, dy)
	}
}

// pan drags the canvas from the first empty point found.
func (m *DiagramModel) pan(dx, dy float64) {
	size := canvasSize(m.cols, m.rows)
	for y := cellH / 2; y < size.H; y += cellH {
		for x := cellW / 2; x < size.W; x += cellW {
			p := geometry.Point{X: x, Y: y}
			if m.inst.HitTest(p) == "" {
				m.gesture(p, dx, dy)
				return
			}
		}
	}
}

// gesture presses at p, moves in two steps and releases at p+(dx, dy).
func (m *DiagramModel) gesture(p geometry.Point, dx, dy float64) {
	end := p.Add(geometry.Point{X: dx, Y: dy})
	m.inst.PointerDown(p, diagram.PrimaryButton)
	m.inst.PointerMove(p.Mid(end))
	m.inst.PointerMove(end)
	m.inst.PointerUp(end)
}

// =============================================================================
// Canvas
// =============================================================================

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	plainBox    = boxRunes{'─', '│', '┌', '┐', '└', '┘'}
	selectedBox = boxRunes{'═', '║', '╔', '╗', '╚', '╝'}
)

// drawCanvas draws nodes and edges of d under transform t into a cols x rows
// character grid. Edges are dotted straight lines between node centers;
// nodes are drawn over them.
func drawCanvas(d *workflow.Data, opts workflow.Options, t camera.Transform, cols, rows int, selected string) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	set := func(col, row int, r rune) {
		if row >= 0 && row < rows && col >= 0 && col < cols {
			grid[row][col] = r
		}
	}

	size := opts.NodeSize()
	centers := make(map[string]geometry.Point, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.Position != nil {
			centers[n.ID] = t.ApplyRect(n.Box(size)).Center()
		}
	}

	for _, e := range d.ValidEdges() {
		from, okFrom := centers[e.From]
		to, okTo := centers[e.To]
		if !okFrom || !okTo {
			continue
		}
		c0, r0 := toCell(from)
		c1, r1 := toCell(to)
		steps := max(abs(c1-c0), abs(r1-r0))
		for s := 0; s <= steps; s++ {
			f := 0.0
			if steps > 0 {
				f = float64(s) / float64(steps)
			}
			set(c0+int(math.Round(f*float64(c1-c0))), r0+int(math.Round(f*float64(r1-r0))), '·')
		}
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.Position == nil {
			continue
		}
		box := t.ApplyRect(n.Box(size))
		c0, r0 := toCell(box.Min())
		c1, r1 := toCell(box.Max())
		if c1-c0 < 2 || r1-r0 < 2 {
			c1, r1 = c0+2, r0+2
		}
		runes := plainBox
		if n.ID == selected {
			runes = selectedBox
		}
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				switch {
				case r == r0 && c == c0:
					set(c, r, runes.tl)
				case r == r0 && c == c1:
					set(c, r, runes.tr)
				case r == r1 && c == c0:
					set(c, r, runes.bl)
				case r == r1 && c == c1:
					set(c, r, runes.br)
				case r == r0 || r == r1:
					set(c, r, runes.h)
				case c == c0 || c == c1:
					set(c, r, runes.v)
				default:
					set(c, r, ' ')
				}
			}
		}

		label := []rune(statusMark(n.EffectiveStatus()) + " " + nodeTitle(n))
		width := c1 - c0 - 1
		if len(label) > width {
			label = label[:max(width, 0)]
		}
		start := c0 + 1 + (width-len(label))/2
		mid := (r0 + r1) / 2
		for k, r := range label {
			set(start+k, mid, r)
		}
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

func toCell(p geometry.Point) (col, row int) {
	return int(math.Floor(p.X / cellW)), int(math.Floor(p.Y / cellH))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
