package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/flowtower/pkg/camera"
	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/render/scene"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

func newTestModel(t *testing.T) (DiagramModel, *diagram.Instance, *eventLog) {
	t.Helper()
	data := workflow.Data{
		Nodes: []workflow.Node{{ID: "A", Label: "Start"}, {ID: "B", Label: "Work"}, {ID: "C", Label: "Done"}},
		Edges: []workflow.Edge{{From: "A", To: "B"}, {From: "B", To: "C"}},
	}
	opts := workflow.DefaultOptions()
	opts.FitToScreen = false

	events := &eventLog{}
	inst, err := diagram.New(scene.NewSVGSurface(canvasSize(120, 40)), data, opts, diagram.WithNotifier(events.events()))
	if err != nil {
		t.Fatalf("diagram.New: %v", err)
	}
	t.Cleanup(inst.Dispose)
	m := NewDiagramModel(inst, events, "flow")
	m.cols, m.rows = 120, 40
	return m, inst, events
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m DiagramModel, msgs ...tea.Msg) DiagramModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(DiagramModel)
	}
	return m
}

func TestDiagramModelZoomKeys(t *testing.T) {
	m, inst, events := newTestModel(t)

	send(m, key("+"))
	if k := inst.Transform().K; k < 1.19 || k > 1.21 {
		t.Errorf("zoom in: K = %v, want 1.2", k)
	}
	send(m, key("0"))
	if got := inst.Transform(); got != camera.Identity {
		t.Errorf("reset: transform = %+v, want identity", got)
	}
	if len(events.lines) == 0 || !strings.HasPrefix(events.lines[len(events.lines)-1], "view") {
		t.Errorf("transform changes should be logged, got %v", events.lines)
	}
}

func TestDiagramModelDragSelected(t *testing.T) {
	m, inst, events := newTestModel(t)

	m = send(m, key("tab"))
	if got := m.selectedID(); got != "B" {
		t.Fatalf("selected = %q, want B", got)
	}
	send(m, key("l"))

	data := inst.Data()
	want := geometry.Point{X: 260 + nudge, Y: 0}
	if got := *data.Node("B").Position; got != want {
		t.Errorf("B position = %+v, want %+v", got, want)
	}
	if len(events.lines) != 1 || !strings.HasPrefix(events.lines[0], "moved B") {
		t.Errorf("events = %v, want one move of B", events.lines)
	}
}

func TestDiagramModelClickAndStatus(t *testing.T) {
	m, inst, events := newTestModel(t)

	m = send(m, key("tab"), key("enter"))
	if len(events.lines) != 1 || !strings.HasPrefix(events.lines[0], "click B") {
		t.Errorf("events = %v, want a click on B", events.lines)
	}

	send(m, key("s"))
	data := inst.Data()
	if got := data.Node("B").EffectiveStatus(); got != workflow.StatusActive {
		t.Errorf("status after cycling = %q, want active", got)
	}
}

func TestDiagramModelPan(t *testing.T) {
	m, inst, _ := newTestModel(t)

	send(m, key("left"))
	if got := inst.Transform(); got.X != nudge || got.Y != 0 {
		t.Errorf("pan left: transform = %+v, want x=%v", got, nudge)
	}
	data := inst.Data()
	if got := *data.Node("A").Position; got != (geometry.Point{}) {
		t.Errorf("panning must not move nodes, A at %+v", got)
	}
}

func TestDiagramModelMouse(t *testing.T) {
	m, inst, _ := newTestModel(t)

	send(m, tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if k := inst.Transform().K; k <= 1 {
		t.Errorf("wheel up should zoom in, K = %v", k)
	}
}

func TestDiagramModelResize(t *testing.T) {
	m, inst, _ := newTestModel(t)

	send(m, tea.WindowSizeMsg{Width: 60, Height: 30})
	surface := inst.Surface().(*scene.SVGSurface)
	if got, want := surface.Size(), canvasSize(60, 30); got != want {
		t.Errorf("surface size = %+v, want %+v", got, want)
	}
}

func TestDiagramModelView(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"flow", "Start", "Work", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}

func TestDrawCanvas(t *testing.T) {
	d := workflow.Data{Nodes: []workflow.Node{{ID: "A", Label: "Start", Position: &geometry.Point{}}}}
	d.Normalize()
	opts := workflow.DefaultOptions()

	lines := strings.Split(drawCanvas(&d, opts, camera.Identity, 40, 6, ""), "\n")
	if len(lines) != 6 {
		t.Fatalf("drawCanvas() rows = %d, want 6", len(lines))
	}
	if !strings.HasPrefix(lines[0], "┌") {
		t.Errorf("first row should open a box, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "○ Start") {
		t.Errorf("middle row should hold the label, got %q", lines[1])
	}

	selected := drawCanvas(&d, opts, camera.Identity, 40, 6, "A")
	if !strings.HasPrefix(selected, "╔") {
		t.Errorf("selected node should use a double border, got %q", strings.SplitN(selected, "\n", 2)[0])
	}

	if got := drawCanvas(&d, opts, camera.Identity, 0, 6, ""); got != "" {
		t.Errorf("zero-width canvas should be empty, got %q", got)
	}
}

func TestEventLogKeepsRecent(t *testing.T) {
	var l eventLog
	for i := 0; i < maxEvents+2; i++ {
		l.add("event %d", i)
	}
	if len(l.lines) != maxEvents {
		t.Fatalf("len = %d, want %d", len(l.lines), maxEvents)
	}
	if l.lines[0] != "event 2" {
		t.Errorf("oldest kept = %q, want %q", l.lines[0], "event 2")
	}
}
