package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowtower/pkg/cache"
	"github.com/matzehuels/flowtower/pkg/layout"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

type fakeBackend struct {
	name  string
	data  []byte
	err   error
	calls int
}

func (f *fakeBackend) Name() string   { return f.name }
func (f *fakeBackend) Format() Format { return FormatPNG }
func (f *fakeBackend) Export(context.Context, Snapshot, float64) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func sampleData() *workflow.Data {
	d := &workflow.Data{
		Nodes: []workflow.Node{
			{ID: "start", Type: workflow.NodeStart, Label: "Start", Status: workflow.StatusCompleted},
			{ID: "approve?", Type: workflow.NodeDecision, Label: "Approve \"it\"", Status: workflow.StatusActive},
			{ID: "ship", Type: workflow.NodeSubprocess, Label: "Ship", Status: workflow.StatusSkipped},
			{ID: "end", Type: workflow.NodeEnd, Label: "End"},
		},
		Edges: []workflow.Edge{
			{ID: "e1", From: "start", To: "approve?"},
			{ID: "e2", From: "approve?", To: "ship", Label: "yes", Condition: "amount < 100"},
			{ID: "e3", From: "ship", To: "end", Animated: true},
			{ID: "e4", From: "ship", To: "nowhere"},
		},
	}
	d.Normalize()
	layout.Apply(d, workflow.DefaultOptions())
	return d
}

func snapshot() Snapshot {
	return Snapshot{
		Instance: "test",
		SVG:      []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`),
		Data:     sampleData(),
		Options:  workflow.DefaultOptions(),
	}
}

func TestExportFirstBackendWins(t *testing.T) {
	a := &fakeBackend{name: "a", data: []byte("png-a")}
	b := &fakeBackend{name: "b", data: []byte("png-b")}
	e := New(WithBackends(a, b))

	res, err := e.Export(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "a", res.Backend)
	assert.Equal(t, FormatPNG, res.Format)
	assert.Equal(t, []byte("png-a"), res.Bytes)
	assert.Equal(t, 0, b.calls)
}

func TestExportFallsBack(t *testing.T) {
	a := &fakeBackend{name: "a", err: errors.New("decode failed")}
	b := &fakeBackend{name: "b", data: []byte("png-b")}
	res, err := New(WithBackends(a, b)).Export(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "b", res.Backend)
	assert.Equal(t, 1, a.calls)
}

func TestExportSVGFallback(t *testing.T) {
	a := &fakeBackend{name: "a", err: errors.New("no rasterizer")}
	snap := snapshot()
	res, err := New(WithBackends(a)).Export(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, res.Format)
	assert.Equal(t, snap.SVG, res.Bytes)
}

func TestExportCached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	a := &fakeBackend{name: "a", data: []byte("png-a")}
	e := New(WithBackends(a), WithCache(c, 0))

	first, err := e.Export(context.Background(), snapshot())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := e.Export(context.Background(), snapshot())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, 1, a.calls)

	changed := snapshot()
	changed.SVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`)
	third, err := e.Export(context.Background(), changed)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, a.calls)
}

func TestExportCachedPerBackend(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	a := &fakeBackend{name: "rsvg", err: errors.New("rsvg-convert not found")}
	b := &fakeBackend{name: "graphviz", data: []byte("png-graphviz")}
	e := New(WithBackends(a, b), WithCache(c, 0))

	first, err := e.Export(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "graphviz", first.Backend)
	assert.False(t, first.Cached)

	second, err := e.Export(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "graphviz", second.Backend)
	assert.True(t, second.Cached)
	assert.Equal(t, []byte("png-graphviz"), second.Bytes)
	assert.Equal(t, 2, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeBackend{name: "a", data: []byte("png")}
	_, err := New(WithBackends(a)).Export(ctx, snapshot())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, a.calls)
}

func TestToDOT(t *testing.T) {
	d := sampleData()
	dot := ToDOT(d, workflow.DefaultOptions())

	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `"start" [label="Start", shape=circle`)
	assert.Contains(t, dot, `shape=diamond`)
	assert.Contains(t, dot, `label="Approve \"it\""`)
	assert.Contains(t, dot, `style="rounded,filled,dashed"`)
	assert.Contains(t, dot, `label="yes [amount < 100]"`)
	assert.Contains(t, dot, `"ship" -> "end" [color=`)
	assert.NotContains(t, dot, "nowhere")

	// start sits at the origin; its center is half a node in, y negated.
	assert.Contains(t, dot, `pos="90.00,-30.00!"`)
}

func TestToDOTUnplacedNodes(t *testing.T) {
	d := &workflow.Data{Nodes: []workflow.Node{{ID: "a", Type: workflow.NodeTask}}}
	dot := ToDOT(d, workflow.DefaultOptions())
	assert.NotContains(t, dot, "pos=")
	assert.Contains(t, dot, `label="a"`)
}

func TestGraphvizBackend(t *testing.T) {
	png, err := Graphviz{}.Export(context.Background(), snapshot(), 1)
	require.NoError(t, err)
	require.True(t, len(png) > 8, "PNG should be larger than header")
	assert.Equal(t, byte(0x89), png[0])
	assert.Equal(t, byte('P'), png[1])
	assert.Equal(t, byte('N'), png[2])
	assert.Equal(t, byte('G'), png[3])
}

func TestGraphvizBackendNoData(t *testing.T) {
	_, err := Graphviz{}.Export(context.Background(), Snapshot{}, 1)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestToMermaid(t *testing.T) {
	out := ToMermaid(sampleData(), workflow.DefaultOptions())

	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, `start(("Start"))`)
	assert.Contains(t, out, `approve_{"Approve #quot;it#quot;"}`)
	assert.Contains(t, out, `ship[["Ship"]]`)
	assert.Contains(t, out, `approve_ -->|yes [amount < 100]| ship`)
	assert.Contains(t, out, `ship -.-> end`)
	assert.Contains(t, out, "class approve_ active")
	assert.NotContains(t, out, "nowhere")

	vertical := workflow.DefaultOptions()
	vertical.Direction = workflow.Vertical
	assert.True(t, strings.HasPrefix(ToMermaid(sampleData(), vertical), "graph TD\n"))
}

func TestWithDPI(t *testing.T) {
	out := withDPI("digraph G {\n}\n", 144)
	assert.Equal(t, "digraph G {\n  dpi=144;\n}\n", out)
}
