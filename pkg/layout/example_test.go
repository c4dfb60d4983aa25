package layout_test

import (
	"fmt"

	"github.com/matzehuels/flowtower/pkg/layout"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

func ExampleApply() {
	d := &workflow.Data{
		Nodes: []workflow.Node{
			{ID: "start", Type: workflow.NodeStart},
			{ID: "review", Type: workflow.NodeDecision},
			{ID: "end", Type: workflow.NodeEnd},
		},
		Edges: []workflow.Edge{
			{ID: "e1", From: "start", To: "review"},
			{ID: "e2", From: "review", To: "end"},
		},
	}

	levels := layout.Apply(d, workflow.DefaultOptions())
	fmt.Println("Levels:", levels)
	for _, n := range d.Nodes {
		fmt.Printf("%s: (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	// Output:
	// Levels: [[start] [review] [end]]
	// start: (0, 0)
	// review: (260, 0)
	// end: (520, 0)
}
