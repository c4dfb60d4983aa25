package cli

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/render/scene"
)

// viewCommand creates the view command for exploring a diagram in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Explore a diagram interactively in the terminal",
		Long: `Explore a diagram interactively in the terminal.

The diagram is drawn with box characters and responds to the same gestures
as the browser view: drag nodes and the canvas with the mouse, scroll to
zoom, or use the keyboard (tab to select a node, hjkl to drag it, arrows to
pan, +/- to zoom, f to fit, s to cycle the node's status).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], direction)
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "layout direction: horizontal, vertical")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input, direction string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, opts, err := loadDocument(input, cfg)
	if err != nil {
		return err
	}
	if err := applyDirection(&opts, direction); err != nil {
		return err
	}

	events := &eventLog{}
	surface := scene.NewSVGSurface(canvasSize(80, 24))
	// The alternate screen owns the terminal, so the instance logs nowhere.
	inst, err := diagram.New(surface, doc.Data, opts,
		diagram.WithContext(ctx),
		diagram.WithNotifier(events.events()),
	)
	if err != nil {
		return err
	}
	defer inst.Dispose()

	model := NewDiagramModel(inst, events, filepath.Base(input))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
