package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/flowtower/pkg/io"
	"github.com/matzehuels/flowtower/pkg/layout"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		direction string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute node positions for a workflow document",
		Long: `Compute node positions for a workflow document.

Nodes are assigned to levels by their longest path from a root; levels are
spread along the layout direction and nodes within a level across it. Nodes
that already carry a position keep it.

The level table is printed to stdout. With -o the document is written back
with every position filled in, ready for 'render' or 'serve'.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, direction, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the positioned document to this JSON file")
	cmd.Flags().StringVar(&direction, "direction", "", "layout direction: horizontal, vertical (default: from document or config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the document, lays it out, and prints or writes the result.
func (c *CLI) runLayout(ctx context.Context, input, output, direction string, noCache bool) error {
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

	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	prog := newProgress(c.Logger)
	levels, cached := layout.ApplyCached(ctx, store, cfg.Cache.Keyer(), &doc.Data, opts, cfg.Cache.TTL)
	prog.done(fmt.Sprintf("Laid out %s", filepath.Base(input)))

	fmt.Println(levelTable(&doc.Data, levels))
	tag := "fresh"
	if cached {
		tag = "cached"
	}
	printStats(&doc.Data, fmt.Sprintf("%d levels", len(levels)), tag)

	if output == "" {
		return nil
	}
	doc.Options = &opts
	if err := pkgio.Export(doc, output); err != nil {
		return err
	}
	printFile(output)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, output))
	return nil
}

// levelTable renders one row per node, grouped by level.
func levelTable(d *workflow.Data, levels [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	rows := make([][]string, 0, len(d.Nodes))
	statuses := make([]workflow.Status, 0, len(d.Nodes))
	for lvl, ids := range levels {
		for _, id := range ids {
			n := d.Node(id)
			if n == nil {
				continue
			}
			x, y := "—", "—"
			if n.Position != nil {
				x = fmt.Sprintf("%.0f", n.Position.X)
				y = fmt.Sprintf("%.0f", n.Position.Y)
			}
			st := n.EffectiveStatus()
			statuses = append(statuses, st)
			rows = append(rows, []string{fmt.Sprint(lvl), n.ID, nodeTitle(n), string(n.Type), statusMark(st) + " " + string(st), x, y})
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Level", "ID", "Label", "Type", "Status", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(rows) {
				return lipgloss.NewStyle()
			}
			switch col {
			case 0, 5, 6:
				return lipgloss.NewStyle().Foreground(colorAccent)
			case 4:
				return statusStyle(statuses[row])
			}
			return lipgloss.NewStyle().Foreground(colorText)
		}).
		Render()
}

// nodeTitle is the label shown for n, falling back to its ID.
func nodeTitle(n *workflow.Node) string {
	if strings.TrimSpace(n.Label) != "" {
		return n.Label
	}
	return n.ID
}
