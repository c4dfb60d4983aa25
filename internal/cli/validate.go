package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtower/pkg/errors"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check workflow documents against the schema",
		Long: `Validate decodes each document, checks it against the workflow schema and
verifies node IDs, node types, statuses and options.

Edges that reference unknown nodes are reported as warnings; they are kept in
the document but never drawn.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			failed := 0
			for _, path := range args {
				doc, _, err := loadDocument(path, cfg)
				if err != nil {
					printError("%s", err)
					failed++
					continue
				}
				printSuccess("%s", path)
				printStats(&doc.Data)
				for _, e := range danglingEdges(&doc.Data) {
					printWarning("edge %s references an unknown node", e.ID)
				}
			}
			if failed > 0 {
				return errValidation(failed)
			}
			return nil
		},
	}
}

// danglingEdges returns the edges whose endpoints are not both present.
func danglingEdges(d *workflow.Data) []workflow.Edge {
	valid := make(map[string]bool, len(d.Edges))
	for _, e := range d.ValidEdges() {
		valid[e.ID] = true
	}
	var out []workflow.Edge
	for _, e := range d.Edges {
		if !valid[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func errValidation(failed int) error {
	return errors.New(errors.ErrCodeInvalidDocument, "%d document(s) failed validation", failed)
}
