package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtower/pkg/diagram"
	"github.com/matzehuels/flowtower/pkg/errors"
	"github.com/matzehuels/flowtower/pkg/geometry"
	pkgio "github.com/matzehuels/flowtower/pkg/io"
	"github.com/matzehuels/flowtower/pkg/render"
	"github.com/matzehuels/flowtower/pkg/render/export"
	"github.com/matzehuels/flowtower/pkg/render/scene"
)

// Output formats.
const (
	formatSVG     = "svg"
	formatPNG     = "png"
	formatPDF     = "pdf"
	formatDOT     = "dot"
	formatMermaid = "mermaid"
	formatJSON    = "json"
)

const (
	defaultWidth  = 1280 // default viewport width
	defaultHeight = 800  // default viewport height
)

// validFormats maps each output format to its file extension.
var validFormats = map[string]string{
	formatSVG:     ".svg",
	formatPNG:     ".png",
	formatPDF:     ".pdf",
	formatDOT:     ".dot",
	formatMermaid: ".mmd",
	formatJSON:    ".json",
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats
	width     float64  // viewport width in pixels
	height    float64  // viewport height in pixels
	direction string   // layout direction override
	fit       bool     // fit the diagram into the viewport
	noCache   bool     // disable the export cache
}

// renderCommand creates the render command for generating diagram output.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{width: defaultWidth, height: defaultHeight, fit: true}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a workflow document to SVG, PNG, PDF, DOT, Mermaid or JSON",
		Long: `Render a workflow document.

The document is laid out in a viewport of --width x --height pixels and, with
--fit, scaled to fit it. SVG output is the scene as drawn; PNG goes through
the configured export backends (rsvg-convert, then Graphviz); PDF needs
rsvg-convert. DOT and Mermaid emit the graph for other tools, and JSON writes
the document back with every position filled in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, mermaid, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "layout direction: horizontal, vertical")
	cmd.Flags().BoolVar(&opts.fit, "fit", opts.fit, "fit the diagram into the viewport")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if _, ok := validFormats[f]; !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be svg, png, pdf, dot, mermaid or json)", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries
// a format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, known := range validFormats {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath is the file a format is written to.
func outputPath(opts renderOpts, input, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + validFormats[format]
}

// runRender lays out the document in a headless diagram and writes every
// requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, dopts, err := loadDocument(input, cfg)
	if err != nil {
		return err
	}
	if err := applyDirection(&dopts, opts.direction); err != nil {
		return err
	}
	dopts.FitToScreen = opts.fit
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	store, err := newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	surface := scene.NewSVGSurface(geometry.Size{W: opts.width, H: opts.height})
	inst, err := diagram.New(surface, doc.Data, dopts,
		diagram.WithLogger(logger),
		diagram.WithContext(ctx),
		diagram.WithExporter(cfg.Exporter(store, export.WithLogger(logger))),
	)
	if err != nil {
		return err
	}
	defer inst.Dispose()

	nodes, edges := inst.Counts()
	logger.Debugf("Loaded diagram: %d nodes, %d edges", nodes, edges)

	for _, format := range opts.formats {
		data, err := renderFormat(ctx, inst, format)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := outputPath(opts, input, format)
		if err := writeOutput(path, data); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(data))
		printFile(path)
	}
	return nil
}

// renderFormat produces one output format from a laid-out instance.
func renderFormat(ctx context.Context, inst *diagram.Instance, format string) ([]byte, error) {
	data := inst.Data()
	opts := inst.Options()

	switch format {
	case formatSVG:
		return inst.SceneSVG()
	case formatPNG:
		res, err := spin(ctx, "Rasterizing", func() (diagram.ExportResult, error) {
			select {
			case res := <-inst.ExportImage():
				return res, res.Err
			case <-ctx.Done():
				return diagram.ExportResult{}, ctx.Err()
			}
		})
		if err != nil {
			return nil, err
		}
		if res.Format != export.FormatPNG {
			return nil, errors.New(errors.ErrCodeExportFailed, "no raster backend available (install librsvg or enable graphviz)")
		}
		return res.Bytes, nil
	case formatPDF:
		svg, err := inst.SceneSVG()
		if err != nil {
			return nil, err
		}
		return spin(ctx, "Converting to PDF", func() ([]byte, error) {
			return render.ToPDF(ctx, svg)
		})
	case formatDOT:
		return []byte(export.ToDOT(&data, opts)), nil
	case formatMermaid:
		return []byte(export.ToMermaid(&data, opts)), nil
	case formatJSON:
		var buf bytes.Buffer
		if err := pkgio.Write(&pkgio.Document{Data: data, Options: &opts}, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s", format)
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// openOutput creates path and its parent directories.
func openOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}
