// Package cli implements the flowtower command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtower/pkg/buildinfo"
	"github.com/matzehuels/flowtower/pkg/cache"
	"github.com/matzehuels/flowtower/pkg/config"
	"github.com/matzehuels/flowtower/pkg/errors"
	pkgio "github.com/matzehuels/flowtower/pkg/io"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowtower lays out and renders interactive workflow diagrams",
		Long:         `Flowtower turns workflow documents (nodes, edges and statuses) into laid-out diagrams you can render to images, explore in the terminal, or host for live pan, zoom and drag sessions.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/flowtower/config.toml)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// =============================================================================
// Config & Cache
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newCache opens the configured cache. The file backend falls back to the
// XDG cache directory.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	return cfg.Cache.Open(ctx, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowtower/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Document Helpers
// =============================================================================

// loadDocument imports a workflow document and resolves its options: the
// document's own options win over the configured diagram defaults.
func loadDocument(path string, cfg config.Config) (*pkgio.Document, workflow.Options, error) {
	doc, err := pkgio.Import(path)
	if err != nil {
		return nil, workflow.Options{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "load %s", path)
	}
	opts := cfg.Diagram
	if doc.Options != nil {
		opts = *doc.Options
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, workflow.Options{}, errors.Wrap(errors.ErrCodeInvalidOptions, err, "%s options", path)
	}
	return doc, opts, nil
}

// applyDirection overrides the layout direction when a flag names one.
func applyDirection(opts *workflow.Options, direction string) error {
	if direction == "" {
		return nil
	}
	d := workflow.Direction(strings.ToLower(direction))
	if d != workflow.Horizontal && d != workflow.Vertical {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (must be 'horizontal' or 'vertical')", direction)
	}
	opts.Direction = d
	return nil
}
