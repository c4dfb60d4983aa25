package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowtower/pkg/geometry"
	"github.com/matzehuels/flowtower/pkg/host"
	pkgio "github.com/matzehuels/flowtower/pkg/io"
)

// serveCommand creates the serve command for hosting live diagrams.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		watch   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Host diagrams over HTTP with live pan, zoom and drag",
		Long: `Host diagrams over HTTP.

Each file given is loaded into a diagram when the server starts; more can be
created with POST /diagrams. Browsers connect to /diagrams/{id}/live over a
websocket, send pointer, wheel and touch gestures, and receive scene updates
and node click, move and transform notifications.

With --watch, each file is reloaded into its diagram whenever it changes on
disk. Dragged positions survive a reload only if the file records them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, addr, watch, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8420)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload files when they change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the export cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, files []string, addr string, watch, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	srv := host.New(
		host.WithLogger(c.Logger),
		host.WithDefaults(cfg.Diagram),
		host.WithSize(geometry.Size{W: cfg.Server.Width, H: cfg.Server.Height}),
		host.WithExporter(cfg.Exporter(store)),
	)

	ids := make(map[string]string, len(files))
	for _, path := range files {
		doc, _, err := loadDocument(path, cfg)
		if err != nil {
			return err
		}
		id, err := srv.Create(doc, geometry.Size{})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ids[path] = id
		printSuccess("%s", path)
		printKeyValue("diagram", StyleHighlight.Render(id))
	}
	printKeyValue("listening", StyleLink.Render("http://"+displayAddr(addr)))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr, cfg.Server.ShutdownTimeout)
	})
	if watch {
		for path, id := range ids {
			g.Go(func() error {
				return host.Watch(ctx, path, c.Logger, func(doc *pkgio.Document) {
					if err := srv.Replace(id, doc); err != nil {
						c.Logger.Warn("reload rejected", "path", path, "err", err)
					}
				})
			})
		}
	}
	return g.Wait()
}

// displayAddr turns a bare ":port" listen address into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
