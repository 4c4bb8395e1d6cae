package fetch

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dtnitsch/stealth-fetch-mcp/internal/common"
	"github.com/dtnitsch/stealth-fetch-mcp/internal/server"
	"github.com/dtnitsch/stealth-fetch-mcp/models"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/db"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/fetcher"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/parser"
	"github.com/dtnitsch/stealth-fetch-mcp/pkg/tools"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// runtime is everything an action needs, built from flags and config.
type runtime struct {
	cfg      *models.Config
	logger   *slog.Logger
	store    *db.DB
	registry *tools.Registry
}

func setup(c *cli.Context) (*runtime, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(c, cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	store, err := db.Open(cfg.Storage.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open element store: %w", err)
	}

	svc := &tools.Service{
		Fetcher: &fetcher.Selector{
			HTTP: fetcher.NewHTTPEngine(
				fetcher.WithUserAgent(cfg.HTTP.UserAgent),
				fetcher.WithProxy(cfg.HTTP.Proxy),
				fetcher.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
			),
			Browser: fetcher.NewBrowserEngine(
				fetcher.WithBrowserBin(cfg.Browser.Bin),
				fetcher.WithBrowserProxy(cfg.Browser.Proxy),
				fetcher.WithBrowserLogger(logger),
			),
			Logger: logger,
		},
		Normalizer: &parser.Normalizer{
			Converter: &parser.Parser{Readability: cfg.Markdown.Readability, Logger: logger},
			Store:     store,
			Logger:    logger,
		},
		Logger: logger,
	}

	registry, err := svc.NewRegistry()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, store: store, registry: registry}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close element store", "error", err)
	}
}

// newLogger logs JSON to stderr; stdout carries the MCP stream.
func newLogger(c *cli.Context, cfg *models.Config) (*slog.Logger, error) {
	name := cfg.Log.Level
	if c.IsSet("log-level") {
		name = c.String("log-level")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// ServeAction runs the MCP server on stdin/stdout until interrupted.
func ServeAction(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("Starting server", "name", rt.cfg.Server.Name, "version", rt.cfg.Server.Version,
		"element_store", rt.store.Path())
	return server.New(rt.cfg.Server.Name, rt.cfg.Server.Version, rt.registry, rt.logger).Run(ctx)
}

// FetchAction performs one scrapling-fetch call and prints the window.
func FetchAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one URL, got %d arguments", c.NArg())
	}
	target, err := common.ValidateURL(c.Args().First())
	if err != nil {
		return err
	}

	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	args := map[string]any{
		"url":         target,
		"mode":        c.String("mode"),
		"format":      c.String("format"),
		"max_length":  c.Int("max-length"),
		"start_index": c.Int("start-index"),
	}
	out, err := rt.registry.Invoke(c.Context, tools.ScraplingFetchName, args)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, out)
	return err
}

// ToolsAction prints the tool descriptors the server advertises.
func ToolsAction(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	return writeYAML(c, rt.registry.Descriptors())
}

// ElementsAction prints the fingerprints auto_save stored for a domain and
// selector.
func ElementsAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: elements <domain> <selector>")
	}

	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.store.Path() == db.MemoryPath {
		return fmt.Errorf("no element store configured; set storage.db or STEALTH_FETCH_DB")
	}

	domain := strings.TrimPrefix(strings.ToLower(c.Args().Get(0)), "www.")
	elements, err := rt.store.LoadElements(c.Context, domain, c.Args().Get(1))
	if err != nil {
		return err
	}
	if len(elements) == 0 {
		_, err := fmt.Fprintf(c.App.Writer, "No elements saved for %s %q\n", domain, c.Args().Get(1))
		return err
	}
	return writeYAML(c, elements)
}

func writeYAML(c *cli.Context, v any) error {
	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
