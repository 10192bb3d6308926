package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formlayout/internal/config"
	"github.com/goliatone/go-formlayout/internal/ctxlog"
	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/orchestrator"
	"github.com/goliatone/go-formlayout/pkg/properties"
	"github.com/goliatone/go-formlayout/pkg/renderers/tui"
	"github.com/goliatone/go-formlayout/pkg/store"
)

// app holds the state shared by every command.
type app struct {
	configPath string
	database   string
	logLevel   string

	cfg    config.Config
	getenv func(string) string
	// driver replaces the survey prompts of `fill` when set.
	driver tui.PromptDriver
}

func newApp() *app {
	return &app{getenv: os.Getenv}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formlayout",
		Short: "Build form layouts on a grid",
		Long: `formlayout edits form layouts: a grid of cells holding widgets,
with merged cells, nested tables and {{ key }} bindings. Layouts are JSON or
YAML documents and can be rendered as HTML, terminal text or a workbook.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file (YAML)")
	root.PersistentFlags().StringVar(&a.database, "database", "", "Layout library database (default from config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newNewCmd(a),
		newApplyCmd(a),
		newRenderCmd(a),
		newFillCmd(a),
		newPropertiesCmd(a),
		newLayoutsCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and stores a logger
// on the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return err
	}
	if a.database != "" {
		cfg.Database = a.database
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, cfg.Logger(cmd.ErrOrStderr())))
	return nil
}

// properties returns the declared properties from the configured property
// files and OpenAPI schema, or nil when neither is configured.
func (a *app) properties(ctx context.Context) ([]binding.Property, error) {
	var out []binding.Property
	if a.cfg.Properties != "" {
		props, err := loadPropertyPath(a.cfg.Properties)
		if err != nil {
			return nil, err
		}
		out = props
	}
	if a.cfg.OpenAPI != "" && a.cfg.Schema != "" {
		data, err := os.ReadFile(a.cfg.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		props, err := properties.FromOpenAPI(ctx, data, a.cfg.Schema)
		if err != nil {
			return nil, err
		}
		if out, err = properties.Merge(out, props); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (a *app) orchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	props, err := a.properties(ctx)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if len(props) > 0 {
		opts = append(opts, orchestrator.WithProperties(props))
	}
	return orchestrator.New(opts...), nil
}

func (a *app) library(ctx context.Context) (*store.Library, io.Closer, error) {
	db, err := store.OpenSQLite(ctx, a.cfg.Database, store.WithLogger(ctxlog.FromContext(ctx)))
	if err != nil {
		return nil, nil, err
	}
	return store.NewLibrary(db), db, nil
}

func loadPropertyPath(path string) ([]binding.Property, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	if info.IsDir() {
		return properties.LoadFS(os.DirFS(path))
	}
	return properties.LoadFile(path)
}

// writeOutput writes data to path, or to the command output when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	ctxlog.FromContext(cmd.Context()).Info("output written", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}
