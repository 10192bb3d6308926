package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formlayout/internal/ctxlog"
	"github.com/goliatone/go-formlayout/pkg/canvas"
	"github.com/goliatone/go-formlayout/pkg/document"
	"github.com/goliatone/go-formlayout/pkg/orchestrator"
	"github.com/goliatone/go-formlayout/pkg/render"
	"github.com/goliatone/go-formlayout/pkg/renderers/tui"
	"github.com/goliatone/go-formlayout/pkg/script"
)

func newNewCmd(a *app) *cobra.Command {
	var rows, columns int
	cmd := &cobra.Command{
		Use:   "new <layout.json|layout.yaml>",
		Short: "Write an empty layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows == 0 {
				rows = a.cfg.Rows
			}
			if columns == 0 {
				columns = a.cfg.Columns
			}
			if rows < 1 || columns < 1 {
				return fmt.Errorf("layout size must be at least 1x1, got %dx%d", rows, columns)
			}
			c := canvas.New(canvas.WithSize(rows, columns), canvas.WithLogger(ctxlog.FromContext(cmd.Context())))
			if err := document.WriteFile(args[0], c.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Layout written to %s (%dx%d)\n", args[0], rows, columns)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "Row count (default from config)")
	cmd.Flags().IntVar(&columns, "columns", 0, "Column count (default from config)")
	return cmd
}

func newApplyCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "apply <layout> <script>",
		Short: "Apply an edit script to a layout",
		Long: `apply runs the steps of an edit script against a layout and writes the
result back to the layout file, or to --output. Steps stop at the first
refused edit; nothing is written in that case.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := script.ParseFile(args[1])
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			c, err := orch.Canvas(ctx, orchestrator.Request{LayoutPath: args[0], Script: &s})
			if err != nil {
				return err
			}
			target := output
			if target == "" {
				target = args[0]
			}
			if err := document.WriteFile(target, c.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d steps, layout written to %s\n", len(s.Steps), target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output layout path (default: overwrite the input)")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		renderer string
		mode     string
		output   string
		sanitize bool
		values   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "render <layout>",
		Short: "Render a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := render.ParseMode(mode)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			out, err := orch.Generate(ctx, orchestrator.Request{
				LayoutPath: args[0],
				Values:     values,
				Renderer:   renderer,
				Mode:       m,
				Sanitize:   sanitize,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVar(&renderer, "renderer", "vanilla", "Renderer: vanilla, terminal, xlsx")
	cmd.Flags().StringVar(&mode, "mode", string(render.ModePreview), "Render mode: builder, preview, export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Sanitize HTML output")
	cmd.Flags().StringToStringVar(&values, "set", nil, "Binding values as key=value")
	return cmd
}

func newFillCmd(a *app) *cobra.Command {
	var (
		format   string
		instance bool
		output   string
		values   map[string]string
	)
	cmd := &cobra.Command{
		Use:   "fill <layout>",
		Short: "Prompt for every bound value of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			outputFormat, ok := tui.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("invalid format: %s (must be json, form, or pretty)", format)
			}
			orch, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			c, err := orch.Canvas(ctx, orchestrator.Request{LayoutPath: args[0], Values: values})
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			renderer := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(outputFormat),
				tui.WithInstanceScope(instance),
				tui.WithLogger(ctxlog.FromContext(ctx)),
			)
			table, opts := render.FromCanvas(c, render.ModePreview)
			out, err := renderer.Render(ctx, table, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "Output format: json, form, pretty")
	cmd.Flags().BoolVar(&instance, "instance", false, "Ask every widget separately, even when keys repeat")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringToStringVar(&values, "set", nil, "Prefilled values as key=value")
	return cmd
}
