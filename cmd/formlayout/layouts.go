package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formlayout/pkg/document"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func newLayoutsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage the library of saved layouts",
	}
	cmd.AddCommand(
		newLayoutsSaveCmd(a),
		newLayoutsListCmd(a),
		newLayoutsShowCmd(a),
		newLayoutsRemoveCmd(a),
	)
	return cmd
}

func newLayoutsSaveCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save <layout>",
		Short: "Save a layout file into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			table, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			lib, closer, err := a.library(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()

			saved, err := lib.Save(ctx, name, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", saved.ID, saved.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Layout name (default: Untitled)")
	return cmd
}

func newLayoutsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			lib, closer, err := a.library(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()

			layouts, err := lib.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(layouts) == 0 {
				fmt.Fprintln(out, "No saved layouts")
				return nil
			}
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-12s %-24s %s", "ID", "NAME", "UPDATED")))
			for _, l := range layouts {
				rows, cols := l.Table.Dimensions()
				fmt.Fprintf(out, "%s %-24s %s (%dx%d)\n",
					idStyle.Render(fmt.Sprintf("%-12s", l.ID)), l.Name, l.UpdatedAt.Format(time.RFC3339), rows, cols)
			}
			return nil
		},
	}
}

func newLayoutsShowCmd(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved layout document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := document.ParseFormat(format)
			if err != nil {
				return err
			}
			if output != "" && format == "" {
				f = document.FormatFromPath(output)
			}
			lib, closer, err := a.library(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()

			layout, err := lib.Select(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := document.Encode(layout.Table, f)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Document format: json, yaml (default from --output or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func newLayoutsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a saved layout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, closer, err := a.library(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := lib.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
