package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formlayout/pkg/binding"
	"github.com/goliatone/go-formlayout/pkg/properties"
)

func newPropertiesCmd(a *app) *cobra.Command {
	var openapiPath, schema string
	cmd := &cobra.Command{
		Use:   "properties [file|dir...]",
		Short: "Print the bindable properties",
		Long: `properties prints the property declarations a layout can bind to, as a
property document. Sources are the given files or directories, an OpenAPI
component schema, or the configured defaults. With --openapi and no --schema
the component schema names are listed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if openapiPath != "" {
				a.cfg.OpenAPI = openapiPath
				a.cfg.Schema = schema
			}
			if a.cfg.OpenAPI != "" && a.cfg.Schema == "" {
				data, err := os.ReadFile(a.cfg.OpenAPI)
				if err != nil {
					return fmt.Errorf("read openapi document: %w", err)
				}
				names, err := properties.SchemaNames(ctx, data)
				if err != nil {
					return err
				}
				if len(names) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
				}
				return nil
			}

			var props []binding.Property
			for _, path := range args {
				loaded, err := loadPropertyPath(path)
				if err != nil {
					return err
				}
				if props, err = properties.Merge(props, loaded); err != nil {
					return err
				}
			}
			configured, err := a.properties(ctx)
			if err != nil {
				return err
			}
			if props, err = properties.Merge(props, configured); err != nil {
				return err
			}
			if len(props) == 0 {
				props = binding.DefaultProperties()
			}

			data, err := yaml.Marshal(map[string][]binding.Property{"properties": props})
			if err != nil {
				return fmt.Errorf("encode properties: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&openapiPath, "openapi", "", "OpenAPI document declaring the properties")
	cmd.Flags().StringVar(&schema, "schema", "", "Component schema inside the OpenAPI document")
	return cmd
}
