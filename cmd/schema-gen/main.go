package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/blimu-dev/schema-gen/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:           "schema-gen",
		Short:         "Generate Go models from JSON Schema documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newConfigSchemaCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var schema string
	var kind string
	var outDir string
	var packageName string
	var rootName string
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), cli.RunGenerateParams{
				ConfigPath: configPath,
				Fallback: cli.FallbackParams{
					Schema:   schema,
					Kind:     kind,
					OutDir:   outDir,
					Package:  packageName,
					RootName: rootName,
				},
				Verbose: verbose,
				Quiet:   quiet,
				Out:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to schema-gen.yaml config")
	// Fallback single-document flags
	cmd.Flags().StringVar(&schema, "schema", "", "Schema document (json/yaml)")
	cmd.Flags().StringVar(&kind, "kind", "", "Document kind: jsonschema or openapi")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&packageName, "package", "", "Go package name")
	cmd.Flags().StringVar(&rootName, "root-name", "", "Type name of the root schema")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every pipeline stage")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.MarkFlagsMutuallyExclusive("config", "schema")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var kind string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate <schema>...",
		Short: "Validate schema documents and their references",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), cli.RunValidateParams{Inputs: args, Kind: kind, Verbose: verbose})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Document kind: jsonschema or openapi")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every pipeline stage")
	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of schema-gen.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunConfigSchema(cmd.OutOrStdout())
		},
	}
}
