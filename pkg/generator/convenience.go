package generator

import (
	"context"
	"path/filepath"

	"github.com/blimu-dev/schema-gen/pkg/config"
)

// GenerateModels is a convenience function for generating models with minimal configuration
func GenerateModels(opts GenerateModelsOptions) (*Report, error) {
	service, err := NewService()
	if err != nil {
		return nil, err
	}

	genOpts := GenerateOptions{
		ConfigPath: opts.ConfigPath,
		Fallback: FallbackOptions{
			Schema:   opts.Schema,
			Kind:     opts.Kind,
			OutDir:   opts.OutDir,
			Package:  opts.Package,
			RootName: opts.RootName,
		},
	}

	return service.Generate(context.Background(), genOpts)
}

// GenerateModelsOptions contains options for the convenience GenerateModels function
type GenerateModelsOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Fallback options when no config file is provided
	Schema   string // Schema document, JSON or YAML
	Kind     string // Document kind: jsonschema (default) or openapi
	OutDir   string // Output directory
	Package  string // Go package name of the generated file
	RootName string // Type name of the root schema
}

// GenerateGoModels compiles a single JSON Schema document into a Go package below outDir
func GenerateGoModels(schema, outDir, pkg string) error {
	// Ensure absolute path for outDir
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	_, err = GenerateModels(GenerateModelsOptions{
		Schema:  schema,
		OutDir:  absOutDir,
		Package: pkg,
	})
	return err
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(configPath string) (*Report, error) {
	service, err := NewService()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return service.GenerateFromConfig(context.Background(), cfg)
}

// ValidateSchema validates one schema document and the references it makes
func ValidateSchema(path, kind string) error {
	return ValidateSchemas(context.Background(), kind, path)
}
