// Package schemagen compiles JSON Schema documents into strongly-typed Go
// source.
//
// Each document becomes one Go file holding a named type for every schema
// that needs one: records become structs, oneOf/anyOf become tagged unions,
// string enums become named string types. The generated types decode and
// encode themselves through the runtime package
// github.com/blimu-dev/schema-gen/pkg/wire.
//
// Quick Start:
//
//	import schemagen "github.com/blimu-dev/schema-gen"
//
//	// Generate a package from one schema
//	err := schemagen.GenerateGoModels("./schemas/pet.json", "./models", "pets")
//
// For more advanced usage, see the generator package.
package schemagen

import (
	"context"

	"github.com/blimu-dev/schema-gen/pkg/document"
	"github.com/blimu-dev/schema-gen/pkg/generator"
	"github.com/blimu-dev/schema-gen/pkg/generator/golang"
	"github.com/blimu-dev/schema-gen/pkg/naming"
	"github.com/blimu-dev/schema-gen/pkg/synth"
)

// GenerateGoModels is a convenience function for compiling a single schema
// document into a Go package below outDir.
//
// Example:
//
//	err := schemagen.GenerateGoModels("./pet.yaml", "./gen", "pets")
func GenerateGoModels(schema, outDir, pkg string) error {
	return generator.GenerateGoModels(schema, outDir, pkg)
}

// Generate generates models with full configuration options.
//
// Example:
//
//	report, err := schemagen.Generate(schemagen.GenerateOptions{
//		Schema:   "./openapi.yaml",
//		Kind:     "openapi",
//		OutDir:   "./gen",
//		Package:  "api",
//	})
func Generate(opts GenerateOptions) (*generator.Report, error) {
	return generator.GenerateModels(generator.GenerateModelsOptions{
		ConfigPath: opts.ConfigPath,
		Schema:     opts.Schema,
		Kind:       opts.Kind,
		OutDir:     opts.OutDir,
		Package:    opts.Package,
		RootName:   opts.RootName,
	})
}

// GenerateFromConfig generates every document listed in a YAML
// configuration file. A failing document does not stop the others; the
// error then is a *diag.BatchError naming each failure.
//
// Example:
//
//	report, err := schemagen.GenerateFromConfig("./schema-gen.yaml")
func GenerateFromConfig(configPath string) (*generator.Report, error) {
	return generator.GenerateFromConfig(configPath)
}

// ValidateSchema checks a schema document against its meta-schema and
// verifies that every reference in it resolves.
//
// Example:
//
//	if err := schemagen.ValidateSchema("./pet.json"); err != nil {
//		log.Fatalf("Invalid schema: %v", err)
//	}
func ValidateSchema(path string) error {
	return generator.ValidateSchema(path, "")
}

// Compile runs the whole pipeline on an in-memory document and returns the
// generated Go source. name is used for the file banner and to resolve
// self-references; it should carry the document's file extension.
func Compile(ctx context.Context, name string, data []byte, opts CompileOptions) ([]byte, error) {
	doc, err := document.LoadData(ctx, name, opts.Kind, data)
	if err != nil {
		return nil, err
	}
	gen, err := golang.NewGoGenerator()
	if err != nil {
		return nil, err
	}
	emit := golang.DefaultOptions()
	emit.Source = name
	if opts.Package != "" {
		emit.Package = opts.Package
	}
	unit, err := generator.Compile(document.NewSet(doc), doc.Name, gen, generator.CompileOptions{
		Synth:  synth.Options{RootName: opts.RootName, MaxArity: opts.MaxUnionArity},
		Naming: naming.Options{TypeSuffix: opts.TypeSuffix},
		Emit:   emit,
	}, nil)
	if err != nil {
		return nil, err
	}
	return unit.Source, nil
}

// GenerateOptions contains options for model generation
type GenerateOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Fallback options when no config file is provided
	Schema   string // Schema document, JSON or YAML
	Kind     string // jsonschema (default) or openapi
	OutDir   string // Output directory
	Package  string // Go package name
	RootName string // Type name of the root schema
}

// CompileOptions configures Compile.
type CompileOptions struct {
	Kind          string // jsonschema (default) or openapi
	Package       string // Go package name (default models)
	RootName      string // Type name of the root schema (default Root)
	TypeSuffix    string // Appended to every type name
	MaxUnionArity int    // Union width bound (default 9)
}
