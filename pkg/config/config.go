package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config represents the complete configuration for model generation
type Config struct {
	// Documents are the schema documents to compile. Each one becomes its
	// own Go package.
	Documents []Document `yaml:"documents" validate:"required,min=1,dive" jsonschema:"required,minItems=1"`
	// OutDir is the root directory generated packages are written below.
	OutDir string `yaml:"outDir" validate:"required" jsonschema:"required"`
	// Package is the package name of a single document that sets none.
	Package string `yaml:"package"`
	// TypeSuffix is appended to every generated type name.
	TypeSuffix string `yaml:"typeSuffix"`
	// TrimPrefixes are stripped from reference pointers before they seed a
	// type name.
	TrimPrefixes []string `yaml:"trimPrefixes"`
	// Excludes lists type names that are referenced but not emitted.
	Excludes []string `yaml:"excludes"`
	// Renames maps a JSON pointer (or dotted name seed) to a type name.
	Renames map[string]string `yaml:"renames"`
	// AnyOfAsOneOf decodes anyOf with first-match semantics.
	AnyOfAsOneOf bool `yaml:"anyOfAsOneOf"`
	// MaxUnionArity bounds oneOf/anyOf width (default 9).
	MaxUnionArity int `yaml:"maxUnionArity" validate:"gte=0" jsonschema:"minimum=0"`
	// EmitComments copies titles and descriptions into doc comments (default true).
	EmitComments *bool `yaml:"emitComments"`
	// EmitConstructors emits New<Type> functions for records (default true).
	EmitConstructors *bool `yaml:"emitConstructors"`
	// Header is placed after the generated-code banner of every file.
	Header string `yaml:"header"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["go", "mod", "tidy"]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// Uses Docker Compose array format: ["gofmt", "-w", "."]
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
}

// Document is one schema document to compile.
type Document struct {
	// Path is the schema file, JSON or YAML.
	Path string `yaml:"path" validate:"required" jsonschema:"required"`
	// Kind is jsonschema (default) or openapi.
	Kind string `yaml:"kind" validate:"omitempty,oneof=jsonschema openapi" jsonschema:"enum=jsonschema,enum=openapi"`
	// RootName names the root schema's type (default Root).
	RootName string `yaml:"rootName"`
	// Package is the generated package name (default: the file name).
	Package string `yaml:"package"`
	// Output is the generated file, relative to outDir
	// (default <package>/<package>.go).
	Output string `yaml:"output"`
}

// Comments reports whether doc comments are emitted.
func (c *Config) Comments() bool {
	return c.EmitComments == nil || *c.EmitComments
}

// Constructors reports whether record constructors are emitted.
func (c *Config) Constructors() bool {
	return c.EmitConstructors == nil || *c.EmitConstructors
}

// PackageFor returns the package name generated for d.
func (c *Config) PackageFor(d Document) string {
	if d.Package != "" {
		return d.Package
	}
	if c.Package != "" && len(c.Documents) == 1 {
		return c.Package
	}
	return baseName(d.Path)
}

// OutputFor returns the output path of d relative to OutDir, slash-separated.
func (c *Config) OutputFor(d Document) string {
	if d.Output != "" {
		return filepath.ToSlash(filepath.Clean(d.Output))
	}
	pkg := c.PackageFor(d)
	return baseName(d.Path) + "/" + pkg + ".go"
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GetPreCommand returns the pre-generation command to execute.
func (c *Config) GetPreCommand() []string {
	return c.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (c *Config) GetPostCommand() []string {
	return c.PostCommand
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	outputs := map[string]string{}
	for _, d := range c.Documents {
		out := c.OutputFor(d)
		if other, ok := outputs[out]; ok {
			return fmt.Errorf("invalid config: documents %s and %s both write %s", other, d.Path, out)
		}
		outputs[out] = d.Path
	}
	return nil
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Absolutize()
	return &cfg, nil
}

// Absolutize makes OutDir and document paths absolute.
func (c *Config) Absolutize() {
	if !filepath.IsAbs(c.OutDir) {
		abs, _ := filepath.Abs(c.OutDir)
		c.OutDir = abs
	}
	for i := range c.Documents {
		d := &c.Documents[i]
		if !filepath.IsAbs(d.Path) {
			abs, _ := filepath.Abs(d.Path)
			d.Path = abs
		}
	}
}

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
	}
	s := r.Reflect(&Config{})
	s.Title = "schema-gen configuration"
	s.Description = "Configuration for generating Go models from JSON Schema documents."
	return json.MarshalIndent(s, "", "  ")
}
