package generator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/schema-gen/pkg/config"
	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/document"
	"github.com/blimu-dev/schema-gen/pkg/generator/golang"
	"github.com/blimu-dev/schema-gen/pkg/model"
	"github.com/blimu-dev/schema-gen/pkg/naming"
	"github.com/blimu-dev/schema-gen/pkg/sink"
	"github.com/blimu-dev/schema-gen/pkg/synth"
)

// Generator defines the interface for source emitters
type Generator interface {
	// Emit renders a named type model as one source file
	Emit(m *model.Model, opts golang.Options) ([]byte, error)
	// GetType returns the type identifier for this generator (e.g., "go")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for model generation
type GenerateOptions struct {
	ConfigPath string
	Fallback   FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	Schema   string
	Kind     string
	OutDir   string
	Package  string
	RootName string
}

// Result is the outcome of one document in a batch.
type Result struct {
	Document string
	Output   string
	Types    int
	Err      error
}

// Report summarizes a batch run.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Failed counts the documents that did not compile.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Service provides high-level model generation functionality
type Service struct {
	registry *Registry
	log      *logrus.Entry
	sink     sink.OutputSink
}

// NewService creates a new generator service with the Go generator
func NewService() (*Service, error) {
	gen, err := golang.NewGoGenerator()
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	registry.Register(gen)
	return NewServiceWithRegistry(registry), nil
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry) *Service {
	return &Service{
		registry: registry,
		log:      logrus.NewEntry(logrus.StandardLogger()).WithField("component", "schema-gen"),
	}
}

// WithLogger replaces the service logger.
func (s *Service) WithLogger(log *logrus.Entry) *Service {
	s.log = log
	return s
}

// WithSink writes generated files to out instead of the configured outDir.
func (s *Service) WithSink(out sink.OutputSink) *Service {
	s.sink = out
	return s
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Generate generates models based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (*Report, error) {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		if opts.Fallback.Schema == "" || opts.Fallback.OutDir == "" {
			return nil, fmt.Errorf("either config path or the schema and output directory must be provided")
		}
		cfg = &config.Config{
			OutDir:  opts.Fallback.OutDir,
			Package: opts.Fallback.Package,
			Documents: []config.Document{{
				Path:     opts.Fallback.Schema,
				Kind:     opts.Fallback.Kind,
				RootName: opts.Fallback.RootName,
			}},
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		cfg.Absolutize()
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}

	return s.GenerateFromConfig(ctx, cfg)
}

// GenerateFromConfig compiles every configured document. A failing document
// does not stop its siblings; the returned error is a *diag.BatchError that
// lists every failure.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config) (*Report, error) {
	start := time.Now()
	gen, exists := s.registry.Get("go")
	if !exists {
		return nil, fmt.Errorf("unsupported generator type: go")
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := s.executeCommand(ctx, cfg.GetPreCommand(), cfg.OutDir, "pre-command"); err != nil {
		return nil, fmt.Errorf("pre-generation commands failed: %w", err)
	}

	out := s.sink
	if out == nil {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}

	report := &Report{Results: make([]Result, len(cfg.Documents))}
	set := document.NewSet()
	loaded := make([]*document.Document, len(cfg.Documents))
	for i, d := range cfg.Documents {
		report.Results[i] = Result{Document: d.Path, Output: cfg.OutputFor(d)}
		doc, err := document.Load(ctx, d.Path, d.Kind)
		if err != nil {
			report.Results[i].Err = err
			continue
		}
		set.Add(doc)
		loaded[i] = doc
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range cfg.Documents {
		if loaded[i] == nil {
			continue
		}
		g.Go(func() error {
			res := &report.Results[i]
			unit, err := Compile(set, loaded[i].Name, gen, compileOptions(cfg, d), s.log)
			if err == nil {
				err = out.WriteFile(gctx, res.Output, unit.Source)
			}
			if err != nil {
				res.Err = err
				s.log.WithField("document", d.Path).WithError(err).Warn("document failed")
				return nil
			}
			res.Types = unit.Types
			s.log.WithFields(logrus.Fields{"document": d.Path, "output": res.Output, "types": unit.Types}).Info("wrote unit")
			return nil
		})
	}
	// Workers report through Results and never fail the group.
	_ = g.Wait()
	report.Duration = time.Since(start)

	batch := &diag.BatchError{}
	for _, res := range report.Results {
		batch.Add(res.Document, res.Err)
	}
	if err := batch.ErrOrNil(); err != nil {
		return report, err
	}

	if err := s.executeCommand(ctx, cfg.GetPostCommand(), cfg.OutDir, "post-command"); err != nil {
		return report, fmt.Errorf("post-generation commands failed: %w", err)
	}
	return report, nil
}

func compileOptions(cfg *config.Config, d config.Document) CompileOptions {
	return CompileOptions{
		Synth: synth.Options{
			RootName:     d.RootName,
			MaxArity:     cfg.MaxUnionArity,
			AnyOfAsOneOf: cfg.AnyOfAsOneOf,
			TrimPrefixes: cfg.TrimPrefixes,
		},
		Naming: naming.Options{
			TypeSuffix: cfg.TypeSuffix,
			Renames:    cfg.Renames,
			Excludes:   cfg.Excludes,
		},
		Emit: golang.Options{
			Package:      cfg.PackageFor(d),
			Source:       documentLabel(cfg, d),
			Header:       cfg.Header,
			Comments:     cfg.Comments(),
			Constructors: cfg.Constructors(),
		},
	}
}

// documentLabel is the document path shown in generated banners; it is kept
// relative so output does not depend on the machine it was generated on.
func documentLabel(cfg *config.Config, d config.Document) string {
	if rel, err := filepath.Rel(cfg.OutDir, d.Path); err == nil {
		return filepath.ToSlash(rel)
	}
	return d.Path
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.log.WithField("command", cmdDescription).Debug("running " + commandLabel)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}
	return nil
}
