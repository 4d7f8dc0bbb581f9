package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/blimu-dev/schema-gen/pkg/config"
	"github.com/blimu-dev/schema-gen/pkg/generator"
)

type FallbackParams struct {
	Schema   string
	Kind     string
	OutDir   string
	Package  string
	RootName string
}

type RunGenerateParams struct {
	ConfigPath string
	Fallback   FallbackParams
	Verbose    bool
	Quiet      bool
	// Out receives the summary table; nil discards it.
	Out io.Writer
}

type RunValidateParams struct {
	Inputs  []string
	Kind    string
	Verbose bool
}

func RunGenerate(ctx context.Context, p RunGenerateParams) error {
	if p.ConfigPath == "" && (p.Fallback.Schema == "" || p.Fallback.OutDir == "") {
		return errors.New("either --config or both --schema and --out must be provided")
	}
	svc, err := generator.NewService()
	if err != nil {
		return err
	}
	svc = svc.WithLogger(newLogger(p.Verbose, p.Quiet))

	report, err := svc.Generate(ctx, generator.GenerateOptions{
		ConfigPath: p.ConfigPath,
		Fallback: generator.FallbackOptions{
			Schema:   absPath(p.Fallback.Schema),
			Kind:     p.Fallback.Kind,
			OutDir:   absPath(p.Fallback.OutDir),
			Package:  p.Fallback.Package,
			RootName: p.Fallback.RootName,
		},
	})
	if report != nil && p.Out != nil && !p.Quiet {
		fmt.Fprintln(p.Out, renderReport(report))
	}
	return err
}

func RunValidate(ctx context.Context, p RunValidateParams) error {
	log := newLogger(p.Verbose, false)
	inputs := make([]string, len(p.Inputs))
	for i, in := range p.Inputs {
		inputs[i] = absPath(in)
	}
	if err := generator.ValidateSchemas(ctx, p.Kind, inputs...); err != nil {
		return err
	}
	log.WithField("documents", len(inputs)).Info("all documents are valid")
	return nil
}

func RunConfigSchema(out io.Writer) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func newLogger(verbose, quiet bool) *logrus.Entry {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case verbose:
		l.SetLevel(logrus.DebugLevel)
	case quiet:
		l.SetLevel(logrus.WarnLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l.WithField("component", "schema-gen")
}

// utility
func absPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	abs, _ := filepath.Abs(p)
	return abs
}
