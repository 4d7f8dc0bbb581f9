package generator

import (
	"github.com/sirupsen/logrus"

	"github.com/blimu-dev/schema-gen/pkg/document"
	"github.com/blimu-dev/schema-gen/pkg/generator/golang"
	"github.com/blimu-dev/schema-gen/pkg/model"
	"github.com/blimu-dev/schema-gen/pkg/naming"
	"github.com/blimu-dev/schema-gen/pkg/resolve"
	"github.com/blimu-dev/schema-gen/pkg/synth"
)

// CompileOptions configures the pipeline for one document.
type CompileOptions struct {
	Synth  synth.Options
	Naming naming.Options
	Emit   golang.Options
}

// Unit is the output of one compiled document.
type Unit struct {
	Document string
	Source   []byte
	// Types counts the emitted declarations.
	Types int
}

// Compile runs Parse, Resolve, Synthesize, Name and Emit for the document
// named name. Every stage failure is returned as-is so callers can match the
// diag error types.
func Compile(set *document.Set, name string, gen Generator, opts CompileOptions, log *logrus.Entry) (*Unit, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("document", name)

	log.WithField("stage", "parse").Debug("parsing schema")
	res := resolve.New(set)
	sch, err := res.Schema(name)
	if err != nil {
		return nil, err
	}

	log.WithField("stage", "resolve").WithField("refs", len(sch.Refs)).Debug("resolving references")
	if err := res.CheckAll(sch); err != nil {
		return nil, err
	}

	log.WithField("stage", "synthesize").Debug("synthesizing types")
	m, err := synth.Synthesize(res, sch, opts.Synth)
	if err != nil {
		return nil, err
	}

	log.WithField("stage", "name").WithField("decls", len(m.Decls)).Debug("assigning names")
	if err := naming.Assign(m, opts.Naming); err != nil {
		return nil, err
	}

	log.WithField("stage", "emit").Debug("emitting source")
	src, err := gen.Emit(m, opts.Emit)
	if err != nil {
		return nil, err
	}
	return &Unit{Document: name, Source: src, Types: countEmitted(m)}, nil
}

func countEmitted(m *model.Model) int {
	n := 0
	for _, d := range m.Decls {
		if !model.BaseOf(d).Excluded {
			n++
		}
	}
	return n
}
