// Package golang emits Go source for a named type model. Every document
// becomes one file in its own package; the emitted code depends only on
// package wire.
package golang

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/tools/imports"

	"github.com/blimu-dev/schema-gen/pkg/model"
)

//go:embed templates/*.go.tmpl
var templatesFS embed.FS

// WireImport is the import path of the runtime emitted code depends on.
const WireImport = "github.com/blimu-dev/schema-gen/pkg/wire"

// Options controls the emitted surface.
type Options struct {
	// Package is the Go package name of the emitted file.
	Package string
	// Source names the schema document in the generated-code banner.
	Source string
	// Header is free text placed after the banner.
	Header string
	// Comments copies schema titles and descriptions into doc comments.
	Comments bool
	// Constructors emits a New<Name> function per record.
	Constructors bool
}

// DefaultOptions emits comments and constructors into package models.
func DefaultOptions() Options {
	return Options{Package: "models", Comments: true, Constructors: true}
}

// GoGenerator renders models with the embedded templates.
type GoGenerator struct {
	tmpl *template.Template
}

// NewGoGenerator parses the embedded templates.
func NewGoGenerator() (*GoGenerator, error) {
	funcMap := sprig.TxtFuncMap()
	funcMap["formatGoComment"] = formatGoComment
	funcMap["article"] = article
	tmpl, err := template.New("schema-gen").Funcs(funcMap).ParseFS(templatesFS, "templates/*.go.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &GoGenerator{tmpl: tmpl}, nil
}

// GetType returns the generator type identifier
func (g *GoGenerator) GetType() string {
	return "go"
}

// FileName is the name of the unit emitted for a package.
func FileName(pkg string) string {
	return sanitizePackageName(pkg) + ".go"
}

// Emit renders m as one formatted Go file.
func (g *GoGenerator) Emit(m *model.Model, opts Options) ([]byte, error) {
	view := buildFile(m, opts)
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "file", view); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	out, err := imports.Process(FileName(view.Package), buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code for %s: %w", m.Document, err)
	}
	return out, nil
}

type fileView struct {
	Package string
	Source  string
	Header  string
	Import  string
	Decls   []declView
}

type declView struct {
	Record *recordView
	Union  *unionView
	Enum   *enumView
	Alias  *aliasView
}

type recordView struct {
	Name     string
	Doc      string
	KeysVar  string
	Keys     []string
	Fields   []fieldView
	Members  []memberView
	CatchAll *catchAllView
	Ctor     *ctorView
	// Reads is false when decoding only checks that the input is an object.
	Reads bool
}

type fieldView struct {
	Name     string
	WireKey  string
	GoType   string
	Tag      string
	Doc      string
	Required bool
}

type memberView struct {
	Strict bool
	Keys   string
	Fields []fieldView
}

type catchAllView struct {
	Name   string
	GoType string
}

type ctorView struct {
	Name     string
	Params   []paramView
	Defaults []defaultView
}

type paramView struct {
	Name   string
	GoType string
	Field  string
}

type defaultView struct {
	Field string
	Expr  string
}

type unionView struct {
	Name     string
	Doc      string
	Decode   string
	Encode   string
	Variants []variantView
}

type variantView struct {
	Name   string
	GoType string
}

type enumView struct {
	Name  string
	Doc   string
	Cases []caseView
}

type caseView struct {
	Name  string
	Value string
}

type aliasView struct {
	Name   string
	Doc    string
	Target string
}

func buildFile(m *model.Model, opts Options) fileView {
	view := fileView{
		Package: sanitizePackageName(opts.Package),
		Source:  opts.Source,
		Header:  formatGoComment(opts.Header),
		Import:  strconv.Quote(WireImport),
	}
	for _, d := range m.Decls {
		if model.BaseOf(d).Excluded {
			continue
		}
		var dv declView
		switch v := d.(type) {
		case *model.Record:
			dv.Record = buildRecord(v, opts)
		case *model.Union:
			dv.Union = buildUnion(v, opts)
		case *model.Enum:
			dv.Enum = buildEnum(v, opts)
		case *model.Alias:
			dv.Alias = &aliasView{Name: v.Name, Doc: doc(v.Doc, opts), Target: goType(v.Target)}
		}
		view.Decls = append(view.Decls, dv)
	}
	return view
}

func doc(d model.Doc, opts Options) string {
	if !opts.Comments {
		return ""
	}
	return docComment(d)
}

func buildRecord(r *model.Record, opts Options) *recordView {
	rv := &recordView{
		Name:    r.Name,
		Doc:     doc(r.Doc, opts),
		KeysVar: lowerFirst(r.Name) + "Keys",
	}
	for _, f := range r.Fields {
		rv.Keys = append(rv.Keys, strconv.Quote(f.WireKey))
		rv.Fields = append(rv.Fields, fieldView{
			Name:     f.Name,
			WireKey:  strconv.Quote(f.WireKey),
			GoType:   fieldType(f),
			Tag:      structTag(f.WireKey, f.Required),
			Doc:      doc(f.Doc, opts),
			Required: f.Required,
		})
	}
	for _, m := range r.Members {
		mv := memberView{Strict: m.Strict, Keys: rv.KeysVar + "..."}
		keys := make([]string, 0, len(m.Fields))
		for _, idx := range m.Fields {
			keys = append(keys, rv.Keys[idx])
			mv.Fields = append(mv.Fields, rv.Fields[idx])
		}
		if len(r.Members) > 1 {
			mv.Keys = strings.Join(keys, ", ")
		}
		rv.Members = append(rv.Members, mv)
		rv.Reads = rv.Reads || m.Strict
	}
	if r.CatchAll != nil {
		rv.CatchAll = &catchAllView{Name: r.CatchAllName, GoType: goType(r.CatchAll)}
	}
	rv.Reads = rv.Reads || len(rv.Fields) > 0 || rv.CatchAll != nil
	if opts.Constructors {
		rv.Ctor = buildCtor(r)
	}
	return rv
}

func buildCtor(r *model.Record) *ctorView {
	c := &ctorView{Name: "New" + r.Name}
	var required []*model.Field
	var names []string
	for _, f := range r.Fields {
		if f.Required {
			required = append(required, f)
			names = append(names, f.Name)
		}
	}
	for i, name := range paramNames(names) {
		c.Params = append(c.Params, paramView{Name: name, GoType: fieldType(required[i]), Field: required[i].Name})
	}
	for _, f := range r.Fields {
		if f.Required {
			continue
		}
		if expr, ok := defaultExpr(f); ok {
			c.Defaults = append(c.Defaults, defaultView{Field: f.Name, Expr: expr})
		}
	}
	return c
}

func buildUnion(u *model.Union, opts Options) *unionView {
	uv := &unionView{Name: u.Name, Doc: doc(u.Doc, opts), Decode: "DecodeOneOf", Encode: "EncodeOneOf"}
	if u.Overlay {
		uv.Decode, uv.Encode = "DecodeAnyOf", "EncodeAnyOf"
	}
	for _, v := range u.Variants {
		uv.Variants = append(uv.Variants, variantView{Name: v.Name, GoType: goType(v.Type)})
	}
	return uv
}

func buildEnum(e *model.Enum, opts Options) *enumView {
	ev := &enumView{Name: e.Name, Doc: doc(e.Doc, opts)}
	for _, c := range e.Cases {
		ev.Cases = append(ev.Cases, caseView{Name: c.Name, Value: strconv.Quote(c.Value)})
	}
	return ev
}
