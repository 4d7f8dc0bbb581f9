package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/openapi"
)

// Source kinds accepted by Load.
const (
	KindJSONSchema = "jsonschema"
	KindOpenAPI    = "openapi"
)

// Document is one loaded input.
type Document struct {
	// Name identifies the document inside a Set and in diagnostics.
	Name string
	Path string
	// ID is the document's $id, if any.
	ID   string
	Kind string
	Root *Value
}

// HasRootSchema reports whether the document root is itself a schema.
// OpenAPI documents only contribute definitions.
func (d *Document) HasRootSchema() bool {
	return d.Kind != KindOpenAPI
}

// DefinitionRoots lists the pointers whose members are named definitions.
func (d *Document) DefinitionRoots() []string {
	if d.Kind == KindOpenAPI {
		return []string{openapi.SchemasPointer}
	}
	return []string{"#/definitions", "#/$defs"}
}

// New wraps an already parsed root value.
func New(name, kind string, root *Value) *Document {
	if kind == "" {
		kind = KindJSONSchema
	}
	doc := &Document{Name: name, Kind: kind, Root: root}
	if id, ok := root.Get("$id"); ok && id.Kind == String {
		doc.ID = id.Str
	}
	return doc
}

// Load reads and parses the document at path. OpenAPI documents are
// validated with kin-openapi before their schemas are used.
func Load(ctx context.Context, path, kind string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadData(ctx, path, kind, data)
}

// LoadData parses data as if it had been read from path.
func LoadData(ctx context.Context, path, kind string, data []byte) (*Document, error) {
	if kind == "" {
		kind = KindJSONSchema
	}
	switch kind {
	case KindJSONSchema:
	case KindOpenAPI:
		if err := openapi.ValidateData(ctx, data); err != nil {
			return nil, fmt.Errorf("invalid OpenAPI document %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported document kind %q", kind)
	}
	root, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc := New(filepath.Base(path), kind, root)
	doc.Path = path
	return doc, nil
}

// Set is the resident collection of documents for one run. Cross-document
// references are resolved against it by file name or $id.
type Set struct {
	docs  map[string]*Document
	order []*Document
}

// NewSet builds a set from documents.
func NewSet(docs ...*Document) *Set {
	s := &Set{docs: map[string]*Document{}}
	for _, d := range docs {
		s.Add(d)
	}
	return s
}

// Add registers d under its name and $id.
func (s *Set) Add(d *Document) {
	s.order = append(s.order, d)
	s.docs[d.Name] = d
	if d.ID != "" {
		s.docs[d.ID] = d
		s.docs[strings.TrimSuffix(d.ID, "#")] = d
	}
}

// Get looks a document up by name, path base or $id.
func (s *Set) Get(ref string) (*Document, bool) {
	if s == nil {
		return nil, false
	}
	if d, ok := s.docs[ref]; ok {
		return d, true
	}
	d, ok := s.docs[filepath.Base(ref)]
	return d, ok
}

// Documents returns the documents in insertion order.
func (s *Set) Documents() []*Document {
	if s == nil {
		return nil
	}
	return s.order
}
