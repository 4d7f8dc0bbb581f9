package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/document"
	"github.com/blimu-dev/schema-gen/pkg/resolve"
)

// ValidateSchemas checks documents without generating code. JSON Schema
// documents are compiled against their draft meta-schema (draft-07 when
// $schema is absent); OpenAPI documents are validated by the loader. Every
// reference in every document must then resolve within the set.
func ValidateSchemas(ctx context.Context, kind string, paths ...string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no documents to validate")
	}
	set := document.NewSet()
	batch := &diag.BatchError{}
	var docs []*document.Document
	for _, p := range paths {
		doc, err := document.Load(ctx, p, kind)
		if err != nil {
			batch.Add(p, err)
			continue
		}
		set.Add(doc)
		docs = append(docs, doc)
	}

	compiler, err := metaCompiler(docs)
	if err != nil {
		return err
	}
	res := resolve.New(set)
	for _, doc := range docs {
		batch.Add(doc.Path, validateDocument(compiler, res, doc))
	}
	return batch.ErrOrNil()
}

func validateDocument(compiler *jsonschema.Compiler, res *resolve.Resolver, doc *document.Document) error {
	sch, err := res.Schema(doc.Name)
	if err != nil {
		return err
	}
	if err := res.CheckAll(sch); err != nil {
		return err
	}
	if doc.Kind == document.KindJSONSchema {
		if _, err := compiler.Compile(resourceURL(doc)); err != nil {
			return fmt.Errorf("schema does not match its meta-schema: %w", err)
		}
	}
	return nil
}

// metaCompiler registers every document as a resource so references between
// them compile without touching the network.
func metaCompiler(docs []*document.Document) (*jsonschema.Compiler, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	compiler.LoadURL = func(s string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("%s is not part of the document set", s)
	}
	for _, doc := range docs {
		if doc.Kind != document.KindJSONSchema {
			continue
		}
		data, err := json.Marshal(doc.Root)
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(resourceURL(doc), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", doc.Path, err)
		}
	}
	return compiler, nil
}

func resourceURL(doc *document.Document) string {
	if abs, err := filepath.Abs(doc.Path); err == nil {
		return abs
	}
	return doc.Path
}
