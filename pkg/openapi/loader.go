package openapi

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// SchemasPointer is where an OpenAPI 3 document keeps its named schemas.
const SchemasPointer = "#/components/schemas"

// LoadData parses an OpenAPI document held in memory. External references
// are not followed; schema-gen resolves them against its own document set.
func LoadData(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	return loader.LoadFromData(data)
}

// ValidateData validates an OpenAPI document held in memory
func ValidateData(ctx context.Context, data []byte) error {
	doc, err := LoadData(ctx, data)
	if err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return fmt.Errorf("document has no %s", SchemasPointer)
	}
	return nil
}
