// Package schema is the language-agnostic intermediate representation of a
// JSON Schema document, plus the parser that builds it.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates Node.
type Kind int

const (
	// KindAny is a schema with no shape keywords ({} or true).
	KindAny Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
	KindAllOf
	KindAnyOf
	KindOneOf
	KindRef
)

var kindNames = map[Kind]string{
	KindAny:     "any",
	KindNull:    "null",
	KindBoolean: "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindAllOf:   "allOf",
	KindAnyOf:   "anyOf",
	KindOneOf:   "oneOf",
	KindRef:     "$ref",
}

func (k Kind) String() string { return kindNames[k] }

// Meta is the annotation carried by every node.
type Meta struct {
	Title       string
	Description string
	Default     any
	HasDefault  bool
}

// Additional describes additionalProperties. A nil *Additional means the
// keyword was absent.
type Additional struct {
	// Allowed is false for additionalProperties:false.
	Allowed bool
	// Schema is set when additionalProperties is a nested schema.
	Schema *Node
}

// Node is one parsed schema. Nodes are created once per parse and are never
// mutated afterwards.
type Node struct {
	Kind Kind
	// Integer refines KindNumber.
	Integer bool
	// Enum holds the literal cases of a string enumeration, in order.
	Enum []string

	Items *Node

	Properties *orderedmap.OrderedMap[string, *Node]
	Required   map[string]bool
	Additional *Additional

	Members []*Node

	// Ref is the raw $ref value.
	Ref string

	Meta Meta
	// Document names the document the node was parsed from.
	Document string
	// Location is the node's JSON pointer inside Document.
	Location string
}

// Key identifies a node across documents.
func (n *Node) Key() string {
	return n.Document + n.Location
}

// IsEnum reports a literal string enumeration.
func (n *Node) IsEnum() bool {
	return n.Kind == KindString && len(n.Enum) > 0
}

// IsCombinator reports allOf, anyOf and oneOf nodes.
func (n *Node) IsCombinator() bool {
	return n.Kind == KindAllOf || n.Kind == KindAnyOf || n.Kind == KindOneOf
}

// PropertyNames returns declared property names in order.
func (n *Node) PropertyNames() []string {
	if n.Properties == nil {
		return nil
	}
	names := make([]string, 0, n.Properties.Len())
	for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Property returns the schema of a declared property.
func (n *Node) Property(name string) *Node {
	if n.Properties == nil {
		return nil
	}
	p, _ := n.Properties.Get(name)
	return p
}

// Strict reports additionalProperties:false.
func (n *Node) Strict() bool {
	return n.Additional != nil && !n.Additional.Allowed
}

// Definition is a named schema under definitions, $defs or
// components/schemas.
type Definition struct {
	Name string
	Node *Node
}

// Schema is the parse result for one document.
type Schema struct {
	Document string
	// Root is nil for documents without a root schema.
	Root        *Node
	Definitions []Definition
	// Refs lists every $ref node in parse order.
	Refs []*Node
}
