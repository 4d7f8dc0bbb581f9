package schema

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/document"
)

// shapeKeywords are the keywords that give a schema a shape of its own.
var shapeKeywords = []string{"type", "properties", "additionalProperties", "items", "enum", "const", "$ref", "allOf", "anyOf", "oneOf"}

// Parser builds IR nodes for one document. Nodes are memoized by location so
// every pointer maps to a single node instance.
type Parser struct {
	doc   *document.Document
	index map[string]*Node
	refs  []*Node
}

// NewParser returns a parser for doc.
func NewParser(doc *document.Document) *Parser {
	return &Parser{doc: doc, index: map[string]*Node{}}
}

// Parse parses doc's root schema and its definitions.
func Parse(doc *document.Document) (*Schema, error) {
	return NewParser(doc).Parse()
}

// Parse walks the whole document.
func (p *Parser) Parse() (*Schema, error) {
	out := &Schema{Document: p.doc.Name}
	if p.doc.Root == nil || (p.doc.Root.Kind != document.Object && p.doc.Root.Kind != document.Bool) {
		return nil, &diag.MalformedError{Location: "#", Reason: "document root must be a schema object"}
	}

	for _, root := range p.doc.DefinitionRoots() {
		defs, err := p.doc.Root.Lookup(root)
		if err != nil {
			continue
		}
		if defs.Kind != document.Object {
			return nil, &diag.MalformedError{Location: root, Reason: "definitions must be an object"}
		}
		for pair := defs.Fields.Oldest(); pair != nil; pair = pair.Next() {
			node, err := p.parse(pair.Value, document.Pointer(root, pair.Key))
			if err != nil {
				return nil, err
			}
			out.Definitions = append(out.Definitions, Definition{Name: pair.Key, Node: node})
		}
	}

	if p.doc.HasRootSchema() {
		root, err := p.parse(p.doc.Root, "#")
		if err != nil {
			return nil, err
		}
		out.Root = root
	}
	out.Refs = p.refs
	return out, nil
}

// At returns the node at pointer, parsing the subtree on first use.
func (p *Parser) At(pointer string) (*Node, error) {
	if pointer == "" {
		pointer = "#"
	}
	if n, ok := p.index[pointer]; ok {
		return n, nil
	}
	v, err := p.doc.Root.Lookup(pointer)
	if err != nil {
		return nil, err
	}
	return p.parse(v, pointer)
}

// Refs returns every $ref node parsed so far.
func (p *Parser) Refs() []*Node { return p.refs }

func (p *Parser) parse(v *document.Value, loc string) (*Node, error) {
	if n, ok := p.index[loc]; ok {
		return n, nil
	}
	n, err := p.parseValue(v, loc)
	if err != nil {
		return nil, err
	}
	p.index[loc] = n
	return n, nil
}

func (p *Parser) newNode(kind Kind, loc string) *Node {
	return &Node{Kind: kind, Document: p.doc.Name, Location: loc}
}

func (p *Parser) parseValue(v *document.Value, loc string) (*Node, error) {
	switch v.Kind {
	case document.Bool:
		if !v.Bool {
			return nil, &diag.MalformedError{Location: loc, Reason: "schema false accepts no value"}
		}
		return p.newNode(KindAny, loc), nil
	case document.Object:
	default:
		return nil, &diag.MalformedError{Location: loc, Reason: fmt.Sprintf("schema must be an object, got %s", v.Kind)}
	}

	meta, err := parseMeta(v, loc)
	if err != nil {
		return nil, err
	}

	if ref, ok := v.Get("$ref"); ok {
		if ref.Kind != document.String {
			return nil, &diag.MalformedError{Location: loc, Reason: "$ref must be a string"}
		}
		n := p.newNode(KindRef, loc)
		n.Ref = ref.Str
		n.Meta = meta
		p.refs = append(p.refs, n)
		return n, nil
	}

	if n, ok, err := p.parseEnum(v, loc); err != nil || ok {
		if n != nil {
			n.Meta = meta
		}
		return n, err
	}

	parts, err := p.parseCombinators(v, loc)
	if err != nil {
		return nil, err
	}

	var shape *Node
	if hasAny(v, "type", "properties", "additionalProperties", "items", "required") || len(parts) == 0 {
		shape, err = p.parseShape(v, loc)
		if err != nil {
			return nil, err
		}
		if len(parts) > 0 && bare(shape) {
			// A lone "type" next to a combinator is a hint, not a member.
			shape = nil
		}
	}

	var n *Node
	switch {
	case len(parts) == 0:
		n = shape
	case len(parts) == 1 && shape == nil:
		n = parts[0]
	default:
		n = p.newNode(KindAllOf, loc)
		for _, part := range parts {
			if part.Kind == KindAllOf {
				n.Members = append(n.Members, part.Members...)
				continue
			}
			n.Members = append(n.Members, part)
		}
		if shape != nil {
			n.Members = append(n.Members, shape)
		}
	}
	n.Meta = meta
	return n, nil
}

func (p *Parser) parseEnum(v *document.Value, loc string) (*Node, bool, error) {
	if c, ok := v.Get("const"); ok && c.Kind == document.String {
		n := p.newNode(KindString, loc)
		n.Enum = []string{c.Str}
		return n, true, nil
	}
	e, ok := v.Get("enum")
	if !ok {
		return nil, false, nil
	}
	if e.Kind != document.Array {
		return nil, false, &diag.MalformedError{Location: loc + "/enum", Reason: "enum must be an array"}
	}
	if len(e.Items) == 0 {
		return nil, false, &diag.MalformedError{Location: loc + "/enum", Reason: "enum must not be empty"}
	}
	cases := make([]string, 0, len(e.Items))
	seen := map[string]bool{}
	for _, item := range e.Items {
		if item.Kind != document.String {
			// Non-string literals constrain values only; the declared type decides the shape.
			return nil, false, nil
		}
		if seen[item.Str] {
			continue
		}
		seen[item.Str] = true
		cases = append(cases, item.Str)
	}
	n := p.newNode(KindString, loc)
	n.Enum = cases
	return n, true, nil
}

func (p *Parser) parseCombinators(v *document.Value, loc string) ([]*Node, error) {
	var parts []*Node
	for _, kw := range []struct {
		key  string
		kind Kind
	}{{"allOf", KindAllOf}, {"oneOf", KindOneOf}, {"anyOf", KindAnyOf}} {
		raw, ok := v.Get(kw.key)
		if !ok {
			continue
		}
		if raw.Kind != document.Array || len(raw.Items) == 0 {
			return nil, &diag.MalformedError{Location: loc + "/" + kw.key, Reason: kw.key + " must be a non-empty array"}
		}
		n := p.newNode(kw.kind, document.Pointer(loc, kw.key))
		shaped := 0
		for i, item := range raw.Items {
			memberLoc := document.Pointer(loc, kw.key, strconv.Itoa(i))
			if item.Kind == document.Object && !hasAny(item, shapeKeywords...) {
				// Annotation-only members (typically a bare "required" list)
				// narrow values, not shapes.
				continue
			}
			member, err := p.parse(item, memberLoc)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, member)
			shaped++
		}
		if shaped == 0 {
			continue
		}
		if kw.kind == KindAllOf && len(n.Members) == 1 {
			parts = append(parts, n.Members[0])
			continue
		}
		p.index[n.Location] = n
		parts = append(parts, n)
	}
	return parts, nil
}

func (p *Parser) parseShape(v *document.Value, loc string) (*Node, error) {
	t, ok := v.Get("type")
	if !ok {
		switch {
		case hasAny(v, "properties", "additionalProperties", "required"):
			return p.parseTyped(v, "object", loc)
		case v.Has("items"):
			return p.parseTyped(v, "array", loc)
		}
		return p.newNode(KindAny, loc), nil
	}

	switch t.Kind {
	case document.String:
		return p.parseTyped(v, t.Str, loc)
	case document.Array:
		if len(t.Items) == 0 {
			return nil, &diag.MalformedError{Location: loc + "/type", Reason: "type array must not be empty"}
		}
		if len(t.Items) == 1 && t.Items[0].Kind == document.String {
			return p.parseTyped(v, t.Items[0].Str, loc)
		}
		n := p.newNode(KindOneOf, loc+"/type")
		for i, item := range t.Items {
			if item.Kind != document.String {
				return nil, &diag.MalformedError{Location: loc + "/type", Reason: "type array members must be strings"}
			}
			member, err := p.parseTyped(v, item.Str, document.Pointer(loc, "type", strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, member)
		}
		return n, nil
	}
	return nil, &diag.MalformedError{Location: loc + "/type", Reason: "type must be a string or an array of strings"}
}

func (p *Parser) parseTyped(v *document.Value, typeName, loc string) (*Node, error) {
	switch typeName {
	case "null":
		return p.newNode(KindNull, loc), nil
	case "boolean":
		return p.newNode(KindBoolean, loc), nil
	case "number":
		return p.newNode(KindNumber, loc), nil
	case "integer":
		n := p.newNode(KindNumber, loc)
		n.Integer = true
		return n, nil
	case "string":
		return p.newNode(KindString, loc), nil
	case "array":
		return p.parseArray(v, loc)
	case "object":
		return p.parseObject(v, loc)
	}
	return nil, &diag.MalformedError{Location: loc, Reason: fmt.Sprintf("unknown type %q", typeName)}
}

func (p *Parser) parseArray(v *document.Value, loc string) (*Node, error) {
	n := p.newNode(KindArray, loc)
	items, ok := v.Get("items")
	if !ok {
		n.Items = p.newNode(KindAny, loc+"/items")
		return n, nil
	}
	if items.Kind == document.Array {
		return nil, &diag.MalformedError{Location: loc + "/items", Reason: "tuple items are not supported"}
	}
	item, err := p.parse(items, loc+"/items")
	if err != nil {
		return nil, err
	}
	n.Items = item
	return n, nil
}

func (p *Parser) parseObject(v *document.Value, loc string) (*Node, error) {
	n := p.newNode(KindObject, loc)
	n.Properties = orderedmap.New[string, *Node]()
	n.Required = map[string]bool{}

	if props, ok := v.Get("properties"); ok {
		if props.Kind != document.Object {
			return nil, &diag.MalformedError{Location: loc + "/properties", Reason: "properties must be an object"}
		}
		names, err := propertyOrder(v, props, loc)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			raw, _ := props.Get(name)
			prop, err := p.parse(raw, document.Pointer(loc, "properties", name))
			if err != nil {
				return nil, err
			}
			n.Properties.Set(name, prop)
		}
	}

	if req, ok := v.Get("required"); ok {
		if req.Kind != document.Array {
			return nil, &diag.MalformedError{Location: loc + "/required", Reason: "required must be an array of strings"}
		}
		for _, item := range req.Items {
			if item.Kind != document.String {
				return nil, &diag.MalformedError{Location: loc + "/required", Reason: "required must be an array of strings"}
			}
			n.Required[item.Str] = true
		}
	}

	if ap, ok := v.Get("additionalProperties"); ok {
		switch ap.Kind {
		case document.Bool:
			n.Additional = &Additional{Allowed: ap.Bool}
		case document.Object:
			sub, err := p.parse(ap, loc+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			n.Additional = &Additional{Allowed: true, Schema: sub}
		default:
			return nil, &diag.MalformedError{Location: loc + "/additionalProperties", Reason: "additionalProperties must be a boolean or a schema"}
		}
	}
	return n, nil
}

// propertyOrder honors the non-standard propertyOrder keyword. Properties it
// does not mention keep their document order after the listed ones.
func propertyOrder(v, props *document.Value, loc string) ([]string, error) {
	declared := props.Keys()
	order, ok := v.Get("propertyOrder")
	if !ok {
		return declared, nil
	}
	if order.Kind != document.Array {
		return nil, &diag.MalformedError{Location: loc + "/propertyOrder", Reason: "propertyOrder must be an array of strings"}
	}
	out := make([]string, 0, len(declared))
	seen := map[string]bool{}
	for _, item := range order.Items {
		if item.Kind != document.String {
			return nil, &diag.MalformedError{Location: loc + "/propertyOrder", Reason: "propertyOrder must be an array of strings"}
		}
		if props.Has(item.Str) && !seen[item.Str] {
			seen[item.Str] = true
			out = append(out, item.Str)
		}
	}
	for _, name := range declared {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

func parseMeta(v *document.Value, loc string) (Meta, error) {
	var m Meta
	for _, kw := range []struct {
		key string
		dst *string
	}{{"title", &m.Title}, {"description", &m.Description}} {
		raw, ok := v.Get(kw.key)
		if !ok {
			continue
		}
		if raw.Kind != document.String {
			return m, &diag.MalformedError{Location: loc + "/" + kw.key, Reason: kw.key + " must be a string"}
		}
		*kw.dst = raw.Str
	}
	if def, ok := v.Get("default"); ok {
		m.Default = def.Interface()
		m.HasDefault = true
	}
	return m, nil
}

func bare(n *Node) bool {
	switch n.Kind {
	case KindObject:
		return n.Properties.Len() == 0 && n.Additional == nil
	case KindAny, KindNull, KindBoolean, KindNumber, KindString:
		return true
	}
	return false
}

func hasAny(v *document.Value, keys ...string) bool {
	for _, k := range keys {
		if v.Has(k) {
			return true
		}
	}
	return false
}
