// Package synth maps resolved schema IR onto the type model. Every IR node is
// synthesized at most once; shared schemas map onto a shared entity.
package synth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/model"
	"github.com/blimu-dev/schema-gen/pkg/resolve"
	"github.com/blimu-dev/schema-gen/pkg/schema"
)

// DefaultMaxArity is the widest oneOf/anyOf accepted unless configured.
const DefaultMaxArity = 9

// DefaultTrimPrefixes are stripped from reference pointers when a pointer
// seeds a type name.
var DefaultTrimPrefixes = []string{"#/definitions/", "#/$defs/", "#/components/schemas/"}

// Options tunes synthesis.
type Options struct {
	// RootName names the document's root schema.
	RootName string
	// MaxArity bounds union width. Zero means DefaultMaxArity.
	MaxArity int
	// AnyOfAsOneOf decodes anyOf sites with first-match semantics.
	AnyOfAsOneOf bool
	// TrimPrefixes overrides DefaultTrimPrefixes.
	TrimPrefixes []string
}

// frame is one node on the synthesis stack. A cycle is legal only when it
// passes through a declared struct type (so the Go type is finite) and
// through a frame whose decoding descends into nested input (so decoding
// terminates).
type frame struct {
	node     *schema.Node
	declared bool
	descends bool
}

// Synthesizer holds the per-run memo tables. It is not safe for concurrent
// use; run one per document.
type Synthesizer struct {
	res  *resolve.Resolver
	opts Options

	memo        map[*schema.Node]*model.Type
	definitions map[*schema.Node]string
	refTargets  map[*schema.Node]bool
	decls       []model.Decl

	stack   []frame
	onStack map[*schema.Node]int
}

// New returns a synthesizer resolving references through res.
func New(res *resolve.Resolver, opts Options) *Synthesizer {
	if opts.MaxArity <= 0 {
		opts.MaxArity = DefaultMaxArity
	}
	if opts.TrimPrefixes == nil {
		opts.TrimPrefixes = DefaultTrimPrefixes
	}
	if opts.RootName == "" {
		opts.RootName = "Root"
	}
	return &Synthesizer{
		res:         res,
		opts:        opts,
		memo:        map[*schema.Node]*model.Type{},
		definitions: map[*schema.Node]string{},
		refTargets:  map[*schema.Node]bool{},
		onStack:     map[*schema.Node]int{},
	}
}

// Synthesize builds the model for s: every definition in document order,
// then the root schema.
func Synthesize(res *resolve.Resolver, s *schema.Schema, opts Options) (*model.Model, error) {
	return New(res, opts).Run(s)
}

// Run synthesizes s.
func (s *Synthesizer) Run(sch *schema.Schema) (*model.Model, error) {
	for _, def := range sch.Definitions {
		s.definitions[def.Node] = def.Name
	}
	for _, ref := range sch.Refs {
		target, err := s.res.Resolve(ref)
		if err != nil {
			return nil, err
		}
		s.refTargets[target] = true
	}

	for _, def := range sch.Definitions {
		if _, err := s.typeOf(def.Node, []string{def.Name}); err != nil {
			return nil, err
		}
	}
	if root := sch.Root; root != nil && !(root.Kind == schema.KindAny && len(sch.Definitions) > 0) {
		if _, ok := s.memo[root]; !ok {
			s.definitions[root] = s.opts.RootName
			if _, err := s.typeOf(root, []string{s.opts.RootName}); err != nil {
				return nil, err
			}
		}
	}

	markIndirect(s.decls)
	return &model.Model{Document: sch.Document, Decls: s.decls}, nil
}

// named reports nodes that must own a declaration even when their shape
// would otherwise be an inline type expression.
func (s *Synthesizer) named(n *schema.Node) bool {
	_, def := s.definitions[n]
	return def || s.refTargets[n]
}

func producesStruct(n *schema.Node) bool {
	switch n.Kind {
	case schema.KindAllOf, schema.KindOneOf, schema.KindAnyOf:
		return true
	case schema.KindObject:
		return n.Properties.Len() > 0 || n.Strict()
	}
	return false
}

func frameOf(n *schema.Node) frame {
	switch n.Kind {
	case schema.KindAllOf:
		return frame{declared: true, descends: true}
	case schema.KindOneOf, schema.KindAnyOf:
		return frame{declared: true}
	case schema.KindObject:
		return frame{declared: producesStruct(n), descends: true}
	case schema.KindArray:
		return frame{descends: true}
	}
	return frame{}
}

func (s *Synthesizer) typeOf(n *schema.Node, seed []string) (*model.Type, error) {
	if t, ok := s.memo[n]; ok {
		if idx, on := s.onStack[n]; on && !s.boundaryFrom(idx) {
			return nil, s.cycleError(idx)
		}
		return t, nil
	}
	if n.Kind == schema.KindRef {
		target, err := s.res.Resolve(n)
		if err != nil {
			return nil, err
		}
		if idx, on := s.onStack[n]; on {
			return nil, s.cycleError(idx)
		}
		s.push(n, frame{})
		defer s.pop(n)
		if !s.named(n) {
			return s.typeOf(target, s.seedFor(target, seed))
		}
		if name, ok := s.definitions[n]; ok {
			seed = []string{name}
		}
		alias := &model.Alias{Base: s.base(n, seed)}
		t := model.Named(alias)
		s.register(n, alias, t)
		inner, err := s.typeOf(target, s.seedFor(target, seed))
		if err != nil {
			return nil, err
		}
		alias.Target = inner
		return t, nil
	}

	s.push(n, frameOf(n))
	defer s.pop(n)

	if name, ok := s.definitions[n]; ok {
		seed = []string{name}
	} else if n.Meta.Title != "" && (producesStruct(n) || n.IsEnum()) {
		seed = []string{n.Meta.Title}
	}

	switch {
	case n.IsEnum():
		return s.enum(n, seed), nil
	case n.Kind == schema.KindAllOf:
		return s.intersection(n, seed)
	case n.Kind == schema.KindOneOf:
		return s.union(n, seed, false)
	case n.Kind == schema.KindAnyOf:
		return s.union(n, seed, !s.opts.AnyOfAsOneOf)
	case producesStruct(n):
		return s.record(n, seed)
	}

	if !s.named(n) {
		return s.inline(n, seed)
	}
	alias := &model.Alias{Base: s.base(n, seed)}
	t := model.Named(alias)
	s.register(n, alias, t)
	target, err := s.inline(n, seed)
	if err != nil {
		return nil, err
	}
	alias.Target = target
	return t, nil
}

// inline builds the type expression of a node that owns no declaration.
func (s *Synthesizer) inline(n *schema.Node, seed []string) (*model.Type, error) {
	switch n.Kind {
	case schema.KindAny:
		return model.PrimitiveType(model.Any), nil
	case schema.KindNull:
		return model.PrimitiveType(model.Null), nil
	case schema.KindBoolean:
		return model.PrimitiveType(model.Bool), nil
	case schema.KindNumber:
		if n.Integer {
			return model.PrimitiveType(model.Integer), nil
		}
		return model.PrimitiveType(model.Number), nil
	case schema.KindString:
		return model.PrimitiveType(model.String), nil
	case schema.KindArray:
		elem, err := s.typeOf(n.Items, appendSeed(seed, "Item"))
		if err != nil {
			return nil, err
		}
		return model.ArrayOf(elem), nil
	case schema.KindObject:
		if n.Additional != nil && n.Additional.Schema != nil {
			elem, err := s.typeOf(n.Additional.Schema, appendSeed(seed, "Value"))
			if err != nil {
				return nil, err
			}
			return model.MapOf(elem), nil
		}
		return model.MapOf(model.PrimitiveType(model.Any)), nil
	}
	return nil, &diag.MalformedError{Location: n.Location, Reason: fmt.Sprintf("unexpected %s schema", n.Kind)}
}

func (s *Synthesizer) enum(n *schema.Node, seed []string) *model.Type {
	e := &model.Enum{Base: s.base(n, seed)}
	for _, v := range n.Enum {
		e.Cases = append(e.Cases, &model.EnumCase{Value: v})
	}
	t := model.Named(e)
	s.register(n, e, t)
	return t
}

func (s *Synthesizer) record(n *schema.Node, seed []string) (*model.Type, error) {
	r := &model.Record{Base: s.base(n, seed)}
	t := model.Named(r)
	s.register(n, r, t)

	member, err := s.addFields(r, n, seed)
	if err != nil {
		return nil, err
	}
	r.Members = []model.Member{member}
	return t, nil
}

// addFields appends n's properties to r and returns them as one member.
func (s *Synthesizer) addFields(r *model.Record, n *schema.Node, seed []string) (model.Member, error) {
	member := model.Member{Strict: n.Strict()}
	for _, key := range n.PropertyNames() {
		if r.Lookup(key) != nil {
			return member, &diag.FieldCollisionError{Location: r.Node.Location, Field: key}
		}
		prop := n.Property(key)
		ft, err := s.typeOf(prop, appendSeed(seed, key))
		if err != nil {
			return member, err
		}
		f := &model.Field{
			WireKey:    key,
			Type:       ft,
			Required:   n.Required[key],
			Default:    prop.Meta.Default,
			HasDefault: prop.Meta.HasDefault,
			Doc:        model.Doc{Title: prop.Meta.Title, Description: prop.Meta.Description},
		}
		member.Fields = append(member.Fields, len(r.Fields))
		r.Fields = append(r.Fields, f)
	}
	if n.Additional != nil && n.Additional.Allowed && (n.Additional.Schema != nil || n.Properties.Len() > 0) {
		if r.CatchAll != nil {
			return member, &diag.FieldCollisionError{Location: r.Node.Location, Field: "additionalProperties"}
		}
		r.CatchAll = model.PrimitiveType(model.Any)
		if n.Additional.Schema != nil {
			elem, err := s.typeOf(n.Additional.Schema, appendSeed(seed, "Value"))
			if err != nil {
				return member, err
			}
			r.CatchAll = elem
		}
	}
	return member, nil
}

func (s *Synthesizer) intersection(n *schema.Node, seed []string) (*model.Type, error) {
	r := &model.Record{Base: s.base(n, seed), Intersection: true}
	t := model.Named(r)
	s.register(n, r, t)

	members, err := s.flatten(n, nil)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		mseed := seed
		if name, ok := s.definitions[m]; ok {
			mseed = []string{name}
		}
		member, err := s.addFields(r, m, mseed)
		if err != nil {
			return nil, err
		}
		r.Members = append(r.Members, member)
	}
	return t, nil
}

// flatten resolves allOf members down to object schemas, expanding nested
// allOf sites in place.
func (s *Synthesizer) flatten(n *schema.Node, seen map[*schema.Node]bool) ([]*schema.Node, error) {
	if seen == nil {
		seen = map[*schema.Node]bool{}
	}
	if seen[n] {
		return nil, &diag.CyclicAliasError{Location: n.Location, Chain: []string{n.Location, n.Location}}
	}
	seen[n] = true
	var out []*schema.Node
	for _, m := range n.Members {
		target, err := s.res.Target(m)
		if err != nil {
			return nil, err
		}
		switch target.Kind {
		case schema.KindAllOf:
			nested, err := s.flatten(target, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		case schema.KindObject:
			out = append(out, target)
		default:
			return nil, &diag.MalformedError{Location: m.Location, Reason: fmt.Sprintf("allOf member must be an object schema, got %s", target.Kind)}
		}
	}
	return out, nil
}

func (s *Synthesizer) union(n *schema.Node, seed []string, overlay bool) (*model.Type, error) {
	if len(n.Members) > s.opts.MaxArity {
		return nil, &diag.ArityOverflowError{Location: n.Location, Arity: len(n.Members), Max: s.opts.MaxArity}
	}
	u := &model.Union{Base: s.base(n, seed), Overlay: overlay}
	t := model.Named(u)
	s.register(n, u, t)

	label := "OneOf"
	if n.Kind == schema.KindAnyOf {
		label = "AnyOf"
	}
	for i, m := range n.Members {
		vt, err := s.typeOf(m, appendSeed(seed, label+strconv.Itoa(i+1)))
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, &model.Variant{Type: vt})
	}
	return t, nil
}

func (s *Synthesizer) base(n *schema.Node, seed []string) model.Base {
	_, explicit := s.definitions[n]
	return model.Base{
		Seed:     append([]string(nil), seed...),
		Explicit: explicit,
		Path:     n.Location,
		Doc:      model.Doc{Title: n.Meta.Title, Description: n.Meta.Description},
		Node:     n,
	}
}

func (s *Synthesizer) register(n *schema.Node, d model.Decl, t *model.Type) {
	s.memo[n] = t
	s.decls = append(s.decls, d)
}

func (s *Synthesizer) push(n *schema.Node, f frame) {
	f.node = n
	s.onStack[n] = len(s.stack)
	s.stack = append(s.stack, f)
}

func (s *Synthesizer) pop(n *schema.Node) {
	delete(s.onStack, n)
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Synthesizer) boundaryFrom(idx int) bool {
	var declared, descends bool
	for _, f := range s.stack[idx:] {
		declared = declared || f.declared
		descends = descends || f.descends
	}
	return declared && descends
}

func (s *Synthesizer) cycleError(idx int) error {
	chain := make([]string, 0, len(s.stack)-idx+1)
	for _, f := range s.stack[idx:] {
		if f.node.Kind == schema.KindRef {
			chain = append(chain, f.node.Ref)
			continue
		}
		chain = append(chain, f.node.Location)
	}
	chain = append(chain, s.stack[idx].node.Location)
	return &diag.CyclicAliasError{Location: s.stack[idx].node.Location, Chain: chain}
}

// seedFor picks the name seed of a reference target: its definition name,
// or the pointer with a configured prefix trimmed.
func (s *Synthesizer) seedFor(target *schema.Node, fallback []string) []string {
	if name, ok := s.definitions[target]; ok {
		return []string{name}
	}
	if !s.refTargets[target] {
		return fallback
	}
	ptr := target.Location
	for _, prefix := range s.opts.TrimPrefixes {
		if strings.HasPrefix(ptr, prefix) {
			ptr = "#/" + strings.TrimPrefix(ptr, prefix)
			break
		}
	}
	p, err := jsonpointer.New(strings.TrimPrefix(ptr, "#"))
	if err != nil {
		return fallback
	}
	var seed []string
	for _, tok := range p.DecodedTokens() {
		switch tok {
		case "properties", "definitions", "$defs", "components", "schemas":
			continue
		case "items":
			tok = "Item"
		case "additionalProperties":
			tok = "Value"
		}
		seed = append(seed, tok)
	}
	if len(seed) == 0 {
		return []string{s.opts.RootName}
	}
	return seed
}

func appendSeed(seed []string, part string) []string {
	out := make([]string, len(seed), len(seed)+1)
	copy(out, seed)
	return append(out, part)
}
