// Package naming assigns identifiers to the synthesized type model. Names are
// derived from schema paths in one deterministic pass; nothing depends on map
// iteration order.
package naming

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/model"
)

// Options tunes the name surface.
type Options struct {
	// TypeSuffix is appended to every type name.
	TypeSuffix string
	// Renames maps a canonical path (JSON pointer or dotted seed) to a name.
	Renames map[string]string
	// Excludes lists type names that are referenced but not emitted.
	Excludes []string
}

// Namer holds the registry for one compilation run.
type Namer struct {
	opts  Options
	taken map[string]string
}

// New returns a namer with an empty registry.
func New(opts Options) *Namer {
	return &Namer{opts: opts, taken: map[string]string{}}
}

// Assign names every declaration in m, then every field, variant and enum
// case.
func Assign(m *model.Model, opts Options) error {
	return New(opts).Assign(m)
}

// Assign runs the naming pass over m.
func (n *Namer) Assign(m *model.Model) error {
	// Explicitly named schemas claim their names first so positional names
	// never push a definition off its own name.
	for _, d := range m.Decls {
		b := model.BaseOf(d)
		if !b.Explicit && n.rename(b) == "" {
			continue
		}
		name := n.typeName(b)
		_, ctor := d.(*model.Record)
		if other, ok := n.conflict(name, ctor); ok {
			return &diag.NameCollisionError{Location: b.Path, Name: name, Other: other}
		}
		n.claimType(name, b.Path, ctor)
		b.Name = name
	}
	for _, d := range m.Decls {
		b := model.BaseOf(d)
		if b.Name != "" {
			continue
		}
		_, ctor := d.(*model.Record)
		b.Name = n.unique(n.typeName(b), b.Path, ctor)
	}

	excluded := map[string]bool{}
	for _, name := range n.opts.Excludes {
		excluded[name] = true
	}
	for _, d := range m.Decls {
		b := model.BaseOf(d)
		b.Excluded = excluded[b.Name]
		switch v := d.(type) {
		case *model.Record:
			nameFields(v)
		case *model.Union:
			nameVariants(v)
		}
	}
	// Enum constants share the package namespace with types, so they are
	// named after every type has its name.
	for _, d := range m.Decls {
		if e, ok := d.(*model.Enum); ok {
			n.nameCases(e)
		}
	}
	return nil
}

func (n *Namer) rename(b *model.Base) string {
	if len(n.opts.Renames) == 0 {
		return ""
	}
	if name, ok := n.opts.Renames[b.Path]; ok {
		return name
	}
	return n.opts.Renames[strings.Join(b.Seed, ".")]
}

func (n *Namer) typeName(b *model.Base) string {
	if name := n.rename(b); name != "" {
		return TypeIdentifier(name)
	}
	var sb strings.Builder
	for _, part := range b.Seed {
		sb.WriteString(Pascal(part))
	}
	return TypeIdentifier(sb.String()) + n.opts.TypeSuffix
}

func (n *Namer) claim(name, path string) {
	if _, ok := n.taken[name]; !ok {
		n.taken[name] = path
	}
}

// conflict reports who already holds name, or its constructor name when the
// type gets a constructor.
func (n *Namer) conflict(name string, ctor bool) (string, bool) {
	if other, ok := n.taken[name]; ok {
		return other, true
	}
	if ctor {
		if other, ok := n.taken["New"+name]; ok {
			return other, true
		}
	}
	return "", false
}

func (n *Namer) claimType(name, path string, ctor bool) {
	n.claim(name, path)
	if ctor {
		n.claim("New"+name, path)
	}
}

// unique returns name, or name with the lowest free numeric suffix.
func (n *Namer) unique(name, path string, ctor bool) string {
	candidate := name
	for i := 2; ; i++ {
		if _, ok := n.conflict(candidate, ctor); !ok {
			break
		}
		candidate = name + strconv.Itoa(i)
	}
	n.claimType(candidate, path, ctor)
	return candidate
}

func (n *Namer) nameCases(e *model.Enum) {
	local := map[string]bool{}
	for _, c := range e.Cases {
		base := Pascal(c.Value)
		if base == "" {
			base = "Empty"
		}
		candidate := e.Name + base
		for i := 2; local[candidate] || n.isTaken(candidate); i++ {
			candidate = e.Name + base + strconv.Itoa(i)
		}
		local[candidate] = true
		n.claim(candidate, e.Path)
		c.Name = candidate
	}
}

func (n *Namer) isTaken(name string) bool {
	_, ok := n.taken[name]
	return ok
}

func nameFields(r *model.Record) {
	used := map[string]bool{}
	for _, f := range r.Fields {
		f.Name = dedupe(FieldIdentifier(f.WireKey), used)
	}
	if r.CatchAll != nil {
		r.CatchAllName = dedupe("AdditionalProperties", used)
	}
}

func nameVariants(u *model.Union) {
	used := map[string]bool{}
	for _, v := range u.Variants {
		v.Name = dedupe(escapeMember(variantName(u, v.Type)), used)
	}
}

func variantName(u *model.Union, t *model.Type) string {
	switch t.Kind {
	case model.KindArray:
		return variantName(u, t.Elem) + "List"
	case model.KindMap:
		return variantName(u, t.Elem) + "Map"
	case model.KindNamed:
		name := model.BaseOf(t.Decl).Name
		if trimmed := strings.TrimPrefix(name, u.Name); trimmed != name && trimmed != "" && !startsWithDigit(trimmed) {
			return trimmed
		}
		return name
	}
	return t.Primitive.String()
}

func dedupe(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	used[candidate] = true
	return candidate
}
