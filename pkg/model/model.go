// Package model is the typed entity graph synthesized from schema IR: records,
// unions, enums and aliases, plus the type expressions that connect them.
package model

import (
	"github.com/blimu-dev/schema-gen/pkg/schema"
)

// Primitive names the leaf types.
type Primitive int

const (
	Any Primitive = iota
	Null
	Bool
	Integer
	Number
	String
)

func (p Primitive) String() string {
	switch p {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Integer:
		return "Integer"
	case Number:
		return "Number"
	case String:
		return "String"
	}
	return "Any"
}

// TypeKind discriminates Type.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindArray
	KindMap
	KindNamed
)

// Type is a type expression used by fields, union members and aliases.
type Type struct {
	Kind      TypeKind
	Primitive Primitive
	// Elem is the element type of arrays and maps.
	Elem *Type
	// Decl is the referenced declaration of a named type.
	Decl Decl
}

// PrimitiveType returns a primitive type expression.
func PrimitiveType(p Primitive) *Type { return &Type{Kind: KindPrimitive, Primitive: p} }

// ArrayOf returns a sequence type expression.
func ArrayOf(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// MapOf returns an ordered string-keyed map type expression.
func MapOf(elem *Type) *Type { return &Type{Kind: KindMap, Elem: elem} }

// Named returns a reference to decl.
func Named(decl Decl) *Type { return &Type{Kind: KindNamed, Decl: decl} }

// Declared follows aliases of named types to the declaration that owns the
// value's representation. It returns nil for non-named types.
func (t *Type) Declared() Decl {
	seen := map[Decl]bool{}
	cur := t
	for cur != nil && cur.Kind == KindNamed {
		if seen[cur.Decl] {
			return nil
		}
		seen[cur.Decl] = true
		alias, ok := cur.Decl.(*Alias)
		if !ok {
			return cur.Decl
		}
		cur = alias.Target
	}
	return nil
}

// Doc is the documentation copied from schema metadata.
type Doc struct {
	Title       string
	Description string
}

// Empty reports a declaration without documentation.
func (d Doc) Empty() bool { return d.Title == "" && d.Description == "" }

// Base holds what every declaration has.
type Base struct {
	// Name is assigned by the naming pass; it is empty until then.
	Name string
	// Seed is the chain of schema names the declaration's name derives from.
	Seed []string
	// Explicit marks declarations named by a definition or a title rather
	// than by their position.
	Explicit bool
	// Path is the canonical path used for renames and diagnostics.
	Path string
	Doc  Doc
	// Node is the IR node the declaration was synthesized from.
	Node *schema.Node
	// Excluded declarations are referenced but not emitted.
	Excluded bool
}

// Decl is a named entity in the type model.
type Decl interface {
	base() *Base
}

// BaseOf returns the common part of d.
func BaseOf(d Decl) *Base { return d.base() }

func (b *Base) base() *Base { return b }

// Field is one property of a record.
type Field struct {
	// Name is the identifier assigned by the naming pass.
	Name string
	// WireKey is the JSON key, exactly as written in the schema.
	WireKey  string
	Type     *Type
	Required bool
	// Indirect marks the back-edge of a by-value record cycle.
	Indirect   bool
	Default    any
	HasDefault bool
	Doc        Doc
}

// Member is one allOf member of an intersection: the fields it contributes
// and whether it rejects unknown keys.
type Member struct {
	Fields []int
	Strict bool
}

// Record is a product type. Intersections are records with more than one
// member; every record has at least one member.
type Record struct {
	Base
	Fields []*Field
	// CatchAll collects undeclared keys when additionalProperties is a schema.
	CatchAll     *Type
	CatchAllName string
	Members      []Member
	Intersection bool
}

// Strict reports whether any member rejects unknown keys.
func (r *Record) Strict() bool {
	for _, m := range r.Members {
		if m.Strict {
			return true
		}
	}
	return false
}

// Lookup returns the field with wire key key.
func (r *Record) Lookup(key string) *Field {
	for _, f := range r.Fields {
		if f.WireKey == key {
			return f
		}
	}
	return nil
}

// Variant is one member of a union.
type Variant struct {
	// Name is the variant's field identifier, assigned by the naming pass.
	Name string
	Type *Type
}

// Union is a oneOf (first match wins) or anyOf (every match kept) site.
type Union struct {
	Base
	Variants []*Variant
	// Overlay selects anyOf decoding.
	Overlay bool
}

// Arity is the member count.
func (u *Union) Arity() int { return len(u.Variants) }

// EnumCase is one literal of an enum.
type EnumCase struct {
	// Name is the case identifier, possibly escaped.
	Name string
	// Value is the wire value, never altered.
	Value string
}

// Enum is a closed set of string literals.
type Enum struct {
	Base
	Cases []*EnumCase
}

// Alias is a synonym for a sequence, map, primitive or another declaration.
type Alias struct {
	Base
	Target *Type
}

// Model is the synthesized entity graph for one document.
type Model struct {
	Document string
	// Decls lists declarations in synthesis order.
	Decls []Decl
}
