// Package document holds schema documents as ordered key-value trees. Object
// keys keep their declaration order, which the rest of the pipeline relies on
// for field order and deterministic naming.
package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind classifies a raw value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is one node of a parsed document.
type Value struct {
	Kind   Kind
	Bool   bool
	Number json.Number
	Str    string
	Items  []*Value
	Fields *orderedmap.OrderedMap[string, *Value]
}

// NewObject returns an empty object value.
func NewObject() *Value {
	return &Value{Kind: Object, Fields: orderedmap.New[string, *Value]()}
}

// Get returns the member named key of an object value.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != Object {
		return nil, false
	}
	return v.Fields.Get(key)
}

// Has reports whether an object value declares key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the object keys in declaration order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != Object {
		return nil
	}
	keys := make([]string, 0, v.Fields.Len())
	for pair := v.Fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Interface converts the value into plain Go values: nil, bool, json.Number,
// string, []any and map[string]any.
func (v *Value) Interface() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case Bool:
		return v.Bool
	case Number:
		return v.Number
	case String:
		return v.Str
	case Array:
		out := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			out = append(out, item.Interface())
		}
		return out
	case Object:
		out := make(map[string]any, v.Fields.Len())
		for pair := v.Fields.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = pair.Value.Interface()
		}
		return out
	}
	return nil
}

// MarshalJSON writes the value back out with its key order intact.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	switch v.Kind {
	case Bool:
		return json.Marshal(v.Bool)
	case Number:
		return []byte(v.Number.String()), nil
	case String:
		return json.Marshal(v.Str)
	case Array:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			data, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			b.Write(data)
		}
		b.WriteByte(']')
		return []byte(b.String()), nil
	case Object:
		return v.Fields.MarshalJSON()
	}
	return []byte("null"), nil
}

// Lookup walks a JSON pointer ("#/a/b", "/a/b" or "") from v.
func (v *Value) Lookup(pointer string) (*Value, error) {
	p, err := jsonpointer.New(strings.TrimPrefix(pointer, "#"))
	if err != nil {
		return nil, fmt.Errorf("invalid pointer %q: %w", pointer, err)
	}
	cur := v
	for _, tok := range p.DecodedTokens() {
		switch cur.Kind {
		case Object:
			next, ok := cur.Fields.Get(tok)
			if !ok {
				return nil, fmt.Errorf("pointer %q: no member %q", pointer, tok)
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Items) {
				return nil, fmt.Errorf("pointer %q: bad index %q", pointer, tok)
			}
			cur = cur.Items[idx]
		default:
			return nil, fmt.Errorf("pointer %q: cannot descend into %s", pointer, cur.Kind)
		}
	}
	return cur, nil
}

// Pointer appends an escaped reference token to a JSON pointer.
func Pointer(base string, tokens ...string) string {
	if base == "" {
		base = "#"
	}
	var b strings.Builder
	b.WriteString(base)
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(jsonpointer.Escape(tok))
	}
	return b.String()
}
