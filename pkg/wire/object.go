package wire

import (
	"bytes"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a decoded JSON object whose members are still raw. Key order is
// the input order.
type Object struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// ParseObject splits data into its members. Anything but a JSON object is a
// TypeMismatchError.
func ParseObject(data []byte) (*Object, error) {
	data = bytes.TrimSpace(data)
	if kind := kindOf(data); kind != "object" {
		return nil, &TypeMismatchError{Expected: "object", Got: kind}
	}
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &Object{fields: fields}, nil
}

// Get returns the raw member stored under key.
func (o *Object) Get(key string) (json.RawMessage, bool) {
	return o.fields.Get(key)
}

// Has reports whether key is present, null or not.
func (o *Object) Has(key string) bool {
	_, ok := o.fields.Get(key)
	return ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	return o.fields.Len()
}

// Keys returns the member keys in input order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Strict fails with UnexpectedKeyError on the first key, in input order,
// that is not in declared.
func (o *Object) Strict(declared ...string) error {
	allowed := make(map[string]bool, len(declared))
	for _, k := range declared {
		allowed[k] = true
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !allowed[pair.Key] {
			return &UnexpectedKeyError{Key: pair.Key}
		}
	}
	return nil
}

// Rest decodes every member not in declared into dst, keeping input order.
func Rest[T any](o *Object, dst *Map[T], declared ...string) error {
	skip := make(map[string]bool, len(declared))
	for _, k := range declared {
		skip[k] = true
	}
	out := NewMap[T]()
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if skip[pair.Key] {
			continue
		}
		var v T
		if err := decodeInto(pair.Value, &v); err != nil {
			return withPath(err, pair.Key)
		}
		out.Set(pair.Key, v)
	}
	*dst = out
	return nil
}

// Required decodes the member under key into dst. An absent key is a
// MissingKeyError; a null member is a TypeMismatchError unless dst accepts
// null.
func Required[T any](o *Object, key string, dst *T) error {
	raw, ok := o.Get(key)
	if !ok {
		return &MissingKeyError{Key: key}
	}
	if isNull(raw) && !acceptsNull(dst) {
		return withPath(&TypeMismatchError{Expected: expected(dst), Got: "null"}, key)
	}
	return withPath(decodeInto(raw, dst), key)
}

// Optional decodes the member under key into a fresh value. Absent and null
// members both leave dst nil.
func Optional[T any](o *Object, key string, dst **T) error {
	raw, ok := o.Get(key)
	if !ok || isNull(raw) {
		*dst = nil
		return nil
	}
	v := new(T)
	if err := decodeInto(raw, v); err != nil {
		return withPath(err, key)
	}
	*dst = v
	return nil
}
