package wire

import (
	"bytes"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a string-keyed JSON object that keeps insertion order. The zero
// value is an empty map.
type Map[T any] struct {
	pairs *orderedmap.OrderedMap[string, T]
}

// NewMap returns an empty map.
func NewMap[T any]() Map[T] {
	return Map[T]{pairs: orderedmap.New[string, T]()}
}

// Set stores v under key. A new key goes last; an existing key keeps its
// position.
func (m *Map[T]) Set(key string, v T) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, T]()
	}
	m.pairs.Set(key, v)
}

// Get returns the value stored under key.
func (m Map[T]) Get(key string) (T, bool) {
	if m.pairs == nil {
		var zero T
		return zero, false
	}
	return m.pairs.Get(key)
}

// Delete removes key.
func (m Map[T]) Delete(key string) {
	if m.pairs != nil {
		m.pairs.Delete(key)
	}
}

// Len returns the number of entries.
func (m Map[T]) Len() int {
	return m.pairs.Len()
}

// Keys returns the keys in order.
func (m Map[T]) Keys() []string {
	keys := make([]string, 0, m.Len())
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Oldest returns the first entry for iteration, or nil.
func (m Map[T]) Oldest() *orderedmap.Pair[string, T] {
	return m.pairs.Oldest()
}

func (m Map[T]) MarshalJSON() ([]byte, error) {
	w := NewObjectWriter()
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		w.Field(pair.Key, pair.Value)
	}
	return w.Bytes()
}

func (m *Map[T]) UnmarshalJSON(data []byte) error {
	obj, err := ParseObject(data)
	if err != nil {
		return err
	}
	return Rest(obj, m)
}

// MergeObjects combines encoded objects into one. When parts share a key the
// first part wins.
func MergeObjects(parts ...[]byte) ([]byte, error) {
	w := NewObjectWriter()
	for _, part := range parts {
		obj, err := ParseObject(part)
		if err != nil {
			return nil, err
		}
		for pair := obj.fields.Oldest(); pair != nil; pair = pair.Next() {
			w.Raw(pair.Key, pair.Value)
		}
	}
	return w.Bytes()
}

// ObjectWriter encodes an object one member at a time in call order.
type ObjectWriter struct {
	buf     bytes.Buffer
	written map[string]bool
	err     error
}

// NewObjectWriter returns a writer for an empty object.
func NewObjectWriter() *ObjectWriter {
	w := &ObjectWriter{written: map[string]bool{}}
	w.buf.WriteByte('{')
	return w
}

// Field encodes v under key. Keys already written are skipped.
func (w *ObjectWriter) Field(key string, v any) {
	if w.err != nil || w.written[key] {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = withPath(err, key)
		return
	}
	w.Raw(key, data)
}

// Raw writes an already encoded member.
func (w *ObjectWriter) Raw(key string, data []byte) {
	if w.err != nil || w.written[key] {
		return
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	if len(w.written) > 0 {
		w.buf.WriteByte(',')
	}
	w.written[key] = true
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(data)
}

// Bytes closes the object and returns it, or the first encoding error.
func (w *ObjectWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, w.buf.Len()+1)
	copy(out, w.buf.Bytes())
	out[len(out)-1] = '}'
	return out, nil
}

// Put writes a required member.
func Put[T any](w *ObjectWriter, key string, v T) {
	w.Field(key, v)
}

// PutOptional writes an optional member; nil is omitted.
func PutOptional[T any](w *ObjectWriter, key string, v *T) {
	if v != nil {
		w.Field(key, *v)
	}
}

// PutRest writes the catch-all entries after the declared members. Entries
// that shadow a declared key are dropped.
func PutRest[T any](w *ObjectWriter, m Map[T]) {
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		w.Field(pair.Key, pair.Value)
	}
}

// PutMembers splices an encoded object, such as an intersection member, into
// w.
func PutMembers(w *ObjectWriter, data []byte) error {
	obj, err := ParseObject(data)
	if err != nil {
		return err
	}
	for pair := obj.fields.Oldest(); pair != nil; pair = pair.Next() {
		w.Raw(pair.Key, pair.Value)
	}
	return nil
}
