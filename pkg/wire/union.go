package wire

import (
	"errors"

	"github.com/goccy/go-json"
)

// ErrEmptyUnion is returned when encoding a union that holds no variant.
var ErrEmptyUnion = errors.New("wire: union holds no variant")

// Variant is one member slot of a union during decoding.
type Variant struct {
	decode func([]byte) error
	clear  func()
}

// Try binds a variant slot. The slot is set only when the member decodes.
func Try[T any](slot **T) Variant {
	return Variant{
		decode: func(data []byte) error {
			v := new(T)
			if err := decodeInto(data, v); err != nil {
				return err
			}
			*slot = v
			return nil
		},
		clear: func() { *slot = nil },
	}
}

// DecodeOneOf tries the variants in declared order and keeps the first that
// accepts data.
func DecodeOneOf(data []byte, variants ...Variant) error {
	for _, v := range variants {
		v.clear()
	}
	attempts := make([]error, 0, len(variants))
	for _, v := range variants {
		err := v.decode(data)
		if err == nil {
			return nil
		}
		attempts = append(attempts, err)
	}
	return &NoVariantMatchedError{Attempts: attempts}
}

// DecodeAnyOf keeps every variant that accepts data. At least one must.
func DecodeAnyOf(data []byte, variants ...Variant) error {
	for _, v := range variants {
		v.clear()
	}
	var attempts []error
	matched := 0
	for _, v := range variants {
		if err := v.decode(data); err != nil {
			attempts = append(attempts, err)
			continue
		}
		matched++
	}
	if matched == 0 {
		return &NoVariantMatchedError{Attempts: attempts}
	}
	return nil
}

// Held is a variant slot prepared for encoding.
type Held struct {
	value any
	ok    bool
}

// Hold wraps a variant slot; a nil slot is not held.
func Hold[T any](slot *T) Held {
	if slot == nil {
		return Held{}
	}
	return Held{value: *slot, ok: true}
}

// EncodeOneOf encodes the first held variant.
func EncodeOneOf(variants ...Held) ([]byte, error) {
	for _, v := range variants {
		if v.ok {
			return json.Marshal(v.value)
		}
	}
	return nil, ErrEmptyUnion
}

// EncodeAnyOf encodes the held variants. When every held variant encodes to
// an object the objects are merged; otherwise the first held variant wins.
func EncodeAnyOf(variants ...Held) ([]byte, error) {
	var parts [][]byte
	for _, v := range variants {
		if !v.ok {
			continue
		}
		data, err := json.Marshal(v.value)
		if err != nil {
			return nil, err
		}
		parts = append(parts, data)
	}
	switch len(parts) {
	case 0:
		return nil, ErrEmptyUnion
	case 1:
		return parts[0], nil
	}
	for _, p := range parts {
		if kindOf(p) != "object" {
			return parts[0], nil
		}
	}
	return MergeObjects(parts...)
}
