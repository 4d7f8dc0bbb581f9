package wire

import (
	"bytes"
	"math"
	"reflect"
	"strconv"

	"github.com/goccy/go-json"
)

// Null is the value of a schema that only admits null.
type Null struct{}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (n *Null) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if !isNull(data) {
		return &TypeMismatchError{Expected: "null", Got: kindOf(data)}
	}
	return nil
}

// Decode decodes data into dst with the same strictness generated models use.
func Decode[T any](data []byte, dst *T) error {
	return decodeInto(data, dst)
}

// Unmarshal decodes data into the value v points to.
func Unmarshal(data []byte, v any) error {
	return decodeInto(data, v)
}

// Marshal encodes v.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

func decodeInto(data []byte, dst any) error {
	data = bytes.TrimSpace(data)
	switch d := dst.(type) {
	case json.Unmarshaler:
		return d.UnmarshalJSON(data)
	case *any:
		return decodeAny(data, d)
	case *string:
		return decodeString(data, d)
	case *bool:
		return decodeBool(data, d)
	case *int64:
		return decodeInteger(data, d)
	case *float64:
		return decodeNumber(data, d)
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return json.Unmarshal(data, dst)
	}
	elem := rv.Elem()
	switch elem.Kind() {
	case reflect.Pointer:
		if isNull(data) {
			return &TypeMismatchError{Expected: expectedType(elem.Type().Elem()), Got: "null"}
		}
		p := reflect.New(elem.Type().Elem())
		if err := decodeInto(data, p.Interface()); err != nil {
			return err
		}
		elem.Set(p)
		return nil
	case reflect.Slice:
		if kind := kindOf(data); kind != "array" {
			return &TypeMismatchError{Expected: "array", Got: kind}
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		s := reflect.MakeSlice(elem.Type(), len(items), len(items))
		for i, item := range items {
			if err := decodeInto(item, s.Index(i).Addr().Interface()); err != nil {
				return withPath(err, strconv.Itoa(i))
			}
		}
		elem.Set(s)
		return nil
	case reflect.String:
		var s string
		if err := decodeString(data, &s); err != nil {
			return err
		}
		elem.SetString(s)
		return nil
	case reflect.Bool:
		var b bool
		if err := decodeBool(data, &b); err != nil {
			return err
		}
		elem.SetBool(b)
		return nil
	case reflect.Int64:
		var n int64
		if err := decodeInteger(data, &n); err != nil {
			return err
		}
		elem.SetInt(n)
		return nil
	case reflect.Float64:
		var f float64
		if err := decodeNumber(data, &f); err != nil {
			return err
		}
		elem.SetFloat(f)
		return nil
	}
	return json.Unmarshal(data, dst)
}

func decodeAny(data []byte, dst *any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func decodeString(data []byte, dst *string) error {
	if kind := kindOf(data); kind != "string" {
		return &TypeMismatchError{Expected: "string", Got: kind}
	}
	return json.Unmarshal(data, dst)
}

func decodeBool(data []byte, dst *bool) error {
	switch string(data) {
	case "true":
		*dst = true
	case "false":
		*dst = false
	default:
		return &TypeMismatchError{Expected: "boolean", Got: kindOf(data)}
	}
	return nil
}

func decodeInteger(data []byte, dst *int64) error {
	if kind := kindOf(data); kind != "number" {
		return &TypeMismatchError{Expected: "integer", Got: kind}
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*dst = n
		return nil
	}
	// 1.0 and 1e2 are integers on the wire.
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return &TypeMismatchError{Expected: "integer", Got: "number " + string(data)}
	}
	*dst = int64(f)
	return nil
}

func decodeNumber(data []byte, dst *float64) error {
	if kind := kindOf(data); kind != "number" {
		return &TypeMismatchError{Expected: "number", Got: kind}
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return &TypeMismatchError{Expected: "number", Got: "number " + string(data)}
	}
	*dst = f
	return nil
}

// DecodeEnum decodes a string and checks it against cases.
func DecodeEnum[T ~string](data []byte, dst *T, cases ...T) error {
	var s string
	if err := decodeString(bytes.TrimSpace(data), &s); err != nil {
		return err
	}
	for _, c := range cases {
		if string(c) == s {
			*dst = c
			return nil
		}
	}
	quoted := make([]byte, 0, 16*len(cases))
	quoted = append(quoted, "one of "...)
	for i, c := range cases {
		if i > 0 {
			quoted = append(quoted, ", "...)
		}
		quoted = strconv.AppendQuote(quoted, string(c))
	}
	return &TypeMismatchError{Expected: string(quoted), Got: strconv.Quote(s)}
}

// kindOf names the JSON kind of a trimmed value from its first byte.
func kindOf(data []byte) string {
	if len(data) == 0 {
		return "nothing"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// acceptsNull reports whether a required member may hold null: the null
// type, the unconstrained type, and types that decode themselves.
func acceptsNull(dst any) bool {
	switch dst.(type) {
	case *Null, *any:
		return true
	case json.Unmarshaler:
		return true
	}
	return false
}

func expected(dst any) string {
	return expectedType(reflect.TypeOf(dst).Elem())
}

func expectedType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Pointer:
		return expectedType(t.Elem())
	case reflect.Slice:
		return "array"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int64:
		return "integer"
	case reflect.Float64:
		return "number"
	case reflect.Struct:
		if reflect.PointerTo(t).Implements(unmarshalerType) {
			return "object"
		}
	}
	return "value"
}
