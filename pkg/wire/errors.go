// Package wire is the runtime that generated models depend on. It decodes
// JSON objects key by key so generated code can enforce requiredness,
// strictness and union precedence, and encodes them back without emitting
// absent optional keys.
package wire

import (
	"fmt"
	"strings"
)

// MissingKeyError reports a required key absent from the input.
type MissingKeyError struct {
	Key string
	// Path is the JSON pointer of the object that lacks the key.
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("wire: missing required key %q%s", e.Key, at(e.Path))
}

// UnexpectedKeyError reports an undeclared key in a strict object.
type UnexpectedKeyError struct {
	Key  string
	Path string
}

func (e *UnexpectedKeyError) Error() string {
	return fmt.Sprintf("wire: unexpected key %q%s", e.Key, at(e.Path))
}

// TypeMismatchError reports a JSON value of the wrong kind.
type TypeMismatchError struct {
	Expected string
	Got      string
	Path     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("wire: expected %s, got %s%s", e.Expected, e.Got, at(e.Path))
}

// NoVariantMatchedError reports a union input that no member accepts.
type NoVariantMatchedError struct {
	Path string
	// Attempts holds each member's failure in declared order.
	Attempts []error
}

func (e *NoVariantMatchedError) Error() string {
	msgs := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		msgs = append(msgs, a.Error())
	}
	return fmt.Sprintf("wire: no variant matched%s: [%s]", at(e.Path), strings.Join(msgs, "; "))
}

func at(path string) string {
	if path == "" {
		return ""
	}
	return " at " + path
}

// withPath prefixes the location of a runtime error with seg.
func withPath(err error, seg string) error {
	if err == nil {
		return nil
	}
	seg = "/" + strings.NewReplacer("~", "~0", "/", "~1").Replace(seg)
	switch e := err.(type) {
	case *MissingKeyError:
		c := *e
		c.Path = seg + e.Path
		return &c
	case *UnexpectedKeyError:
		c := *e
		c.Path = seg + e.Path
		return &c
	case *TypeMismatchError:
		c := *e
		c.Path = seg + e.Path
		return &c
	case *NoVariantMatchedError:
		c := *e
		c.Path = seg + e.Path
		return &c
	}
	return err
}
