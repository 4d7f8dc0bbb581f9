// Package diag defines the compile-time diagnostics raised while turning a
// schema document into declarations. Every diagnostic carries the JSON pointer
// of the schema location that caused it.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// MalformedError reports a schema shape the parser does not recognize.
type MalformedError struct {
	Location string
	Reason   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed schema: %s", loc(e.Location), e.Reason)
}

// UnresolvedReferenceError reports a $ref that points at nothing.
type UnresolvedReferenceError struct {
	Location string
	Pointer  string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: unresolved reference %q", loc(e.Location), e.Pointer)
}

// CyclicAliasError reports a reference cycle that never passes through a
// record or union, so it has no finite representation.
type CyclicAliasError struct {
	Location string
	Chain    []string
}

func (e *CyclicAliasError) Error() string {
	return fmt.Sprintf("%s: cyclic alias: %s", loc(e.Location), strings.Join(e.Chain, " -> "))
}

// FieldCollisionError reports two allOf members declaring the same property.
type FieldCollisionError struct {
	Location string
	Field    string
}

func (e *FieldCollisionError) Error() string {
	return fmt.Sprintf("%s: field %q declared by more than one allOf member", loc(e.Location), e.Field)
}

// ArityOverflowError reports a oneOf/anyOf site with more members than the
// configured maximum.
type ArityOverflowError struct {
	Location string
	Arity    int
	Max      int
}

func (e *ArityOverflowError) Error() string {
	return fmt.Sprintf("%s: union of %d members exceeds maximum arity %d", loc(e.Location), e.Arity, e.Max)
}

// NameCollisionError reports two explicitly named schemas that map onto the
// same identifier.
type NameCollisionError struct {
	Location string
	Name     string
	Other    string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%s: type name %q already used by %s", loc(e.Location), e.Name, e.Other)
}

// DocumentError ties a diagnostic to the document it was raised for.
type DocumentError struct {
	Document string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Document, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// BatchError collects the failures of a multi-document run. Documents that
// compiled successfully are not listed.
type BatchError struct {
	Errors []*DocumentError
}

func (e *BatchError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	lines := make([]string, 0, len(e.Errors))
	for _, de := range e.Errors {
		lines = append(lines, "  "+de.Error())
	}
	return fmt.Sprintf("%d documents failed:\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

func (e *BatchError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, de := range e.Errors {
		out = append(out, de)
	}
	return out
}

// Add records a failure for document. A nil err is ignored.
func (e *BatchError) Add(document string, err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, &DocumentError{Document: document, Err: err})
}

// ErrOrNil returns nil when nothing failed, otherwise the batch sorted by
// document so reports are stable across parallel runs.
func (e *BatchError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	sort.SliceStable(e.Errors, func(i, j int) bool { return e.Errors[i].Document < e.Errors[j].Document })
	return e
}

func loc(l string) string {
	if l == "" {
		return "#"
	}
	return l
}
