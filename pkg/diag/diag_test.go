package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&MalformedError{Location: "#/properties/a", Reason: "type must be a string or array"}, "#/properties/a: malformed schema: type must be a string or array"},
		{&UnresolvedReferenceError{Location: "#/properties/b", Pointer: "#/definitions/Missing"}, `#/properties/b: unresolved reference "#/definitions/Missing"`},
		{&CyclicAliasError{Location: "#/definitions/A", Chain: []string{"#/definitions/A", "#/definitions/B", "#/definitions/A"}}, "#/definitions/A: cyclic alias: #/definitions/A -> #/definitions/B -> #/definitions/A"},
		{&FieldCollisionError{Location: "#", Field: "id"}, `#: field "id" declared by more than one allOf member`},
		{&ArityOverflowError{Location: "#/oneOf", Arity: 12, Max: 9}, "#/oneOf: union of 12 members exceeds maximum arity 9"},
		{&NameCollisionError{Location: "#/definitions/foo-bar", Name: "FooBar", Other: "#/definitions/foo_bar"}, `#/definitions/foo-bar: type name "FooBar" already used by #/definitions/foo_bar`},
		{&MalformedError{Reason: "root must be an object"}, "#: malformed schema: root must be an object"},
	}

	for _, test := range tests {
		if got := test.err.Error(); got != test.expected {
			t.Errorf("Error() = %q, expected %q", got, test.expected)
		}
	}
}

func TestBatchError(t *testing.T) {
	var batch BatchError
	if batch.ErrOrNil() != nil {
		t.Fatal("empty batch should be nil")
	}

	batch.Add("b.json", &FieldCollisionError{Location: "#", Field: "x"})
	batch.Add("ok.json", nil)
	batch.Add("a.json", &ArityOverflowError{Location: "#", Arity: 10, Max: 9})

	err := batch.ErrOrNil()
	if err == nil {
		t.Fatal("expected batch error")
	}
	if len(batch.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(batch.Errors))
	}
	if batch.Errors[0].Document != "a.json" {
		t.Errorf("errors not sorted by document: %q first", batch.Errors[0].Document)
	}

	var collision *FieldCollisionError
	if !errors.As(err, &collision) || collision.Field != "x" {
		t.Errorf("errors.As did not find FieldCollisionError in %v", err)
	}
	if !strings.HasPrefix(err.Error(), "2 documents failed") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
