package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/document"
)

func mustParse(t *testing.T, src string) *Schema {
	t.Helper()
	root, err := document.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	s, err := Parse(document.New("test.json", "", root))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParseObjectKeepsOrder(t *testing.T) {
	s := mustParse(t, `{
		"type": "object",
		"title": "Scenario",
		"properties": {"a2": {"type": "string"}, "a1": {"type": "integer"}, "for": {"type": "boolean"}},
		"required": ["a1", "a2"],
		"additionalProperties": false
	}`)

	root := s.Root
	if root.Kind != KindObject {
		t.Fatalf("expected object, got %s", root.Kind)
	}
	if diff := cmp.Diff([]string{"a2", "a1", "for"}, root.PropertyNames()); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}
	if !root.Required["a1"] || !root.Required["a2"] || root.Required["for"] {
		t.Errorf("unexpected required set %v", root.Required)
	}
	if !root.Strict() {
		t.Error("expected strict object")
	}
	if root.Meta.Title != "Scenario" {
		t.Errorf("title = %q", root.Meta.Title)
	}
	a1 := root.Property("a1")
	if a1.Kind != KindNumber || !a1.Integer {
		t.Errorf("a1 = %s integer=%v", a1.Kind, a1.Integer)
	}
	if a1.Location != "#/properties/a1" {
		t.Errorf("a1 location = %q", a1.Location)
	}
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{`{}`, KindAny},
		{`{"type":"null"}`, KindNull},
		{`{"type":"boolean"}`, KindBoolean},
		{`{"type":"number"}`, KindNumber},
		{`{"type":"string"}`, KindString},
		{`{"items":{"type":"string"}}`, KindArray},
		{`{"properties":{}}`, KindObject},
		{`{"$ref":"#/definitions/A","definitions":{"A":{}}}`, KindRef},
		{`{"oneOf":[{"type":"string"},{"type":"number"}]}`, KindOneOf},
		{`{"anyOf":[{"type":"string"},{"type":"number"}]}`, KindAnyOf},
		{`{"allOf":[{"properties":{"a":{}}},{"properties":{"b":{}}}]}`, KindAllOf},
		{`{"type":["string","null"]}`, KindOneOf},
		{`{"type":["integer"]}`, KindNumber},
		{`{"enum":["a","b"]}`, KindString},
		{`{"type":"integer","enum":[1,2]}`, KindNumber},
		{`{"const":"only"}`, KindString},
		{`{"type":"object","oneOf":[{"properties":{"a":{}}},{"properties":{"b":{}}}]}`, KindOneOf},
		{`{"type":"string","oneOf":[{"required":["a"]},{"required":["b"]}]}`, KindString},
		{`{"allOf":[{"$ref":"#/definitions/A"}],"definitions":{"A":{}}}`, KindRef},
	}

	for _, test := range tests {
		s := mustParse(t, test.src)
		if s.Root.Kind != test.kind {
			t.Errorf("Parse(%s) kind = %s, expected %s", test.src, s.Root.Kind, test.kind)
		}
	}
}

func TestParseEnum(t *testing.T) {
	s := mustParse(t, `{"enum":["asc","desc","asc"],"description":"sort order"}`)
	if diff := cmp.Diff([]string{"asc", "desc"}, s.Root.Enum); diff != "" {
		t.Errorf("enum mismatch (-want +got):\n%s", diff)
	}
	if !s.Root.IsEnum() {
		t.Error("expected IsEnum")
	}
	if s.Root.Meta.Description != "sort order" {
		t.Errorf("description = %q", s.Root.Meta.Description)
	}
}

func TestParseAllOfWithSiblingProperties(t *testing.T) {
	s := mustParse(t, `{
		"allOf": [{"$ref": "#/definitions/Base"}],
		"properties": {"extra": {"type": "string"}},
		"definitions": {"Base": {"properties": {"id": {"type": "string"}}}}
	}`)
	if s.Root.Kind != KindAllOf {
		t.Fatalf("expected allOf, got %s", s.Root.Kind)
	}
	if len(s.Root.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(s.Root.Members))
	}
	if s.Root.Members[0].Kind != KindRef || s.Root.Members[1].Kind != KindObject {
		t.Errorf("unexpected member kinds %s, %s", s.Root.Members[0].Kind, s.Root.Members[1].Kind)
	}
}

func TestParseDefinitionsAndRefs(t *testing.T) {
	s := mustParse(t, `{
		"$defs": {"B": {"type": "string"}},
		"definitions": {"A": {"type": "object", "properties": {"b": {"$ref": "#/$defs/B"}}}},
		"$ref": "#/definitions/A"
	}`)

	var names []string
	for _, d := range s.Definitions {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"A", "B"}, names); diff != "" {
		t.Errorf("definitions mismatch (-want +got):\n%s", diff)
	}
	if len(s.Refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(s.Refs))
	}
	if s.Definitions[0].Node.Location != "#/definitions/A" {
		t.Errorf("location = %q", s.Definitions[0].Node.Location)
	}
}

func TestParsePropertyOrder(t *testing.T) {
	s := mustParse(t, `{"properties":{"a":{},"b":{},"c":{}},"propertyOrder":["c","a"]}`)
	if diff := cmp.Diff([]string{"c", "a", "b"}, s.Root.PropertyNames()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAdditionalProperties(t *testing.T) {
	s := mustParse(t, `{"type":"object","additionalProperties":{"type":"integer"}}`)
	ap := s.Root.Additional
	if ap == nil || !ap.Allowed || ap.Schema == nil || ap.Schema.Kind != KindNumber {
		t.Fatalf("unexpected additionalProperties %+v", ap)
	}
	if s.Root.Strict() {
		t.Error("schema additionalProperties must not be strict")
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		src      string
		location string
	}{
		{`[]`, "#"},
		{`{"type":"tuple"}`, "#"},
		{`{"type":7}`, "#/type"},
		{`{"properties":{"a":3}}`, "#/properties/a"},
		{`{"oneOf":{}}`, "#/oneOf"},
		{`{"items":[{"type":"string"}]}`, "#/items"},
		{`{"required":"a"}`, "#/required"},
		{`{"properties":{"a":false}}`, "#/properties/a"},
		{`{"title":5}`, "#/title"},
	}

	for _, test := range tests {
		root, err := document.ParseJSON([]byte(test.src))
		if err != nil {
			t.Fatalf("ParseJSON(%s): %v", test.src, err)
		}
		_, err = Parse(document.New("test.json", "", root))
		var malformed *diag.MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("Parse(%s) error = %v, expected MalformedError", test.src, err)
			continue
		}
		if malformed.Location != test.location {
			t.Errorf("Parse(%s) location = %q, expected %q", test.src, malformed.Location, test.location)
		}
	}
}

func TestParserAtMemoizes(t *testing.T) {
	root, err := document.ParseJSON([]byte(`{"x-shared":{"type":"string"},"properties":{"a":{"type":"integer"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(document.New("test.json", "", root))
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}

	a1, err := p.At("#/properties/a")
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := p.At("#/properties/a")
	if a1 != a2 {
		t.Error("At returned different instances for the same pointer")
	}

	shared, err := p.At("#/x-shared")
	if err != nil {
		t.Fatalf("At(#/x-shared): %v", err)
	}
	again, _ := p.At("#/x-shared")
	if shared != again || shared.Kind != KindString {
		t.Error("lazily parsed node not memoized")
	}

	if _, err := p.At("#/nope"); err == nil {
		t.Error("expected error for missing pointer")
	}
}
