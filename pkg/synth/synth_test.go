package synth

import (
	"errors"
	"testing"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/document"
	"github.com/blimu-dev/schema-gen/pkg/model"
	"github.com/blimu-dev/schema-gen/pkg/resolve"
)

func synthesize(t *testing.T, src string, opts Options) (*model.Model, error) {
	t.Helper()
	root, err := document.ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	res := resolve.New(document.NewSet(document.New("test.json", "", root)))
	s, err := res.Schema("test.json")
	if err != nil {
		return nil, err
	}
	if err := res.CheckAll(s); err != nil {
		return nil, err
	}
	return Synthesize(res, s, opts)
}

func mustSynthesize(t *testing.T, src string) *model.Model {
	t.Helper()
	m, err := synthesize(t, src, Options{RootName: "Root"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return m
}

func findDecl(m *model.Model, seed ...string) model.Decl {
	for _, d := range m.Decls {
		b := model.BaseOf(d)
		if len(b.Seed) != len(seed) {
			continue
		}
		match := true
		for i := range seed {
			if b.Seed[i] != seed[i] {
				match = false
				break
			}
		}
		if match {
			return d
		}
	}
	return nil
}

func TestRecord(t *testing.T) {
	m := mustSynthesize(t, `{
		"type": "object",
		"properties": {"a1": {"type": "integer"}, "a2": {"type": "string"}, "tags": {"type": "array", "items": {"type": "string"}}},
		"required": ["a1", "a2"],
		"additionalProperties": false
	}`)
	r, ok := findDecl(m, "Root").(*model.Record)
	if !ok {
		t.Fatalf("expected root record, got %T", findDecl(m, "Root"))
	}
	if !r.Strict() {
		t.Error("expected strict record")
	}
	tests := []struct {
		key      string
		required bool
		kind     model.TypeKind
	}{
		{"a1", true, model.KindPrimitive},
		{"a2", true, model.KindPrimitive},
		{"tags", false, model.KindArray},
	}
	if len(r.Fields) != len(tests) {
		t.Fatalf("expected %d fields, got %d", len(tests), len(r.Fields))
	}
	for i, test := range tests {
		f := r.Fields[i]
		if f.WireKey != test.key || f.Required != test.required || f.Type.Kind != test.kind {
			t.Errorf("field %d = {%q %v %v}, expected {%q %v %v}", i, f.WireKey, f.Required, f.Type.Kind, test.key, test.required, test.kind)
		}
	}
	if r.Fields[0].Type.Primitive != model.Integer {
		t.Errorf("a1 primitive = %v", r.Fields[0].Type.Primitive)
	}
}

func TestUnions(t *testing.T) {
	tests := []struct {
		src     string
		opts    Options
		overlay bool
	}{
		{`{"oneOf":[{"type":"string"},{"type":"number"}]}`, Options{}, false},
		{`{"anyOf":[{"type":"string"},{"type":"number"}]}`, Options{}, true},
		{`{"anyOf":[{"type":"string"},{"type":"number"}]}`, Options{AnyOfAsOneOf: true}, false},
		{`{"type":["string","number"]}`, Options{}, false},
	}
	for _, test := range tests {
		m, err := synthesize(t, test.src, test.opts)
		if err != nil {
			t.Fatalf("Synthesize(%s): %v", test.src, err)
		}
		u, ok := m.Decls[0].(*model.Union)
		if !ok {
			t.Fatalf("Synthesize(%s) first decl = %T, expected union", test.src, m.Decls[0])
		}
		if u.Overlay != test.overlay || u.Arity() != 2 {
			t.Errorf("Synthesize(%s) = overlay %v arity %d", test.src, u.Overlay, u.Arity())
		}
		if u.Variants[0].Type.Primitive != model.String || u.Variants[1].Type.Primitive != model.Number {
			t.Errorf("Synthesize(%s) variants out of declared order", test.src)
		}
	}
}

func TestInlineMemberSeeds(t *testing.T) {
	m := mustSynthesize(t, `{"definitions": {"Shape": {"oneOf": [
		{"type": "object", "properties": {"r": {"type": "number"}}},
		{"type": "object", "title": "Square", "properties": {"side": {"type": "number"}}}
	]}}}`)
	if _, ok := findDecl(m, "Shape", "OneOf1").(*model.Record); !ok {
		t.Error("first member should be seeded Shape/OneOf1")
	}
	if _, ok := findDecl(m, "Square").(*model.Record); !ok {
		t.Error("titled member should be seeded by its title")
	}
}

func TestSingleLiteralEnum(t *testing.T) {
	m := mustSynthesize(t, `{"properties": {"kind": {"const": "circle"}, "order": {"enum": ["asc", "desc"]}}}`)
	kind, ok := findDecl(m, "Root", "kind").(*model.Enum)
	if !ok || len(kind.Cases) != 1 || kind.Cases[0].Value != "circle" {
		t.Errorf("const should produce a one-case enum, got %#v", findDecl(m, "Root", "kind"))
	}
	order, ok := findDecl(m, "Root", "order").(*model.Enum)
	if !ok || len(order.Cases) != 2 {
		t.Errorf("enum should produce two cases, got %#v", findDecl(m, "Root", "order"))
	}
}

func TestIntersection(t *testing.T) {
	m := mustSynthesize(t, `{
		"definitions": {
			"Base": {"type": "object", "properties": {"id": {"type": "string"}}, "required": ["id"]},
			"Named": {"allOf": [
				{"$ref": "#/definitions/Base"},
				{"type": "object", "properties": {"name": {"type": "string"}}, "additionalProperties": false}
			]}
		}
	}`)
	r, ok := findDecl(m, "Named").(*model.Record)
	if !ok || !r.Intersection {
		t.Fatalf("expected intersection record, got %#v", findDecl(m, "Named"))
	}
	if len(r.Fields) != 2 || r.Fields[0].WireKey != "id" || r.Fields[1].WireKey != "name" {
		t.Fatalf("unexpected flattened fields %+v", r.Fields)
	}
	if len(r.Members) != 2 || r.Members[0].Strict || !r.Members[1].Strict {
		t.Errorf("unexpected members %+v", r.Members)
	}
	if !r.Fields[0].Required {
		t.Error("member requiredness should carry over")
	}
}

func TestSharedDefinitionIsMemoized(t *testing.T) {
	m := mustSynthesize(t, `{
		"definitions": {"Cursor": {"type": "object", "properties": {"next": {"type": "string"}}}},
		"properties": {"a": {"$ref": "#/definitions/Cursor"}, "b": {"$ref": "#/definitions/Cursor"}}
	}`)
	root := findDecl(m, "Root").(*model.Record)
	if root.Fields[0].Type.Decl != root.Fields[1].Type.Decl {
		t.Error("references to the same definition should share one declaration")
	}
	count := 0
	for _, d := range m.Decls {
		if model.BaseOf(d).Seed[0] == "Cursor" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one Cursor declaration, got %d", count)
	}
}

func TestMapsAndCatchAll(t *testing.T) {
	m := mustSynthesize(t, `{"properties": {
		"labels": {"type": "object", "additionalProperties": {"type": "string"}},
		"free": {"type": "object"},
		"ext": {"type": "object", "properties": {"id": {"type": "string"}}, "additionalProperties": {"type": "integer"}},
		"open": {"type": "object", "properties": {"id": {"type": "string"}}, "additionalProperties": true}
	}}`)
	root := findDecl(m, "Root").(*model.Record)
	labels := root.Fields[0].Type
	if labels.Kind != model.KindMap || labels.Elem.Primitive != model.String {
		t.Errorf("labels = %+v, expected map of string", labels)
	}
	free := root.Fields[1].Type
	if free.Kind != model.KindMap || free.Elem.Primitive != model.Any {
		t.Errorf("free = %+v, expected map of any", free)
	}
	ext := findDecl(m, "Root", "ext").(*model.Record)
	if ext.CatchAll == nil || ext.CatchAll.Primitive != model.Integer {
		t.Errorf("ext catch-all = %+v", ext.CatchAll)
	}
	open := findDecl(m, "Root", "open").(*model.Record)
	if open.CatchAll == nil || open.CatchAll.Primitive != model.Any {
		t.Errorf("open catch-all = %+v", open.CatchAll)
	}
}

func TestIndirectBackEdge(t *testing.T) {
	m := mustSynthesize(t, `{"definitions": {
		"A": {"type": "object", "properties": {"b": {"$ref": "#/definitions/B"}}, "required": ["b"]},
		"B": {"type": "object", "properties": {"a": {"$ref": "#/definitions/A"}, "opt": {"$ref": "#/definitions/A"}}, "required": ["a"]}
	}}`)
	a := findDecl(m, "A").(*model.Record)
	b := findDecl(m, "B").(*model.Record)
	if a.Fields[0].Indirect {
		t.Error("A.b is a forward edge and must stay by value")
	}
	if !b.Fields[0].Indirect {
		t.Error("B.a closes the cycle and must be indirect")
	}
	if b.Fields[1].Indirect {
		t.Error("optional fields never need extra indirection")
	}
}

func TestSelfReferenceThroughOptionalField(t *testing.T) {
	m := mustSynthesize(t, `{"definitions": {"Node": {"type": "object", "properties": {"next": {"$ref": "#/definitions/Node"}}}}}`)
	node := findDecl(m, "Node").(*model.Record)
	if node.Fields[0].Type.Decl != model.Decl(node) {
		t.Error("self reference should point back at the record")
	}
}

func TestDefinitionAliases(t *testing.T) {
	m := mustSynthesize(t, `{"definitions": {
		"Id": {"type": "string"},
		"Ids": {"type": "array", "items": {"$ref": "#/definitions/Id"}},
		"Other": {"$ref": "#/definitions/Id"}
	}}`)
	for _, name := range []string{"Id", "Ids", "Other"} {
		if _, ok := findDecl(m, name).(*model.Alias); !ok {
			t.Errorf("%s should be an alias, got %T", name, findDecl(m, name))
		}
	}
	other := findDecl(m, "Other").(*model.Alias)
	if other.Target.Decl != findDecl(m, "Id") {
		t.Error("Other should alias Id")
	}
	if root := findDecl(m, "Root"); root != nil {
		t.Errorf("definitions-only document should not emit a root, got %T", root)
	}
}

func TestSynthesisErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want error
	}{
		{"field collision", `{"allOf": [{"properties": {"id": {}}}, {"properties": {"id": {}}}]}`, Options{}, &diag.FieldCollisionError{}},
		{"arity overflow", `{"oneOf": [{"type": "string"}, {"type": "number"}, {"type": "null"}]}`, Options{MaxArity: 2}, &diag.ArityOverflowError{}},
		{"allOf of non-objects", `{"allOf": [{"type": "string"}, {"properties": {"a": {}}}]}`, Options{}, &diag.MalformedError{}},
		{"array alias cycle", `{"definitions": {"A": {"type": "array", "items": {"$ref": "#/definitions/A"}}}}`, Options{}, &diag.CyclicAliasError{}},
		{"map alias cycle", `{"definitions": {"A": {"type": "object", "additionalProperties": {"$ref": "#/definitions/A"}}}}`, Options{}, &diag.CyclicAliasError{}},
		{"union lists itself", `{"definitions": {"U": {"oneOf": [{"$ref": "#/definitions/U"}, {"type": "string"}]}}}`, Options{}, &diag.CyclicAliasError{}},
		{"anyOf lists itself", `{"definitions": {"U": {"anyOf": [{"type": "string"}, {"$ref": "#/definitions/U"}]}}}`, Options{}, &diag.CyclicAliasError{}},
		{"unions list each other", `{"definitions": {
			"A": {"oneOf": [{"$ref": "#/definitions/B"}, {"type": "string"}]},
			"B": {"oneOf": [{"$ref": "#/definitions/A"}, {"type": "number"}]}
		}}`, Options{}, &diag.CyclicAliasError{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := synthesize(t, test.src, test.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			switch test.want.(type) {
			case *diag.FieldCollisionError:
				var target *diag.FieldCollisionError
				if !errors.As(err, &target) || target.Field != "id" {
					t.Errorf("error = %v, expected FieldCollisionError(id)", err)
				}
			case *diag.ArityOverflowError:
				var target *diag.ArityOverflowError
				if !errors.As(err, &target) || target.Arity != 3 || target.Max != 2 {
					t.Errorf("error = %v, expected ArityOverflowError", err)
				}
			case *diag.MalformedError:
				var target *diag.MalformedError
				if !errors.As(err, &target) || target.Location != "#/allOf/0" {
					t.Errorf("error = %v, expected MalformedError at #/allOf/0", err)
				}
			case *diag.CyclicAliasError:
				var target *diag.CyclicAliasError
				if !errors.As(err, &target) {
					t.Errorf("error = %v, expected CyclicAliasError", err)
				}
			}
		})
	}
}

func TestRecursionThroughUnionIsLegal(t *testing.T) {
	_, err := synthesize(t, `{"definitions": {"Expr": {"oneOf": [
		{"type": "string"},
		{"type": "array", "items": {"$ref": "#/definitions/Expr"}}
	]}}}`, Options{})
	if err != nil {
		t.Errorf("Synthesize: %v", err)
	}
}

func TestRecursionThroughUnionRecordVariant(t *testing.T) {
	_, err := synthesize(t, `{"definitions": {"Tree": {"oneOf": [
		{"type": "string"},
		{"type": "object", "properties": {"left": {"$ref": "#/definitions/Tree"}}, "required": ["left"]}
	]}}}`, Options{})
	if err != nil {
		t.Errorf("Synthesize: %v", err)
	}
}
