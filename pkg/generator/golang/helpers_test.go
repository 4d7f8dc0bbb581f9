package golang

import (
	"testing"

	"github.com/goccy/go-json"

	"github.com/blimu-dev/schema-gen/pkg/model"
)

func TestFormatGoComment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Simple comment", "// Simple comment"},
		{"Line 1\nLine 2", "// Line 1\n// Line 2"},
		{"Line 1\n\nLine 3", "// Line 1\n//\n// Line 3"},
		{"Especifica quantos dias antes do vencimento a notificação deve se enviada.\n Para o evento  `PAYMENT_DUEDATE_WARNING` os valores aceitos são: `0`, `5`, `10`, `15` e `30`\n Para o evento `PAYMENT_OVERDUE` os valores aceitos são: `1`, `7`, `15` e `30`", "// Especifica quantos dias antes do vencimento a notificação deve se enviada.\n// Para o evento  `PAYMENT_DUEDATE_WARNING` os valores aceitos são: `0`, `5`, `10`, `15` e `30`\n// Para o evento `PAYMENT_OVERDUE` os valores aceitos são: `1`, `7`, `15` e `30`"},
	}

	for _, test := range tests {
		result := formatGoComment(test.input)
		if result != test.expected {
			t.Errorf("formatGoComment(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestSanitizePackageName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"models", "models"},
		{"github.com/acme/pet-store", "petstore"},
		{"3d", "pkg3d"},
		{"", "models"},
		{"Type", "type_"},
	}

	for _, test := range tests {
		result := sanitizePackageName(test.input)
		if result != test.expected {
			t.Errorf("sanitizePackageName(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestGoType(t *testing.T) {
	pet := &model.Record{Base: model.Base{Name: "Pet"}}
	tests := []struct {
		input    *model.Type
		expected string
	}{
		{model.PrimitiveType(model.Any), "any"},
		{model.PrimitiveType(model.Null), "wire.Null"},
		{model.PrimitiveType(model.Integer), "int64"},
		{model.ArrayOf(model.Named(pet)), "[]Pet"},
		{model.MapOf(model.ArrayOf(model.PrimitiveType(model.String))), "wire.Map[[]string]"},
	}

	for _, test := range tests {
		if result := goType(test.input); result != test.expected {
			t.Errorf("goType() = %q, expected %q", result, test.expected)
		}
	}
}

func TestStructTag(t *testing.T) {
	tests := []struct {
		key      string
		required bool
		expected string
	}{
		{"a1", true, "`json:\"a1\"`"},
		{"a2", false, "`json:\"a2,omitempty\"`"},
		{"with space", true, ""},
		{"quo\"te", true, ""},
		{"", true, ""},
	}

	for _, test := range tests {
		if result := structTag(test.key, test.required); result != test.expected {
			t.Errorf("structTag(%q) = %q, expected %q", test.key, result, test.expected)
		}
	}
}

func TestDefaultExpr(t *testing.T) {
	color := &model.Enum{Base: model.Base{Name: "Color"}, Cases: []*model.EnumCase{{Name: "ColorRed", Value: "red"}}}
	label := &model.Alias{Base: model.Base{Name: "Label"}, Target: model.PrimitiveType(model.String)}
	tests := []struct {
		name     string
		typ      *model.Type
		def      any
		expected string
		ok       bool
	}{
		{"string", model.PrimitiveType(model.String), "x", `wire.Ptr("x")`, true},
		{"integer", model.PrimitiveType(model.Integer), json.Number("5"), "wire.Ptr[int64](5)", true},
		{"fractional integer", model.PrimitiveType(model.Integer), json.Number("5.5"), "", false},
		{"number", model.PrimitiveType(model.Number), json.Number("2.5"), "wire.Ptr[float64](2.5)", true},
		{"bool", model.PrimitiveType(model.Bool), true, "wire.Ptr(true)", true},
		{"enum", model.Named(color), "red", "wire.Ptr(ColorRed)", true},
		{"enum miss", model.Named(color), "blue", "", false},
		{"alias", model.Named(label), "y", `wire.Ptr("y")`, true},
		{"array", model.ArrayOf(model.PrimitiveType(model.String)), []any{}, "", false},
		{"wrong kind", model.PrimitiveType(model.String), true, "", false},
	}

	for _, test := range tests {
		f := &model.Field{Type: test.typ, Default: test.def, HasDefault: true}
		result, ok := defaultExpr(f)
		if result != test.expected || ok != test.ok {
			t.Errorf("%s: defaultExpr = %q, %v, expected %q, %v", test.name, result, ok, test.expected, test.ok)
		}
	}
}

func TestParamNames(t *testing.T) {
	got := paramNames([]string{"For", "Name", "Name_", "Data"})
	want := []string{"for_", "name", "name2", "data_"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paramNames()[%d] = %q, expected %q", i, got[i], want[i])
		}
	}
}

func TestArticle(t *testing.T) {
	tests := map[string]string{"Extended": "an", "Inventory": "an", "Pair": "a", "": "a"}
	for name, expected := range tests {
		if result := article(name); result != expected {
			t.Errorf("article(%q) = %q, expected %q", name, result, expected)
		}
	}
}
