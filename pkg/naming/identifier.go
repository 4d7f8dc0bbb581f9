package naming

import (
	"strings"
	"unicode"

	"github.com/blimu-dev/schema-gen/pkg/utils"
)

// goKeywords are the reserved words of the target language.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// shadowed are identifiers generated code refers to by name; parameters must
// not hide them.
var shadowed = map[string]bool{
	"wire": true, "json": true, "v": true, "data": true, "obj": true, "err": true,
	"nil": true, "true": true, "false": true, "string": true, "bool": true,
	"int64": true, "float64": true, "any": true, "error": true, "len": true,
	"append": true, "new": true, "make": true,
}

// memberNames are the methods emitted on records and unions.
var memberNames = map[string]bool{
	"MarshalJSON": true, "UnmarshalJSON": true, "WireKeys": true,
}

// Pascal converts a schema name into PascalCase.
func Pascal(s string) string {
	return utils.ToPascalCase(s)
}

// TypeIdentifier makes name usable as an exported type name.
func TypeIdentifier(name string) string {
	if name == "" {
		return "Type"
	}
	if startsWithDigit(name) {
		return "T" + name
	}
	return name
}

// FieldIdentifier derives the exported field name of a wire key. The wire
// key itself is never changed.
func FieldIdentifier(key string) string {
	name := Pascal(key)
	switch {
	case name == "":
		name = "Field"
	case startsWithDigit(name):
		name = "F" + name
	}
	return escapeMember(name)
}

// ParamName derives a constructor parameter from a field name.
func ParamName(field string) string {
	name := strings.TrimSuffix(field, "_")
	if name == "" {
		return "value_"
	}
	runes := []rune(name)
	// Lower the leading run of capitals: "ID" -> "id", "URLPath" -> "urlPath".
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	switch {
	case i == len(runes):
		name = strings.ToLower(name)
	case i > 1:
		name = strings.ToLower(string(runes[:i-1])) + string(runes[i-1:])
	default:
		name = strings.ToLower(string(runes[:1])) + string(runes[1:])
	}
	return EscapeReserved(name)
}

// EscapeReserved appends an underscore to keywords and to identifiers the
// generated code depends on.
func EscapeReserved(name string) string {
	if goKeywords[name] || shadowed[name] {
		return name + "_"
	}
	return name
}

// IsReserved reports whether name is a reserved word of the target language.
func IsReserved(name string) bool {
	return goKeywords[name]
}

func escapeMember(name string) string {
	if memberNames[name] {
		return name + "_"
	}
	return name
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
