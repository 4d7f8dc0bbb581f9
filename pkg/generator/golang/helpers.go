package golang

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/blimu-dev/schema-gen/pkg/model"
	"github.com/blimu-dev/schema-gen/pkg/naming"
)

// goType renders a type expression.
func goType(t *model.Type) string {
	switch t.Kind {
	case model.KindArray:
		return "[]" + goType(t.Elem)
	case model.KindMap:
		return "wire.Map[" + goType(t.Elem) + "]"
	case model.KindNamed:
		return model.BaseOf(t.Decl).Name
	}
	switch t.Primitive {
	case model.Null:
		return "wire.Null"
	case model.Bool:
		return "bool"
	case model.Integer:
		return "int64"
	case model.Number:
		return "float64"
	case model.String:
		return "string"
	}
	return "any"
}

// fieldType renders the Go type of a record field: optional and indirect
// fields are pointers.
func fieldType(f *model.Field) string {
	if !f.Required || f.Indirect {
		return "*" + goType(f.Type)
	}
	return goType(f.Type)
}

// formatGoComment formats a string as a proper Go comment, handling multiline descriptions
func formatGoComment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			result = append(result, "//")
		} else {
			result = append(result, "// "+line)
		}
	}
	return strings.Join(result, "\n")
}

// docComment joins title and description into one comment.
func docComment(d model.Doc) string {
	switch {
	case d.Title != "" && d.Description != "":
		return formatGoComment(d.Title + "\n\n" + d.Description)
	case d.Title != "":
		return formatGoComment(d.Title)
	}
	return formatGoComment(d.Description)
}

// structTag returns the informational json tag for key, or "" when key
// cannot be written inside a struct tag.
func structTag(key string, required bool) string {
	if key == "" || !utf8.ValidString(key) || strings.ContainsAny(key, "`\"\\,:") {
		return ""
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ""
		}
	}
	if required {
		return "`json:\"" + key + "\"`"
	}
	return "`json:\"" + key + ",omitempty\"`"
}

// defaultExpr renders the schema default of an optional field as a pointer
// expression. It reports false when the default has no Go literal of the
// field's type.
func defaultExpr(f *model.Field) (string, bool) {
	if !f.HasDefault || f.Default == nil {
		return "", false
	}
	t := f.Type
	for t.Kind == model.KindNamed {
		alias, ok := t.Decl.(*model.Alias)
		if !ok {
			break
		}
		t = alias.Target
	}
	if t.Kind == model.KindNamed {
		e, ok := t.Decl.(*model.Enum)
		s, isString := f.Default.(string)
		if !ok || !isString {
			return "", false
		}
		for _, c := range e.Cases {
			if c.Value == s {
				return "wire.Ptr(" + c.Name + ")", true
			}
		}
		return "", false
	}
	if t.Kind != model.KindPrimitive {
		return "", false
	}
	switch t.Primitive {
	case model.String:
		if s, ok := f.Default.(string); ok {
			return "wire.Ptr(" + strconv.Quote(s) + ")", true
		}
	case model.Bool:
		if b, ok := f.Default.(bool); ok {
			return "wire.Ptr(" + strconv.FormatBool(b) + ")", true
		}
	case model.Integer:
		if n, ok := f.Default.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return "wire.Ptr[int64](" + strconv.FormatInt(i, 10) + ")", true
			}
		}
	case model.Number:
		if n, ok := f.Default.(json.Number); ok {
			if _, err := n.Float64(); err == nil {
				return "wire.Ptr[float64](" + n.String() + ")", true
			}
		}
	}
	return "", false
}

// article returns "an" before identifiers that start with a vowel, else "a".
func article(name string) string {
	if name != "" && strings.ContainsRune("AEIOU", rune(name[0])) {
		return "an"
	}
	return "a"
}

// lowerFirst lowercases the first rune of an exported identifier.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// paramNames derives unique constructor parameter names from field names.
func paramNames(fields []string) []string {
	used := map[string]bool{}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		base := naming.ParamName(f)
		name := base
		for i := 2; used[name]; i++ {
			name = base + strconv.Itoa(i)
		}
		used[name] = true
		out = append(out, name)
	}
	return out
}

var invalidPackageChars = regexp.MustCompile(`[^a-z0-9_]`)

// sanitizePackageName ensures the package name is valid for Go
func sanitizePackageName(name string) string {
	// Extract the last part of the package name if it looks like a module path
	parts := strings.Split(name, "/")
	name = parts[len(parts)-1]

	name = strings.ToLower(name)
	name = invalidPackageChars.ReplaceAllString(name, "")

	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	if name == "" {
		name = "models"
	}
	if naming.IsReserved(name) {
		name += "_"
	}
	return name
}
