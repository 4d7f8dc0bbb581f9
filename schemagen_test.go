package schemagen

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/blimu-dev/schema-gen/pkg/diag"
)

func TestValidateSchemaMissingFile(t *testing.T) {
	if _, err := os.Stat("/no/such/file.json"); err == nil {
		t.Fatal("expected no file")
	}
	if err := ValidateSchema("/no/such/file.json"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCompile(t *testing.T) {
	schema := []byte(`{
		"title": "Person",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name"]
	}`)
	src, err := Compile(context.Background(), "person.json", schema, CompileOptions{Package: "people", RootName: "Person"})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"// Code generated by schema-gen. DO NOT EDIT.",
		"package people",
		"type Person struct",
		"Name string",
		"Age  *int64",
	} {
		if !strings.Contains(string(src), want) {
			t.Errorf("Compile() output lacks %q:\n%s", want, src)
		}
	}
}

func TestCompileYAML(t *testing.T) {
	schema := []byte("type: string\nenum: [red, green]\n")
	src, err := Compile(context.Background(), "color.yaml", schema, CompileOptions{RootName: "Color"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), "type Color string") || !strings.Contains(string(src), "package models") {
		t.Errorf("unexpected output:\n%s", src)
	}
}

func TestCompileReportsUnresolvedReference(t *testing.T) {
	_, err := Compile(context.Background(), "bad.json", []byte(`{"$ref": "#/definitions/Gone"}`), CompileOptions{})
	var unresolved *diag.UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Errorf("Compile() error = %v, expected UnresolvedReferenceError", err)
	}
}
