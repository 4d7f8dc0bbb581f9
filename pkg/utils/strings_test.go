package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRemoveAccents(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"hello", "hello"},
		{"cobrança", "cobranca"},
		{"negociação", "negociacao"},
		{"café", "cafe"},
		{"José", "Jose"},
		{"São Paulo", "Sao Paulo"},
		{"naïve", "naive"},
		{"piñata", "pinata"},
	}

	for _, test := range tests {
		result := RemoveAccents(test.input)
		if result != test.expected {
			t.Errorf("RemoveAccents(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"hello", "Hello"},
		{"helloWorld", "HelloWorld"},
		{"getUserById", "GetUserById"},
		{"XMLHttpRequest", "XmlHttpRequest"},
		{"hello-world", "HelloWorld"},
		{"hello_world", "HelloWorld"},
		{"hello world", "HelloWorld"},
		{"HELLO_WORLD", "HelloWorld"},
		{"a1", "A1"},
		{"ID2Name", "Id2Name"},
		{"$ref", "Ref"},
		{"@type", "Type"},
		{"x-rate-limit", "XRateLimit"},
		{"2fa", "2fa"},
		{"Person.address", "PersonAddress"},
		{"ünïcode", "Unicode"},
		{"配置", ""},
		{"negociação", "Negociacao"},
	}

	for _, test := range tests {
		result := ToPascalCase(test.input)
		if result != test.expected {
			t.Errorf("ToPascalCase(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"first_name", []string{"first", "name"}},
		{"firstName", []string{"first", "Name"}},
		{"#/definitions/Pet", []string{"definitions", "Pet"}},
		{"HTTPStatus", []string{"HTTP", "Status"}},
	}

	for _, test := range tests {
		if diff := cmp.Diff(test.expected, Words(test.input)); diff != "" {
			t.Errorf("Words(%q) mismatch (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"hello", []string{"hello"}},
		{"helloWorld", []string{"hello", "World"}},
		{"getUserById", []string{"get", "User", "By", "Id"}},
		{"listUserResources", []string{"list", "User", "Resources"}},
		{"XMLHttpRequest", []string{"XML", "Http", "Request"}},
		{"ID2Name", []string{"ID2", "Name"}},
	}

	for _, test := range tests {
		if diff := cmp.Diff(test.expected, SplitCamelCase(test.input)); diff != "" {
			t.Errorf("SplitCamelCase(%q) mismatch (-want +got):\n%s", test.input, diff)
		}
	}
}
