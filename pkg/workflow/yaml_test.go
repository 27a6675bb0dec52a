package workflow

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestIsSafeScalar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain word", "hello", true},
		{"empty string", "", true},
		{"interior space", "hello world", true},
		{"interior dash", "ubuntu-latest", true},
		{"interior bang", "a!b", true},
		{"colon anywhere", "a:b", false},
		{"leading colon", ":x", false},
		{"trailing colon", "x:", false},
		{"hash anywhere", "a#b", false},
		{"leading hash", "#comment", false},
		{"leading bang", "!tag", false},
		{"leading star", "*ref", false},
		{"leading dash", "-flag", false},
		{"leading question", "?key", false},
		{"leading brace", "{a", false},
		{"leading close brace", "}a", false},
		{"leading bracket", "[a", false},
		{"leading close bracket", "]a", false},
		{"leading comma", ",a", false},
		{"leading pipe", "|block", false},
		{"leading gt", ">fold", false},
		{"leading at", "@user", false},
		{"leading backtick", "`cmd`", false},
		{"leading double quote", `"x"`, false},
		{"leading single quote", "'x'", false},
		{"leading ampersand", "&anchor", false},
		{"multibyte first rune", "über", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSafeScalar(tt.input); got != tt.want {
				t.Errorf("isSafeScalar(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrapScalar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"safe stays bare", "hello", "hello"},
		{"empty stays bare", "", ""},
		{"spaces stay bare", "echo hi", "echo hi"},
		{"colon quoted", "Build: Test", "'Build: Test'"},
		{"hash quoted", "a#b", "'a#b'"},
		{"leading dash quoted", "-v", "'-v'"},
		{"wildcard quoted", "*", "'*'"},
		{"embedded quotes doubled", "it's done", "'it''s done'"},
		{"only quotes", "''", "''''''"},
		{"multiline block literal", "line one\nline two", "|\n  line one\n  line two"},
		{"multiline beats quoting", "a: b\nc", "|\n  a: b\n  c"},
		{"blank interior line", "a\n\nb", "|\n  a\n\n  b"},
		{"whitespace only line collapses", "a\n   \nb", "|\n  a\n\n  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapScalar(tt.input); got != tt.want {
				t.Errorf("wrapScalar(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestWrapScalarRoundTrip feeds wrapped scalars back through a YAML
// parser. Block literals use clip chomping, so values that do not end
// in a newline gain exactly one.
func TestWrapScalarRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		parsed string
	}{
		{"bare", "hello", "hello"},
		{"quoted", "Build: Test", "Build: Test"},
		{"doubled quotes", "it's done", "it's done"},
		{"multiline", "line one\nline two", "line one\nline two\n"},
		{"multiline trailing newline", "line one\n", "line one\n"},
		{"blank interior line", "a\n\nb", "a\n\nb\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "value: " + wrapScalar(tt.input) + "\n"
			var out map[string]string
			if err := yaml.Unmarshal([]byte(doc), &out); err != nil {
				t.Fatalf("unmarshal %q: %v", doc, err)
			}
			if out["value"] != tt.parsed {
				t.Errorf("round trip of %q = %q, want %q", tt.input, out["value"], tt.parsed)
			}
		})
	}
}

func TestIndentLines(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		levels int
		want   string
	}{
		{"single line", "foo", 1, "  foo"},
		{"two levels", "foo", 2, "    foo"},
		{"multiple lines", "a\nb", 1, "  a\n  b"},
		{"blank line preserved", "a\n\nb", 1, "  a\n\n  b"},
		{"whitespace only line collapses", "a\n   \nb", 1, "  a\n\n  b"},
		{"empty input", "", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := indentLines(tt.input, tt.levels); got != tt.want {
				t.Errorf("indentLines(%q, %d) = %q, want %q", tt.input, tt.levels, got, tt.want)
			}
		})
	}
}

// Indented output must never carry trailing whitespace and every
// non-empty line must start with the exact prefix.
func TestIndentLinesPrefixInvariant(t *testing.T) {
	input := "first\n  second\n\n\t\nlast"
	got := indentLines(input, 2)
	for _, line := range strings.Split(got, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "    ") {
			t.Errorf("line %q missing four space prefix", line)
		}
		if strings.TrimSpace(line) == "" {
			t.Errorf("line %q is whitespace only, should have collapsed", line)
		}
	}
}

func TestRenderList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"plain items", []string{"a", "b"}, "- a\n- b"},
		{"quoted item", []string{"Build: Test"}, "- 'Build: Test'"},
		{"wildcard branch", []string{"*"}, "- '*'"},
		{"multiline item", []string{"a\nb"}, "- |\n  a\n  b"},
		{"empty list", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderList(tt.items); got != tt.want {
				t.Errorf("renderList(%v) = %q, want %q", tt.items, got, tt.want)
			}
		})
	}
}

func TestRenderMapping(t *testing.T) {
	tests := []struct {
		name   string
		header string
		values map[string]string
		want   string
	}{
		{"empty map omits header", "env", nil, ""},
		{"single entry", "env", map[string]string{"FOO": "bar"}, "env:\n  FOO: bar"},
		{"keys sorted", "env", map[string]string{"B": "2", "A": "1", "C": "3"}, "env:\n  A: 1\n  B: 2\n  C: 3"},
		{"value quoted", "env", map[string]string{"MSG": "a: b"}, "env:\n  MSG: 'a: b'"},
		{"multiline value", "env", map[string]string{"SCRIPT": "a\nb"}, "env:\n  SCRIPT: |\n    a\n    b"},
		{"with header", "with", map[string]string{"fetch-depth": "0"}, "with:\n  fetch-depth: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderMapping(tt.header, tt.values)
			if err != nil {
				t.Fatalf("renderMapping returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("renderMapping(%q, %v) = %q, want %q", tt.header, tt.values, got, tt.want)
			}
		})
	}
}

func TestRenderMappingKeyErrors(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		key     string
		wantErr string
	}{
		{"empty key", "env", "", "env key must not be empty"},
		{"space in key", "env", "FOO BAR", "env key 'FOO BAR' contains whitespace"},
		{"tab in key", "env", "FOO\tBAR", "env key 'FOO\tBAR' contains whitespace"},
		{"newline in key", "env", "FOO\nBAR", "env key 'FOO\nBAR' contains whitespace"},
		{"colon in key", "env", "FOO:BAR", "env key 'FOO:BAR' contains YAML special characters"},
		{"hash in key", "env", "FOO#BAR", "env key 'FOO#BAR' contains YAML special characters"},
		{"leading dash key", "with", "-flag", "with key '-flag' contains YAML special characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderMapping(tt.header, map[string]string{tt.key: "value"})
			if err == nil {
				t.Fatalf("renderMapping accepted key %q", tt.key)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRenderMappingDeterministic(t *testing.T) {
	values := map[string]string{
		"GITHUB_TOKEN": "${{ secrets.GITHUB_TOKEN }}",
		"JAVA_OPTS":    "-Xmx4g",
		"CI":           "true",
		"LANG":         "C.UTF-8",
	}

	first, err := renderMapping("env", values)
	if err != nil {
		t.Fatalf("renderMapping returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := renderMapping("env", values)
		if err != nil {
			t.Fatalf("renderMapping returned error: %v", err)
		}
		if next != first {
			t.Fatalf("renderMapping is not deterministic:\n%s\nvs\n%s", first, next)
		}
	}
}
