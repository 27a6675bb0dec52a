package workflow

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// unsafeLead lists characters that start a YAML construct (tag, anchor,
// flow collection, block scalar, comment alias and friends) when they
// appear first in a plain scalar.
const unsafeLead = "!*-?{}[],|>@`\"'&"

// isSafeScalar reports whether s can be emitted as a bare YAML scalar
// without changing its meaning. The check is conservative: ':' and '#'
// are rejected anywhere in the string, the unsafeLead characters only in
// leading position. Safe strings round-trip byte for byte.
func isSafeScalar(s string) bool {
	if strings.ContainsAny(s, ":#") {
		return false
	}
	if s == "" {
		return true
	}
	return strings.IndexByte(unsafeLead, s[0]) < 0
}

// wrapScalar renders s as a YAML scalar. Multiline strings become block
// literals, safe strings stay bare, everything else is single-quoted
// with embedded quotes doubled.
func wrapScalar(s string) string {
	switch {
	case strings.Contains(s, "\n"):
		return "|\n" + indentLines(s, 1)
	case isSafeScalar(s):
		return s
	default:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
}

// indentLines prefixes every line of s with two spaces per level.
// Lines that hold only whitespace collapse to empty lines so the output
// never carries trailing spaces.
func indentLines(s string, levels int) string {
	prefix := strings.Repeat("  ", levels)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// renderList renders items as a YAML block sequence at the current
// indentation level. Callers indent the result as needed.
func renderList(items []string) string {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, "- "+wrapScalar(item))
	}
	return strings.Join(rendered, "\n")
}

// renderMapping renders values as a YAML block mapping nested under
// header. Keys are emitted in lexicographic order so output is stable
// across runs. An empty map renders as the empty string, omitting the
// header entirely.
func renderMapping(header string, values map[string]string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := validateKey(header, key); err != nil {
			return "", err
		}
		entries = append(entries, key+": "+wrapScalar(values[key]))
	}
	return header + ":\n" + indentLines(strings.Join(entries, "\n"), 1), nil
}

// validateKey rejects mapping keys that would need quoting. Values are
// wrapped on emission but keys are always emitted bare, so unsafe keys
// fail compilation instead of producing ambiguous YAML.
func validateKey(header, key string) error {
	if key == "" {
		return fmt.Errorf("%s key must not be empty", header)
	}
	if strings.ContainsFunc(key, unicode.IsSpace) {
		return fmt.Errorf("%s key '%s' contains whitespace", header, key)
	}
	if !isSafeScalar(key) {
		return fmt.Errorf("%s key '%s' contains YAML special characters", header, key)
	}
	return nil
}
