// Package mapper resolves schema validation failures back to positions in
// the configuration source. Validation runs against the parsed document,
// so its errors carry instance paths rather than line numbers; this
// package walks the YAML AST to recover them.
package mapper

import (
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// Span is a 1-based source position.
type Span struct {
	Line   int
	Column int
}

var topOfFile = Span{Line: 1, Column: 1}

// Locate returns the source position of the node at path, where path
// holds decoded JSON pointer tokens. When the exact node does not exist
// the position of its deepest existing ancestor is returned, and the top
// of the file when nothing matches.
func Locate(source []byte, path []string) Span {
	root := parseBody(source)
	if root == nil {
		return topOfFile
	}
	return nodeSpan(deepest(root, path))
}

// LocateKey returns the position of the key naming property inside the
// mapping at path. Used for errors that point at a property rather than
// its value, like unknown keys. Falls back to the mapping itself when the
// key is absent.
func LocateKey(source []byte, path []string, property string) Span {
	root := parseBody(source)
	if root == nil {
		return topOfFile
	}
	node := deepest(root, path)
	if key := findKey(node, property); key != nil {
		return nodeSpan(key)
	}
	return nodeSpan(node)
}

// ContextWindow returns up to radius source lines on each side of line,
// along with the line number of the first returned line.
func ContextWindow(source []byte, line, radius int) ([]string, int) {
	lines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")

	start := line - radius
	if start < 1 {
		start = 1
	}
	end := line + radius
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil, 1
	}
	return lines[start-1 : end], start
}

func parseBody(source []byte) ast.Node {
	file, err := parser.ParseBytes(source, 0)
	if err != nil || len(file.Docs) == 0 {
		return nil
	}
	return file.Docs[0].Body
}

func deepest(root ast.Node, path []string) ast.Node {
	current := root
	for _, segment := range path {
		next := childNode(current, segment)
		if next == nil {
			return current
		}
		current = next
	}
	return current
}

// childNode resolves one path segment. A block mapping with a single pair
// parses as a MappingValueNode rather than a MappingNode, so both shapes
// are handled.
func childNode(node ast.Node, segment string) ast.Node {
	switch n := node.(type) {
	case *ast.MappingNode:
		for _, entry := range n.Values {
			if keyValue(entry.Key) == segment {
				return entry.Value
			}
		}
	case *ast.MappingValueNode:
		if keyValue(n.Key) == segment {
			return n.Value
		}
	case *ast.SequenceNode:
		index, err := strconv.Atoi(segment)
		if err == nil && index >= 0 && index < len(n.Values) {
			return n.Values[index]
		}
	}
	return nil
}

func findKey(node ast.Node, property string) ast.Node {
	switch n := node.(type) {
	case *ast.MappingNode:
		for _, entry := range n.Values {
			if keyValue(entry.Key) == property {
				return entry.Key
			}
		}
	case *ast.MappingValueNode:
		if keyValue(n.Key) == property {
			return n.Key
		}
	}
	return nil
}

func keyValue(key ast.MapKeyNode) string {
	if key == nil {
		return ""
	}
	if tok := key.GetToken(); tok != nil {
		return tok.Value
	}
	return ""
}

func nodeSpan(node ast.Node) Span {
	if node == nil {
		return topOfFile
	}
	if tok := node.GetToken(); tok != nil && tok.Position != nil {
		return Span{Line: tok.Position.Line, Column: tok.Position.Column}
	}
	return topOfFile
}
