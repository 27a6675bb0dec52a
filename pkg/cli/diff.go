package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	diffRemoved = color.New(color.FgRed)
	diffAdded   = color.New(color.FgGreen)
)

// printDiff writes a line diff from the committed document to the
// expected one. Unchanged lines print dimmed context, removals red,
// additions green.
func printDiff(actual, expected string) {
	for _, line := range diffLines(actual, expected) {
		switch {
		case strings.HasPrefix(line, "-"):
			diffRemoved.Println(line)
		case strings.HasPrefix(line, "+"):
			diffAdded.Println(line)
		default:
			fmt.Println(line)
		}
	}
}

// diffLines computes a minimal line diff using the classic LCS table.
// The documents involved are small generated files, so the quadratic
// table is fine.
func diffLines(actual, expected string) []string {
	a := strings.Split(strings.TrimRight(actual, "\n"), "\n")
	b := strings.Split(strings.TrimRight(expected, "\n"), "\n")

	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, "  "+a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			out = append(out, "- "+a[i])
			i++
		default:
			out = append(out, "+ "+b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, "- "+a[i])
	}
	for ; j < len(b); j++ {
		out = append(out, "+ "+b[j])
	}
	return out
}
