package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrorPosition locates a diagnostic in a source file. Line and Column
// are 1-based; zero values mean unknown.
type ErrorPosition struct {
	File   string
	Line   int
	Column int
}

// CompilerError is a structured diagnostic produced while loading project
// configuration or rendering workflows. Context carries source lines shown
// under the message; ContextStart is the line number of Context[0].
type CompilerError struct {
	Position     ErrorPosition
	Type         string // "error", "warning", "info"
	Message      string
	Context      []string
	ContextStart int
	Hint         string
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	locationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	sourceLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))
)

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle renders text with style only when writing to a terminal, so
// piped output stays free of escape sequences.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to one relative to the current
// working directory. Paths that cannot be relativized pass through as is.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	relPath, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return relPath
}

// FormatError renders a CompilerError in the IDE-parseable
// file:line:column: type: message form, followed by source context and an
// optional hint.
func FormatError(err CompilerError) string {
	var output strings.Builder

	var typeStyle lipgloss.Style
	var prefix string
	switch err.Type {
	case "warning":
		typeStyle = warningStyle
		prefix = "warning"
	case "info":
		typeStyle = infoStyle
		prefix = "info"
	default:
		typeStyle = errorStyle
		prefix = "error"
	}

	if err.Position.File != "" {
		location := fmt.Sprintf("%s:%d:%d:",
			ToRelativePath(err.Position.File),
			err.Position.Line,
			err.Position.Column)
		output.WriteString(applyStyle(locationStyle, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	output.WriteString(err.Message)
	output.WriteString("\n")

	if len(err.Context) > 0 && err.Position.Line > 0 {
		output.WriteString(renderContext(err))
	}

	if err.Hint != "" {
		output.WriteString("\n")
		output.WriteString(applyStyle(hintStyle, "hint: "))
		output.WriteString(err.Hint)
		output.WriteString("\n")
	}

	return output.String()
}

// renderContext prints the context window with line numbers, highlighting
// the offending line and pointing at the column when known.
func renderContext(err CompilerError) string {
	start := err.ContextStart
	if start <= 0 {
		start = err.Position.Line - len(err.Context)/2
	}

	var output strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", start+len(err.Context)-1))

	for i, line := range err.Context {
		lineNum := start + i
		if lineNum < 1 {
			continue
		}

		output.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		output.WriteString(" | ")

		if lineNum == err.Position.Line {
			col := err.Position.Column
			if col > 0 && col <= len(line) {
				output.WriteString(applyStyle(sourceLineStyle, line[:col-1]))
				output.WriteString(applyStyle(highlightStyle, string(line[col-1])))
				if col < len(line) {
					output.WriteString(applyStyle(sourceLineStyle, line[col:]))
				}
			} else {
				output.WriteString(applyStyle(highlightStyle, line))
			}
		} else {
			output.WriteString(applyStyle(sourceLineStyle, line))
		}
		output.WriteString("\n")

		if lineNum == err.Position.Line && err.Position.Column > 0 {
			output.WriteString(strings.Repeat(" ", lineNumWidth+3+err.Position.Column-1))
			output.WriteString(applyStyle(errorStyle, "^"))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// FormatSuccessMessage formats a success message.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a plain error message for stderr output.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}
