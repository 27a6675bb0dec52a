package workflow

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeci/forgeci/pkg/console"
	"github.com/forgeci/forgeci/pkg/constants"
)

//go:embed templates/clean.yml
var cleanTemplate string

// Compiler turns workflow models into the managed documents under
// .github/workflows and verifies committed documents against the model.
// Rendering itself is pure; only Generate and Check touch the filesystem.
type Compiler struct {
	verbose        bool
	toolCommand    string // build tool invoked by matrix steps
	version        string // version of the CLI, for diagnostics
	skipValidation bool   // if true, skip schema validation of rendered documents
	customOutput   string // if set, documents are written here instead of <root>/.github/workflows
}

// NewCompiler creates a compiler. An empty toolCommand falls back to the
// default build tool.
func NewCompiler(verbose bool, toolCommand string, version string) *Compiler {
	if toolCommand == "" {
		toolCommand = constants.DefaultToolCommand
	}
	return &Compiler{
		verbose:        verbose,
		toolCommand:    toolCommand,
		version:        version,
		skipValidation: true, // schema validation is opt-in, rendering never depends on it
	}
}

// SetSkipValidation controls schema validation of rendered documents.
func (c *Compiler) SetSkipValidation(skip bool) {
	c.skipValidation = skip
}

// SetCustomOutput overrides the directory generated documents are
// written to and read from.
func (c *Compiler) SetCustomOutput(dir string) {
	c.customOutput = dir
}

// RenderWorkflow renders wf to its document text. The output depends only
// on the model and the configured tool command, so concurrent calls with
// separate models are safe.
func (c *Compiler) RenderWorkflow(wf *Workflow) (string, error) {
	content, err := renderWorkflow(wf, c.toolCommand)
	if err != nil {
		return "", err
	}
	if !c.skipValidation {
		if c.verbose {
			fmt.Println(console.FormatInfoMessage("Validating rendered workflow against GitHub Actions schema..."))
		}
		if err := validateWorkflowSchema(content); err != nil {
			return "", fmt.Errorf("rendered workflow failed schema validation: %w", err)
		}
	}
	return content, nil
}

// CleanWorkflow returns the bundled artifact cleanup document. The
// content is fixed, generate and check pass it through byte for byte.
func (c *Compiler) CleanWorkflow() string {
	return cleanTemplate
}

// OutputDir returns the directory the managed documents live in under
// root.
func (c *Compiler) OutputDir(root string) string {
	if c.customOutput != "" {
		return c.customOutput
	}
	return filepath.Join(root, constants.WorkflowsDir)
}

// GenerateWorkflows renders both managed documents and writes them under
// root, creating the workflows directory when missing.
func (c *Compiler) GenerateWorkflows(root string, wf *Workflow) error {
	content, err := c.RenderWorkflow(wf)
	if err != nil {
		return err
	}

	dir := c.OutputDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	ciPath := filepath.Join(dir, constants.CIWorkflowFile)
	if err := os.WriteFile(ciPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", ciPath, err)
	}
	if c.verbose {
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Generated %s", ciPath)))
	}

	cleanPath := filepath.Join(dir, constants.CleanWorkflowFile)
	if err := os.WriteFile(cleanPath, []byte(c.CleanWorkflow()), 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", cleanPath, err)
	}
	if c.verbose {
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Generated %s", cleanPath)))
	}
	return nil
}

// DriftError reports a managed document that no longer matches the
// model. Expected and Actual hold the full document texts so callers can
// show a diff.
type DriftError struct {
	Path     string
	Expected string
	Actual   string
	Missing  bool
}

func (e *DriftError) Error() string {
	if e.Missing {
		return fmt.Sprintf("workflow file '%s' does not exist; run '%s generate' to create it", e.Path, constants.CLIName)
	}
	return fmt.Sprintf("workflow file '%s' is out of date; run '%s generate' and commit the result", e.Path, constants.CLIName)
}

// CheckWorkflows verifies both managed documents under root against the
// model. The CI document is checked first so its drift is reported before
// the companion's. A missing document counts as drift.
func (c *Compiler) CheckWorkflows(root string, wf *Workflow) error {
	content, err := c.RenderWorkflow(wf)
	if err != nil {
		return err
	}

	dir := c.OutputDir(root)
	if err := c.checkDocument(filepath.Join(dir, constants.CIWorkflowFile), content); err != nil {
		return err
	}
	return c.checkDocument(filepath.Join(dir, constants.CleanWorkflowFile), c.CleanWorkflow())
}

func (c *Compiler) checkDocument(path, expected string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &DriftError{Path: path, Expected: expected, Missing: true}
	}
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}

	actual := string(data)
	if normalizeLines(actual) != normalizeLines(expected) {
		return &DriftError{Path: path, Expected: expected, Actual: actual}
	}
	if c.verbose {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s is up to date", path)))
	}
	return nil
}

// SameDocument reports whether two document texts match once line
// endings and trailing newlines are normalized away.
func SameDocument(a, b string) bool {
	return normalizeLines(a) == normalizeLines(b)
}

// normalizeLines prepares a document for comparison: CRLF endings from
// checkouts with autocrlf and trailing newlines left by editors do not
// count as drift.
func normalizeLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, "\n")
}
