package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"

	"github.com/forgeci/forgeci/pkg/console"
	"github.com/forgeci/forgeci/pkg/constants"
	"github.com/forgeci/forgeci/pkg/project"
	"github.com/forgeci/forgeci/pkg/workflow"
)

// version is stamped in by the main package for diagnostics.
var version = "dev"

// SetVersion records the CLI version shown in verbose output.
func SetVersion(v string) {
	version = v
}

// resolveConfigPath returns the configuration file to load: the explicit
// flag value when given, otherwise the default name at the repository
// root.
func resolveConfigPath(root, configFlag string) string {
	if configFlag != "" {
		if filepath.IsAbs(configFlag) {
			return configFlag
		}
		return filepath.Join(root, configFlag)
	}
	return filepath.Join(root, constants.ConfigFileName)
}

// loadProject reads the configuration and assembles the workflow model
// and a compiler configured for it.
func loadProject(root, configFlag string, validate, verbose bool) (*workflow.Compiler, *workflow.Workflow, error) {
	configPath := resolveConfigPath(root, configFlag)
	if verbose {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Loading configuration from %s", console.ToRelativePath(configPath))))
	}

	config, err := project.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	wf, err := project.BuildWorkflow(config)
	if err != nil {
		return nil, nil, err
	}

	compiler := workflow.NewCompiler(verbose, config.Tool, version)
	compiler.SetSkipValidation(!validate)
	return compiler, wf, nil
}

// GenerateWorkflows compiles the workflow model and writes both managed
// documents under .github/workflows at the repository root.
func GenerateWorkflows(configFlag string, validate, verbose bool) error {
	root, err := findGitRoot()
	if err != nil {
		return err
	}

	compiler, wf, err := loadProject(root, configFlag, validate, verbose)
	if err != nil {
		return err
	}

	spinner := console.NewSpinner("Generating workflows...")
	spinner.Start()
	err = compiler.GenerateWorkflows(root, wf)
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Workflows written to %s", console.ToRelativePath(compiler.OutputDir(root)))))
	return nil
}

// CheckWorkflows verifies the committed documents against the model. On
// drift it prints a line diff against the expected content and fails.
func CheckWorkflows(configFlag string, verbose bool) error {
	root, err := findGitRoot()
	if err != nil {
		return err
	}

	compiler, wf, err := loadProject(root, configFlag, false, verbose)
	if err != nil {
		return err
	}

	if err := compiler.CheckWorkflows(root, wf); err != nil {
		var drift *workflow.DriftError
		if errors.As(err, &drift) && !drift.Missing {
			fmt.Println(console.FormatErrorMessage(drift.Error()))
			printDiff(drift.Actual, drift.Expected)
		}
		return err
	}

	fmt.Println(console.FormatSuccessMessage("Workflows are up to date"))
	return nil
}

// documentStatus describes one managed document for the status table.
type documentStatus struct {
	path     string
	present  bool
	upToDate bool
}

// StatusWorkflows prints a table of the managed documents and whether
// each matches the model. Documents are compared concurrently; they are
// independent files.
func StatusWorkflows(configFlag string, verbose bool) error {
	root, err := findGitRoot()
	if err != nil {
		return err
	}

	compiler, wf, err := loadProject(root, configFlag, false, verbose)
	if err != nil {
		return err
	}

	ciContent, err := compiler.RenderWorkflow(wf)
	if err != nil {
		return err
	}

	dir := compiler.OutputDir(root)
	documents := []struct {
		path     string
		expected string
	}{
		{filepath.Join(dir, constants.CIWorkflowFile), ciContent},
		{filepath.Join(dir, constants.CleanWorkflowFile), compiler.CleanWorkflow()},
	}

	results := make([]documentStatus, len(documents))
	p := pool.New().WithMaxGoroutines(len(documents))
	for i, doc := range documents {
		i, doc := i, doc
		p.Go(func() {
			status := documentStatus{path: doc.path}
			data, err := os.ReadFile(doc.path)
			if err == nil {
				status.present = true
				status.upToDate = workflow.SameDocument(string(data), doc.expected)
			}
			results[i] = status
		})
	}
	p.Wait()

	table := console.Table{
		Title:   "Managed workflow documents",
		Headers: []string{"Document", "Present", "Up to date"},
	}
	for _, status := range results {
		table.Rows = append(table.Rows, []string{
			console.ToRelativePath(status.path),
			yesNo(status.present),
			yesNo(status.present && status.upToDate),
		})
	}
	fmt.Println(console.RenderTable(table))
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
