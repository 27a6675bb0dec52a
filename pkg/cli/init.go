package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cli/go-gh/v2/pkg/repository"

	"github.com/forgeci/forgeci/pkg/console"
	"github.com/forgeci/forgeci/pkg/constants"
)

const initTemplate = `# %s project configuration.
# Run '%s generate' after editing to regenerate the workflows.

name: %s CI

# Build tool command invoked by matrix steps.
tool: %s

# Branch patterns that trigger the workflow.
branches: ["**"]

# Matrix axes: runner labels, runtime versions, build tool versions.
os: [ubuntu-latest]
runtimes: [17]
tool-versions: [latest]

build:
  commands: [test]

publish:
  enabled: false
  # commands: [publish]
  # branches: [main]
  # tag-prefix: v
`

// InitProject writes a starter configuration file at the repository
// root. An existing file is only replaced with --force.
func InitProject(force, verbose bool) error {
	root, err := findGitRoot()
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, constants.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("'%s' already exists; use --force to overwrite it", console.ToRelativePath(configPath))
	}

	name := projectName(root)
	content := fmt.Sprintf(initTemplate, constants.CLIName, constants.CLIName, name, constants.DefaultToolCommand)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", configPath, err)
	}

	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("Created %s", console.ToRelativePath(configPath))))
	if verbose {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Run '%s generate' to create the workflow files", constants.CLIName)))
	}
	return nil
}

// projectName prefers the current GitHub repository name and falls back
// to the repository directory name when no remote is configured.
func projectName(root string) string {
	if repo, err := repository.Current(); err == nil && repo.Name != "" {
		return repo.Name
	}
	return filepath.Base(root)
}
