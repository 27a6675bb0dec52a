package workflow

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Job is one workflow job: a named step sequence fanned out over an
// os/runtime/tool version matrix. ID keys the job in the jobs mapping and
// in needs references, Name is the display name.
type Job struct {
	ID              string
	Name            string
	Needs           []string
	If              string
	Env             map[string]string
	OSes            []string
	RuntimeVersions []string
	ToolVersions    []string
	Steps           []Step
}

// renderJob renders a job as "id:" followed by the indented job body.
// Matrix axes are emitted as flow sequences of raw values; axis values are
// runner labels and version numbers, which never need quoting.
func renderJob(job Job, toolCommand string) (string, error) {
	if err := validateJob(job); err != nil {
		return "", err
	}

	declareShell := jobNeedsShell(job.OSes)

	var b strings.Builder
	b.WriteString("name: " + wrapScalar(job.Name) + "\n")
	if len(job.Needs) > 0 {
		b.WriteString("needs: [" + strings.Join(job.Needs, ", ") + "]\n")
	}
	if job.If != "" {
		b.WriteString("if: " + wrapScalar(job.If) + "\n")
	}
	b.WriteString("strategy:\n")
	b.WriteString("  matrix:\n")
	b.WriteString("    os: [" + strings.Join(job.OSes, ", ") + "]\n")
	b.WriteString("    runtime: [" + strings.Join(job.RuntimeVersions, ", ") + "]\n")
	b.WriteString("    tool: [" + strings.Join(job.ToolVersions, ", ") + "]\n")
	b.WriteString("runs-on: ${{ matrix.os }}\n")
	if len(job.Env) > 0 {
		env, err := renderMapping("env", job.Env)
		if err != nil {
			return "", err
		}
		b.WriteString(env + "\n")
	}
	b.WriteString("steps:\n")

	rendered := make([]string, 0, len(job.Steps))
	for _, step := range job.Steps {
		item, err := renderStep(step, toolCommand, declareShell)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, item)
	}
	b.WriteString(indentLines(strings.Join(rendered, "\n\n"), 1))

	return job.ID + ":\n" + indentLines(b.String(), 1), nil
}

// validateJob fails before any output is produced so a bad job never
// leaves a half rendered document behind.
func validateJob(job Job) error {
	switch {
	case job.ID == "":
		return errors.New("job id must not be empty")
	case strings.ContainsFunc(job.ID, unicode.IsSpace):
		return fmt.Errorf("job id '%s' contains whitespace", job.ID)
	case !isSafeScalar(job.ID):
		return fmt.Errorf("job id '%s' contains YAML special characters", job.ID)
	}
	if len(job.OSes) == 0 {
		return fmt.Errorf("job '%s' must declare at least one operating system", job.ID)
	}
	if len(job.Steps) == 0 {
		return fmt.Errorf("job '%s' must contain at least one step", job.ID)
	}
	return nil
}

// jobNeedsShell reports whether the matrix includes a Windows runner.
// Script steps then declare bash explicitly so commands behave the same
// on every leg of the matrix.
func jobNeedsShell(oses []string) bool {
	for _, os := range oses {
		if strings.Contains(os, "windows") {
			return true
		}
	}
	return false
}
