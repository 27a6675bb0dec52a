package workflow

import (
	"fmt"
	"strings"
)

// VersionSelector is the matrix token spliced into tool invocations so the
// build tool runs against the tool version selected by the job matrix.
const VersionSelector = "++${{ matrix.tool }}"

// StepMeta carries the fields shared by every step variant. Name and If are
// optional and omitted from output when empty.
type StepMeta struct {
	Name string
	If   string
	Env  map[string]string
}

func (m StepMeta) stepMeta() StepMeta { return m }

// Step is a single workflow step. The concrete variants are RunStep,
// ToolStep and UsesStep, which all embed StepMeta.
type Step interface {
	stepMeta() StepMeta
}

// RunStep executes shell commands, one command per line.
type RunStep struct {
	StepMeta
	Commands []string
}

// ToolStep invokes the configured build tool once with the given commands,
// pinned to the matrix tool version. Commands containing spaces are quoted
// so the tool receives each one as a single argument.
type ToolStep struct {
	StepMeta
	Commands []string
}

// UsesStep references a published action at a major version, rendered as
// owner/repo@vN, with optional input parameters.
type UsesStep struct {
	StepMeta
	Owner   string
	Repo    string
	Version int
	With    map[string]string
}

// Built-in steps shared by generated jobs. Both are parameterless; callers
// that need inputs copy the value and set With.
var (
	// StepCheckout checks out the repository at the triggering ref.
	StepCheckout = UsesStep{
		StepMeta: StepMeta{Name: "Checkout current branch"},
		Owner:    "actions",
		Repo:     "checkout",
		Version:  4,
	}

	// StepSetupEnv installs the build runtime selected by the job matrix.
	StepSetupEnv = UsesStep{
		StepMeta: StepMeta{Name: "Setup build environment"},
		Owner:    "actions",
		Repo:     "setup-java",
		Version:  4,
	}
)

// renderStep renders one step as a YAML sequence item. declareShell forces
// an explicit bash shell on script steps, needed when the job matrix mixes
// Windows runners in. The leading "- " is spliced over the first indent
// space so continuation lines align under the item.
func renderStep(step Step, toolCommand string, declareShell bool) (string, error) {
	meta := step.stepMeta()

	var b strings.Builder
	if meta.Name != "" {
		b.WriteString("name: " + wrapScalar(meta.Name) + "\n")
	}
	if meta.If != "" {
		b.WriteString("if: " + wrapScalar(meta.If) + "\n")
	}
	if declareShell {
		// shell is only valid alongside run
		if _, uses := step.(UsesStep); !uses {
			b.WriteString("shell: bash\n")
		}
	}
	if len(meta.Env) > 0 {
		env, err := renderMapping("env", meta.Env)
		if err != nil {
			return "", err
		}
		b.WriteString(env + "\n\n")
	}

	body, err := renderStepBody(step, toolCommand)
	if err != nil {
		return "", err
	}
	b.WriteString(body)

	item := indentLines(b.String(), 1)
	return "-" + item[1:], nil
}

func renderStepBody(step Step, toolCommand string) (string, error) {
	switch s := step.(type) {
	case RunStep:
		return "run: " + wrapScalar(strings.Join(s.Commands, "\n")), nil

	case ToolStep:
		quoted := make([]string, 0, len(s.Commands))
		for _, command := range s.Commands {
			if strings.Contains(command, " ") {
				command = "'" + command + "'"
			}
			quoted = append(quoted, command)
		}
		line := toolCommand + " " + VersionSelector + " " + strings.Join(quoted, " ")
		return "run: " + wrapScalar(line), nil

	case UsesStep:
		if s.Version < 0 {
			return "", fmt.Errorf("action '%s/%s' version must not be negative", s.Owner, s.Repo)
		}
		body := fmt.Sprintf("uses: %s/%s@v%d", s.Owner, s.Repo, s.Version)
		if len(s.With) > 0 {
			with, err := renderMapping("with", s.With)
			if err != nil {
				return "", err
			}
			body += "\n" + with
		}
		return body, nil

	default:
		panic(fmt.Sprintf("unknown step type %T", step))
	}
}
