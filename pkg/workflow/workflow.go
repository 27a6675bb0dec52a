package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forgeci/forgeci/pkg/constants"
)

// Workflow is the root of the document model: trigger branches, shared
// environment and an ordered list of jobs. Jobs render in declaration
// order so the emitted document is stable.
type Workflow struct {
	Name     string
	Branches []string
	Env      map[string]string
	Jobs     []Job
}

// Validate checks the job graph before rendering: ids must be unique,
// every needs reference must name a declared job and the dependency graph
// must be acyclic.
func (w *Workflow) Validate() error {
	if len(w.Jobs) == 0 {
		return errors.New("workflow must contain at least one job")
	}

	jobs := make(map[string]Job, len(w.Jobs))
	for _, job := range w.Jobs {
		if _, dup := jobs[job.ID]; dup {
			return fmt.Errorf("duplicate job id '%s'", job.ID)
		}
		jobs[job.ID] = job
	}

	for _, job := range w.Jobs {
		for _, dep := range job.Needs {
			if _, ok := jobs[dep]; !ok {
				return fmt.Errorf("job '%s' needs undeclared job '%s'", job.ID, dep)
			}
		}
	}

	visiting := make(map[string]bool, len(jobs))
	visited := make(map[string]bool, len(jobs))
	for _, job := range w.Jobs {
		if visited[job.ID] {
			continue
		}
		if dfsVisit(job.ID, jobs, visiting, visited) {
			return fmt.Errorf("dependency cycle detected involving job '%s'", job.ID)
		}
	}
	return nil
}

// dfsVisit walks the needs graph. A node seen again while still on the
// current path closes a cycle.
func dfsVisit(id string, jobs map[string]Job, visiting, visited map[string]bool) bool {
	visiting[id] = true
	for _, dep := range jobs[id].Needs {
		if visiting[dep] {
			return true
		}
		if !visited[dep] && dfsVisit(dep, jobs, visiting, visited) {
			return true
		}
	}
	visiting[id] = false
	visited[id] = true
	return false
}

func headerComment() string {
	return fmt.Sprintf("# This file was automatically generated by %s. DO NOT EDIT.\n# To update this file, edit %s and run:\n#   %s generate\n",
		constants.CLIName, constants.ConfigFileName, constants.CLIName)
}

// renderWorkflow renders the complete document: header comment, name,
// triggers, shared env and the jobs mapping, ending in exactly one
// trailing newline.
func renderWorkflow(wf *Workflow, toolCommand string) (string, error) {
	if err := wf.Validate(); err != nil {
		return "", err
	}

	branches := make([]string, 0, len(wf.Branches))
	for _, branch := range wf.Branches {
		branches = append(branches, wrapScalar(branch))
	}
	branchList := strings.Join(branches, ", ")

	var b strings.Builder
	b.WriteString(headerComment())
	b.WriteString("\n")
	b.WriteString("name: " + wrapScalar(wf.Name) + "\n\n")
	b.WriteString("on:\n")
	b.WriteString("  pull_request:\n")
	b.WriteString("    branches: [" + branchList + "]\n")
	b.WriteString("  push:\n")
	b.WriteString("    branches: [" + branchList + "]\n")
	b.WriteString("\n")
	if len(wf.Env) > 0 {
		env, err := renderMapping("env", wf.Env)
		if err != nil {
			return "", err
		}
		b.WriteString(env + "\n\n")
	}
	b.WriteString("jobs:\n")

	rendered := make([]string, 0, len(wf.Jobs))
	for _, job := range wf.Jobs {
		body, err := renderJob(job, toolCommand)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, body)
	}
	b.WriteString(indentLines(strings.Join(rendered, "\n\n"), 1))
	b.WriteString("\n")

	return b.String(), nil
}
