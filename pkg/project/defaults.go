package project

import (
	"fmt"

	"github.com/forgeci/forgeci/pkg/constants"
	"github.com/forgeci/forgeci/pkg/workflow"
)

// Default matrix axes used when the configuration leaves them out. A
// single mainstream runner and one version per axis keeps the generated
// matrix small until a project opts into more.
var (
	defaultBranches     = []string{"**"}
	defaultOSes         = []string{"ubuntu-latest"}
	defaultRuntimes     = []string{"17"}
	defaultToolVersions = []string{"latest"}
	defaultBuildCmds    = []string{"test"}
	defaultPublishCmds  = []string{"publish"}
	defaultPublishRefs  = []string{"main"}
)

// applyDefaults fills in every field an empty configuration leaves at its
// zero value, so BuildWorkflow never has to branch on missing data.
func applyDefaults(c *Config) {
	if c.Name == "" {
		c.Name = "Continuous Integration"
	}
	if c.Tool == "" {
		c.Tool = constants.DefaultToolCommand
	}
	if len(c.Branches) == 0 {
		c.Branches = defaultBranches
	}
	if len(c.OSes) == 0 {
		c.OSes = defaultOSes
	}
	if len(c.Runtimes) == 0 {
		c.Runtimes = defaultRuntimes
	}
	if len(c.ToolVersions) == 0 {
		c.ToolVersions = defaultToolVersions
	}
	if len(c.Build.Commands) == 0 {
		c.Build.Commands = defaultBuildCmds
	}
	if c.Publish.Enabled == nil {
		enabled := true
		c.Publish.Enabled = &enabled
	}
	if len(c.Publish.Commands) == 0 {
		c.Publish.Commands = defaultPublishCmds
	}
	if len(c.Publish.Branches) == 0 {
		c.Publish.Branches = defaultPublishRefs
	}
	if c.Publish.TagPrefix == "" {
		c.Publish.TagPrefix = "v"
	}
}

// BuildWorkflow assembles the workflow model from the configuration: a
// build job fanned out over the full matrix, a publish job gated on
// release refs when publishing is enabled, and any extra jobs declared in
// the configuration appended after them.
func BuildWorkflow(c *Config) (*workflow.Workflow, error) {
	jobs := []workflow.Job{buildJob(c)}
	if *c.Publish.Enabled {
		jobs = append(jobs, publishJob(c))
	}
	for _, jc := range c.Jobs {
		job, err := convertJob(jc, c)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return &workflow.Workflow{
		Name:     c.Name,
		Branches: c.Branches,
		Env:      c.Env,
		Jobs:     jobs,
	}, nil
}

// buildJob is the mandatory first job: checkout, runtime setup, a
// staleness self-check of the generated workflows, then the configured
// build commands against every leg of the matrix.
func buildJob(c *Config) workflow.Job {
	steps := []workflow.Step{
		checkoutStep(),
		setupStep(),
		workflow.RunStep{
			StepMeta: workflow.StepMeta{Name: "Check that workflows are up to date"},
			Commands: []string{constants.CLIName + " check"},
		},
	}
	for _, command := range c.Build.Commands {
		steps = append(steps, workflow.ToolStep{Commands: []string{command}})
	}

	return workflow.Job{
		ID:              "build",
		Name:            "Build and Test",
		Env:             c.Build.Env,
		OSes:            c.OSes,
		RuntimeVersions: c.Runtimes,
		ToolVersions:    c.ToolVersions,
		Steps:           steps,
	}
}

// publishJob runs on a single runner with a single runtime, only for
// pushes to a release branch or a release tag, and still crosses every
// tool version so artifacts are published for each.
func publishJob(c *Config) workflow.Job {
	refs := make([]workflow.Condition, 0, len(c.Publish.Branches)+1)
	for _, branch := range c.Publish.Branches {
		refs = append(refs, workflow.RefBranch(branch))
	}
	refs = append(refs, workflow.RefTagPrefix(c.Publish.TagPrefix))
	cond := workflow.And(workflow.NotPullRequest(), workflow.Or(refs...))

	steps := []workflow.Step{checkoutStep(), setupStep()}
	for _, command := range c.Publish.Commands {
		steps = append(steps, workflow.ToolStep{Commands: []string{command}})
	}

	return workflow.Job{
		ID:              "publish",
		Name:            "Publish Artifacts",
		Needs:           []string{"build"},
		If:              cond.Render(),
		Env:             c.Publish.Env,
		OSes:            c.OSes[:1],
		RuntimeVersions: c.Runtimes[:1],
		ToolVersions:    c.ToolVersions,
		Steps:           steps,
	}
}

// checkoutStep fetches the full history so publish tooling can derive
// versions from tags.
func checkoutStep() workflow.Step {
	step := workflow.StepCheckout
	step.With = map[string]string{"fetch-depth": "0"}
	return step
}

// setupStep installs the runtime selected by the job matrix.
func setupStep() workflow.Step {
	step := workflow.StepSetupEnv
	step.With = map[string]string{
		"distribution": "temurin",
		"java-version": "${{ matrix.runtime }}",
	}
	return step
}

// convertJob turns an extra job declared in the configuration into a
// model job. Extra jobs share the global matrix axes.
func convertJob(jc JobConfig, c *Config) (workflow.Job, error) {
	steps := make([]workflow.Step, 0, len(jc.Steps))
	for i, sc := range jc.Steps {
		step, err := convertStep(sc)
		if err != nil {
			return workflow.Job{}, fmt.Errorf("job '%s' step %d: %w", jc.ID, i+1, err)
		}
		steps = append(steps, step)
	}

	return workflow.Job{
		ID:              jc.ID,
		Name:            jc.Name,
		Needs:           jc.Needs,
		If:              jc.If,
		Env:             jc.Env,
		OSes:            c.OSes,
		RuntimeVersions: c.Runtimes,
		ToolVersions:    c.ToolVersions,
		Steps:           steps,
	}, nil
}

// convertStep maps a step declaration onto the step variant its populated
// field selects. The schema guarantees exactly one of run, tool and uses
// is set, but hand-constructed configs go through the same checks.
func convertStep(sc StepConfig) (workflow.Step, error) {
	meta := workflow.StepMeta{Name: sc.Name, If: sc.If, Env: sc.Env}

	set := 0
	if len(sc.Run) > 0 {
		set++
	}
	if len(sc.Tool) > 0 {
		set++
	}
	if sc.Uses != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of run, tool and uses must be set")
	}

	switch {
	case len(sc.Run) > 0:
		return workflow.RunStep{StepMeta: meta, Commands: sc.Run}, nil
	case len(sc.Tool) > 0:
		return workflow.ToolStep{StepMeta: meta, Commands: sc.Tool}, nil
	default:
		owner, repo, version, err := parseUses(sc.Uses)
		if err != nil {
			return nil, err
		}
		return workflow.UsesStep{
			StepMeta: meta,
			Owner:    owner,
			Repo:     repo,
			Version:  version,
			With:     sc.With,
		}, nil
	}
}
