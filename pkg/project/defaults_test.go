package project

import (
	"strings"
	"testing"

	"github.com/forgeci/forgeci/pkg/workflow"
)

func TestBuildWorkflowDefaultGraph(t *testing.T) {
	config, err := ParseConfig([]byte(""), ".forgeci.yml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	wf, err := BuildWorkflow(config)
	if err != nil {
		t.Fatalf("BuildWorkflow failed: %v", err)
	}

	if len(wf.Jobs) != 2 {
		t.Fatalf("expected build and publish jobs, got %d", len(wf.Jobs))
	}

	build := wf.Jobs[0]
	if build.ID != "build" || build.Name != "Build and Test" {
		t.Errorf("build job identity = %s/%s", build.ID, build.Name)
	}
	// checkout, setup, staleness check, one tool step per build command
	if len(build.Steps) != 3+len(config.Build.Commands) {
		t.Errorf("build job has %d steps", len(build.Steps))
	}
	checkout, ok := build.Steps[0].(workflow.UsesStep)
	if !ok || checkout.Repo != "checkout" {
		t.Errorf("first build step = %+v", build.Steps[0])
	}
	if checkout.With["fetch-depth"] != "0" {
		t.Errorf("checkout should fetch full history: %v", checkout.With)
	}
	check, ok := build.Steps[2].(workflow.RunStep)
	if !ok || check.Commands[0] != "forgeci check" {
		t.Errorf("third build step = %+v", build.Steps[2])
	}

	publish := wf.Jobs[1]
	if publish.ID != "publish" || publish.Name != "Publish Artifacts" {
		t.Errorf("publish job identity = %s/%s", publish.ID, publish.Name)
	}
	if len(publish.Needs) != 1 || publish.Needs[0] != "build" {
		t.Errorf("publish needs = %v", publish.Needs)
	}
	for _, want := range []string{"pull_request", "refs/heads/main", "refs/tags/v"} {
		if !strings.Contains(publish.If, want) {
			t.Errorf("publish condition missing %q: %s", want, publish.If)
		}
	}
	if len(publish.OSes) != 1 || len(publish.RuntimeVersions) != 1 {
		t.Errorf("publish should run on one runner and one runtime: %v %v",
			publish.OSes, publish.RuntimeVersions)
	}
}

func TestBuildWorkflowPublishDisabled(t *testing.T) {
	config, err := ParseConfig([]byte("publish:\n  enabled: false\n"), ".forgeci.yml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	wf, err := BuildWorkflow(config)
	if err != nil {
		t.Fatalf("BuildWorkflow failed: %v", err)
	}
	if len(wf.Jobs) != 1 || wf.Jobs[0].ID != "build" {
		t.Errorf("expected only the build job, got %+v", wf.Jobs)
	}
}

func TestBuildWorkflowExtraJobs(t *testing.T) {
	data := []byte(`os: [ubuntu-latest, macos-latest]
jobs:
  - id: docs
    name: Build Documentation
    needs: [build]
    if: github.event_name == 'push'
    steps:
      - name: Generate site
        tool: [docs]
      - uses: actions/upload-pages-artifact@v3
        with:
          path: target/site
`)
	config, err := ParseConfig(data, ".forgeci.yml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	wf, err := BuildWorkflow(config)
	if err != nil {
		t.Fatalf("BuildWorkflow failed: %v", err)
	}

	docs := wf.Jobs[len(wf.Jobs)-1]
	if docs.ID != "docs" {
		t.Fatalf("last job = %s", docs.ID)
	}
	// extra jobs share the global matrix
	if len(docs.OSes) != 2 {
		t.Errorf("docs os matrix = %v", docs.OSes)
	}
	if docs.If != "github.event_name == 'push'" {
		t.Errorf("docs condition = %q", docs.If)
	}
	upload, ok := docs.Steps[1].(workflow.UsesStep)
	if !ok || upload.Owner != "actions" || upload.Version != 3 {
		t.Errorf("upload step = %+v", docs.Steps[1])
	}
	if upload.With["path"] != "target/site" {
		t.Errorf("upload with = %v", upload.With)
	}
}

func TestConvertStepRejectsAmbiguousBodies(t *testing.T) {
	tests := []struct {
		name string
		step StepConfig
	}{
		{"nothing set", StepConfig{Name: "empty"}},
		{"run and tool", StepConfig{Run: []string{"echo"}, Tool: []string{"test"}}},
		{"bad uses reference", StepConfig{Uses: "no-version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := convertStep(tt.step); err == nil {
				t.Errorf("convertStep(%+v) should fail", tt.step)
			}
		})
	}
}

func TestBuildWorkflowRendersEndToEnd(t *testing.T) {
	config, err := ParseConfig([]byte("name: Round Trip\n"), ".forgeci.yml")
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	wf, err := BuildWorkflow(config)
	if err != nil {
		t.Fatalf("BuildWorkflow failed: %v", err)
	}

	compiler := workflow.NewCompiler(false, config.Tool, "test")
	content, err := compiler.RenderWorkflow(wf)
	if err != nil {
		t.Fatalf("RenderWorkflow failed: %v", err)
	}

	for _, want := range []string{
		"name: Round Trip",
		"build:",
		"publish:",
		"needs: [build]",
		"uses: actions/checkout@v4",
		"run: forgeci check",
		"runs-on: ${{ matrix.os }}",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}
}
