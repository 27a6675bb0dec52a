package workflow

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/github-workflow.json
var githubWorkflowSchema string

// validateWorkflowSchema checks a rendered document against the bundled
// workflow schema. The parsed YAML is round-tripped through JSON first so
// the validator sees plain JSON types.
func validateWorkflowSchema(yamlContent string) error {
	var doc any
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return fmt.Errorf("failed to parse rendered YAML: %w", err)
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert document to JSON: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(jsonData, &normalized); err != nil {
		return fmt.Errorf("failed to normalize document: %w", err)
	}

	var schemaDoc any
	if err := json.Unmarshal([]byte(githubWorkflowSchema), &schemaDoc); err != nil {
		return fmt.Errorf("failed to parse workflow schema: %w", err)
	}

	// Register the schema under a temporary URL so it compiles without
	// touching the network
	compiler := jsonschema.NewCompiler()
	schemaURL := "http://contoso.com/schema.json"
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile workflow schema: %w", err)
	}

	return schema.Validate(normalized)
}
