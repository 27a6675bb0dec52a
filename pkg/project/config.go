package project

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/forgeci/forgeci/internal/mapper"
	"github.com/forgeci/forgeci/pkg/console"
	"github.com/forgeci/forgeci/pkg/constants"
)

//go:embed schemas/config.json
var configSchema string

// Config is the project configuration read from .forgeci.yml. Zero values
// are filled in by applyDefaults, so an empty file is a valid
// configuration describing a plain build.
type Config struct {
	Name         string            `yaml:"name"`
	Tool         string            `yaml:"tool"`
	Branches     []string          `yaml:"branches"`
	OSes         []string          `yaml:"os"`
	Runtimes     VersionList       `yaml:"runtimes"`
	ToolVersions VersionList       `yaml:"tool-versions"`
	Env          map[string]string `yaml:"env"`
	Build        BuildConfig       `yaml:"build"`
	Publish      PublishConfig     `yaml:"publish"`
	Jobs         []JobConfig       `yaml:"jobs"`
}

// BuildConfig configures the generated build job.
type BuildConfig struct {
	Commands []string          `yaml:"commands"`
	Env      map[string]string `yaml:"env"`
}

// PublishConfig configures the generated publish job. Enabled defaults to
// true; a three-valued pointer keeps "absent" distinguishable from
// "false".
type PublishConfig struct {
	Enabled   *bool             `yaml:"enabled"`
	Commands  []string          `yaml:"commands"`
	Branches  []string          `yaml:"branches"`
	TagPrefix string            `yaml:"tag-prefix"`
	Env       map[string]string `yaml:"env"`
}

// JobConfig describes an extra job appended after the generated ones. It
// shares the global version matrix.
type JobConfig struct {
	ID    string            `yaml:"id"`
	Name  string            `yaml:"name"`
	Needs []string          `yaml:"needs"`
	If    string            `yaml:"if"`
	Env   map[string]string `yaml:"env"`
	Steps []StepConfig      `yaml:"steps"`
}

// StepConfig describes one step of an extra job. Exactly one of Run, Tool
// and Uses must be set.
type StepConfig struct {
	Name string            `yaml:"name"`
	If   string            `yaml:"if"`
	Env  map[string]string `yaml:"env"`
	Run  []string          `yaml:"run"`
	Tool []string          `yaml:"tool"`
	Uses string            `yaml:"uses"`
	With map[string]string `yaml:"with"`
}

// VersionList is a list of version strings that also accepts bare YAML
// numbers, so users can write runtimes: [11] without quoting.
type VersionList []string

func (v *VersionList) UnmarshalYAML(unmarshal func(any) error) error {
	var raw []any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	list := make([]string, 0, len(raw))
	for _, item := range raw {
		list = append(list, fmt.Sprintf("%v", item))
	}
	*v = list
	return nil
}

// LoadConfig reads, validates and decodes the configuration file at path,
// returning a config with defaults applied.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file '%s' not found; run '%s init' to create one", path, constants.CLIName)
		}
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig validates data against the configuration schema and decodes
// it. path is only used in diagnostics.
func ParseConfig(data []byte, path string) (*Config, error) {
	if strings.TrimSpace(string(data)) == "" {
		config := &Config{}
		applyDefaults(config)
		return config, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", path, err)
	}

	if err := validateConfigSchema(doc, data, path); err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to decode '%s': %w", path, err)
	}
	applyDefaults(&config)
	return &config, nil
}

// validateConfigSchema checks the parsed document against the embedded
// schema. Violations are reported as positioned compiler errors with the
// offending source lines attached.
func validateConfigSchema(doc any, data []byte, path string) error {
	var schemaDoc any
	if err := json.Unmarshal([]byte(configSchema), &schemaDoc); err != nil {
		return fmt.Errorf("failed to parse configuration schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	schemaURL := "http://contoso.com/schema.json"
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile configuration schema: %w", err)
	}

	// Round-trip through JSON so the validator sees plain JSON types
	// instead of YAML-flavored ones
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize configuration: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(jsonData, &normalized); err != nil {
		return fmt.Errorf("failed to normalize configuration: %w", err)
	}

	err = schema.Validate(normalized)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return formatSchemaError(validationErr, data, path)
}

// formatSchemaError turns the first leaf schema violation into a
// positioned error pointing into the source file.
func formatSchemaError(validationErr *jsonschema.ValidationError, data []byte, path string) error {
	leaf := firstLeaf(validationErr)

	span := mapper.Locate(data, leaf.InstanceLocation)
	if k, ok := leaf.ErrorKind.(*kind.AdditionalProperties); ok && len(k.Properties) > 0 {
		span = mapper.LocateKey(data, leaf.InstanceLocation, k.Properties[0])
	}

	context, contextStart := mapper.ContextWindow(data, span.Line, 2)
	printer := message.NewPrinter(language.English)

	return errors.New(console.FormatError(console.CompilerError{
		Position: console.ErrorPosition{
			File:   path,
			Line:   span.Line,
			Column: span.Column,
		},
		Type:         "error",
		Message:      leaf.ErrorKind.LocalizedString(printer),
		Context:      context,
		ContextStart: contextStart,
		Hint:         fmt.Sprintf("run '%s init --force' to write a fresh configuration", constants.CLIName),
	}))
}

// firstLeaf descends to the most specific cause of a validation error.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// parseUses splits an action reference of the form owner/repo@vN.
func parseUses(ref string) (owner, repo string, version int, err error) {
	badRef := fmt.Errorf("action reference '%s' must look like owner/repo@vN", ref)

	rest, versionPart, ok := strings.Cut(ref, "@")
	if !ok {
		return "", "", 0, badRef
	}
	owner, repo, ok = strings.Cut(rest, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", 0, badRef
	}
	digits, ok := strings.CutPrefix(versionPart, "v")
	if !ok || digits == "" {
		return "", "", 0, badRef
	}
	version = 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", "", 0, badRef
		}
		version = version*10 + int(r-'0')
	}
	return owner, repo, version, nil
}
