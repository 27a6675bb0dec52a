package constants

// CLIName is the binary name used in user-facing output and generated comments
const CLIName = "forgeci"

// ConfigFileName is the project configuration file searched for at the repository root
const ConfigFileName = ".forgeci.yml"

// WorkflowsDir is the directory where generated workflow files are written,
// relative to the repository root
const WorkflowsDir = ".github/workflows"

// CIWorkflowFile is the name of the generated continuous integration workflow
const CIWorkflowFile = "ci.yml"

// CleanWorkflowFile is the name of the generated artifact cleanup workflow
const CleanWorkflowFile = "clean.yml"

// DefaultToolCommand is the build tool invoked by generated matrix steps when
// the project configuration does not name one
const DefaultToolCommand = "sbt"
