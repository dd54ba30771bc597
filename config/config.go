package config

import (
	"encoding/json"
	"os"

	"github.com/crytic/calltrace/tracing"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the configuration for one trace rendering run.
type ProjectConfig struct {
	// Trace describes the configuration used to load and render a call trace.
	Trace TraceConfig `json:"trace"`

	// Logging describes the configuration used for logging.
	Logging LoggingConfig `json:"logging"`
}

// TraceConfig describes the configuration options used to load and render a call trace.
type TraceConfig struct {
	// TraceFilePath refers to the JSON call event stream recorded for the traced execution.
	TraceFilePath string `json:"traceFile"`

	// ContractsFilePath refers to the JSON contract artifact list used to decode calls and
	// events. If empty, every frame is rendered in its raw form.
	ContractsFilePath string `json:"contractsFile"`

	// RootUpdatePolicy determines how a repeated depth-zero open fragment is treated: "ignore"
	// leaves the existing root untouched, "overwrite" replaces its result fields in place.
	RootUpdatePolicy string `json:"rootUpdatePolicy"`

	// NoColor disables ANSI styling of the rendered output.
	NoColor bool `json:"noColor"`
}

// LoggingConfig describes the configuration options used for logging.
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be
	// emitted or discarded. Increasing level values represent more severe logs.
	Level zerolog.Level `json:"level"`

	// EnableConsoleLogging describes whether console logging is enabled.
	EnableConsoleLogging bool `json:"enableConsoleLogging"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig := GetDefaultProjectConfig()
	if err = json.Unmarshal(b, projectConfig); err != nil {
		return nil, errors.WithStack(err)
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	if err = os.WriteFile(path, b, 0644); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// A trace file is the one mandatory input.
	if p.Trace.TraceFilePath == "" {
		return errors.Errorf("a trace file path must be provided")
	}

	// The root update policy must parse.
	if _, err := tracing.ParseRootUpdatePolicy(p.Trace.RootUpdatePolicy); err != nil {
		return err
	}

	// Verify the log level is obtainable.
	if _, err := zerolog.ParseLevel(p.Logging.Level.String()); err != nil {
		return errors.Errorf("invalid log level: %v", p.Logging.Level)
	}
	return nil
}
