package config

import (
	"github.com/rs/zerolog"
)

// GetDefaultProjectConfig obtains a default project configuration: colorized console rendering,
// info-level console logging, and the historical ignore policy for repeated root fragments.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Trace: TraceConfig{
			TraceFilePath:     "",
			ContractsFilePath: "",
			RootUpdatePolicy:  "ignore",
			NoColor:           false,
		},
		Logging: LoggingConfig{
			Level:                zerolog.InfoLevel,
			EnableConsoleLogging: true,
		},
	}
}
