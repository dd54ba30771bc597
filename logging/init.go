package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// init will instantiate the global logger and set up some global parameters from the zerolog
// package.
func init() {
	// Instantiate the global logger. Console output is enabled by default so CLI commands can log
	// before the project configuration has been resolved; commands re-create the logger once the
	// configured level is known.
	GlobalLogger = NewLogger(zerolog.InfoLevel, true)

	// Setup stack trace support and set the timestamp format to UNIX
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
