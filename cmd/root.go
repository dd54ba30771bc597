package cmd

import (
	"github.com/crytic/calltrace/logging"
	"github.com/spf13/cobra"
)

// rootCmd represents the root CLI command object which all other commands are attached to.
var rootCmd = &cobra.Command{
	Use:   "calltrace",
	Short: "An annotated call trace viewer for EVM executions",
	Long:  "calltrace reconstructs the nested call tree of a traced EVM execution and renders it with ABI-decoded calls and events",
}

// cmdLogger is the logger that will be used for all CLI commands.
var cmdLogger = logging.GlobalLogger.NewSubLogger("module", "cmd")

// Execute provides an exportable function to invoke the CLI.
// Returns an error if one was encountered.
func Execute() error {
	return rootCmd.Execute()
}
