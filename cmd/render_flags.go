package cmd

import (
	"fmt"

	"github.com/crytic/calltrace/config"
	"github.com/spf13/cobra"
)

// addRenderFlags adds the various flags for the render command.
func addRenderFlags() {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	renderCmd.Flags().SortFlags = false

	// Config file
	renderCmd.Flags().String("config", "", "path to config file")

	// Trace event stream
	renderCmd.Flags().String("trace", "",
		"path to the recorded call event stream to render")

	// Contract artifacts
	renderCmd.Flags().String("contracts", "",
		"path to the contract artifact file used to decode calls and events (optional)")

	// Root update policy
	renderCmd.Flags().String("root-policy", "",
		fmt.Sprintf("how a repeated depth-zero open fragment is treated, \"ignore\" or \"overwrite\" (unless a config file is provided, default is %q)", defaultConfig.Trace.RootUpdatePolicy))

	// Color output
	renderCmd.Flags().Bool("no-color", false,
		fmt.Sprintf("disable ANSI styling of rendered output (unless a config file is provided, default is %t)", defaultConfig.Trace.NoColor))
}

// updateProjectConfigWithRenderFlags will update the given projectConfig with any CLI arguments
// that were provided to the render command.
func updateProjectConfigWithRenderFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update the trace file path
	if cmd.Flags().Changed("trace") {
		projectConfig.Trace.TraceFilePath, err = cmd.Flags().GetString("trace")
		if err != nil {
			return err
		}
	}

	// Update the contract artifact path
	if cmd.Flags().Changed("contracts") {
		projectConfig.Trace.ContractsFilePath, err = cmd.Flags().GetString("contracts")
		if err != nil {
			return err
		}
	}

	// Update the root update policy
	if cmd.Flags().Changed("root-policy") {
		projectConfig.Trace.RootUpdatePolicy, err = cmd.Flags().GetString("root-policy")
		if err != nil {
			return err
		}
	}

	// Update color output
	if cmd.Flags().Changed("no-color") {
		projectConfig.Trace.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}
