package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crytic/calltrace/cmd/exitcodes"
	"github.com/crytic/calltrace/config"
	"github.com/crytic/calltrace/contracts"
	"github.com/crytic/calltrace/logging"
	"github.com/crytic/calltrace/logging/colors"
	"github.com/crytic/calltrace/tracing"
	"github.com/spf13/cobra"
)

// renderCmd represents the command provider for trace rendering.
var renderCmd = &cobra.Command{
	Use:           "render",
	Short:         "Renders a recorded call trace as an annotated tree",
	Long:          `Replays a recorded call event stream into a call trace tree and renders it with ABI-decoded calls and events`,
	Args:          cmdValidateRenderArgs,
	RunE:          cmdRunRender,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add all the flags allowed for the render command
	addRenderFlags()

	// Add the render command and its associated flags to the root command
	rootCmd.AddCommand(renderCmd)
}

// cmdValidateRenderArgs makes sure that there are no positional arguments provided to the render
// command.
func cmdValidateRenderArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("render does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the render command", err)
		return err
	}
	return nil
}

// cmdRunRender executes the CLI render command: it resolves the project configuration (config
// file plus flag overrides), replays the recorded call event stream into a trace tree, and
// renders the tree to standard output.
func cmdRunRender(cmd *cobra.Command, args []string) error {
	var projectConfig *config.ProjectConfig

	// Check to see if --config was used and store the value of the flag.
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		cmdLogger.Error("Failed to run the render command", err)
		return err
	}

	// If --config was not used, look for the default config file in the current work directory.
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the render command", err)
			return err
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Possibility #1: the config file exists, so read it.
	_, existenceError := os.Stat(configPath)
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		projectConfig, err = config.ReadProjectConfigFromFile(configPath)
		if err != nil {
			cmdLogger.Error("Failed to run the render command", err)
			return err
		}
	}

	// Possibility #2: --config was used, but the file could not be found.
	if configFlagUsed && existenceError != nil {
		cmdLogger.Error("Failed to run the render command", existenceError)
		return existenceError
	}

	// Possibility #3: --config was not used and no default config file exists, so use the
	// default project configuration.
	if !configFlagUsed && existenceError != nil {
		projectConfig = config.GetDefaultProjectConfig()
	}

	// Update the project configuration given whatever flags were set using the CLI.
	if err = updateProjectConfigWithRenderFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the render command", err)
		return err
	}

	// Validate the configuration and set up logging accordingly.
	if err = projectConfig.Validate(); err != nil {
		cmdLogger.Error("Invalid configuration for the render command", err)
		return err
	}
	logging.GlobalLogger = logging.NewLogger(projectConfig.Logging.Level, projectConfig.Logging.EnableConsoleLogging)
	logger := logging.GlobalLogger.NewSubLogger("module", "cmd")

	rootPolicy, err := tracing.ParseRootUpdatePolicy(projectConfig.Trace.RootUpdatePolicy)
	if err != nil {
		logger.Error("Failed to run the render command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Load the contract registry, if one was provided.
	registry := contracts.NewRegistry()
	if projectConfig.Trace.ContractsFilePath != "" {
		registry, err = contracts.ReadRegistryFromFile(projectConfig.Trace.ContractsFilePath)
		if err != nil {
			logger.Error("Failed to read the contract artifacts", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		logger.Debug("Loaded ", len(registry.Contracts()), " contract definition(s)")
	}

	// Read and replay the recorded call event stream.
	events, err := tracing.ReadCallEventsFromFile(projectConfig.Trace.TraceFilePath)
	if err != nil {
		logger.Error("Failed to read the trace file", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	trace, err := tracing.NewReplayer(rootPolicy).Replay(events)
	if err != nil {
		logger.Error("Failed to replay the trace event stream", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeRenderError)
	}

	// Render the completed tree to stdout.
	renderer := tracing.NewRenderer(registry, !projectConfig.Trace.NoColor)
	if err = renderer.Write(os.Stdout, trace); err != nil {
		logger.Error("Failed to render the trace", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeRenderError)
	}
	return nil
}
