// Package cmd contains the CLI commands for the timeid application.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// defaultServices backs rootCmd in the running process.
var defaultServices *runtime

// verbose holds the global --verbose flag state.
var verbose bool

// jsonOutput holds the global --json flag state.
var jsonOutput bool

// configPath holds the global --config flag value.
var configPath string

func init() {
	defaultServices = newRuntime(os.Stderr)
	rootCmd = BuildCommandTree(defaultServices)
}

// GetVerbose returns the current verbose flag state.
// This is used to force debug logging.
func GetVerbose() bool {
	return verbose
}

// GetJSON returns the current --json flag state.
func GetJSON() bool {
	return jsonOutput
}

// GetConfigPath returns the --config flag value, empty when unset.
func GetConfigPath() string {
	return configPath
}

// NewRootCmd creates a new root command instance with no subcommands.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeid",
		Short: "Generate and inspect time-ordered random identifiers",
		Long: "timeid generates 27-character identifiers that sort by creation time " +
			"and carry 128 bits of forward-secret randomness.",
		SilenceErrors: true,
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default timeid.yaml or $TIMEID_CONFIG)")

	return cmd
}

// ExecuteContext runs the root command with the process arguments and the
// given context, and returns the process exit code. Cancelling ctx (e.g. on
// SIGINT) stops long-running commands such as serve.
func ExecuteContext(ctx context.Context) int {
	defer defaultServices.Close()
	rootCmd.SetContext(ctx)
	return RunCLI(rootCmd, os.Args[1:], os.Stdout, os.Stderr)
}
