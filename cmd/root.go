package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"aapctl/internal/cli"
	"aapctl/pkg/logging"
)

// Exit codes for CLI commands. These follow common conventions so the
// tool scripts cleanly in CI pipelines.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeDrift indicates a check-mode run found resources that would change.
	ExitCodeDrift = 2
)

var rootLogLevel string

// rootCmd represents the base command for the aapctl application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aapctl",
	Short: "Converge automation platform gateway resources against a manifest",
	Long: `aapctl reconciles the administrative entities of an automation
platform gateway (users, organizations, CA certificates, authenticator
maps, role definitions, role assignments and UI plugin routes) against
a desired state expressed as a YAML manifest.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(rootLogLevel), os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles
// subcommands and flags. This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "aapctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var drift *cli.DriftError
	if errors.As(err, &drift) {
		return ExitCodeDrift
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
