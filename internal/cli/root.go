// Package cli implements the janus command tree.
package cli

import (
	"errors"
	"os"

	"github.com/ariel-frischer/janus/internal/config"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/spf13/cobra"
)

// Command group IDs for the help output.
const (
	GroupGettingStarted = "getting-started"
	GroupRecords        = "records"
	GroupMaintenance    = "maintenance"
	GroupConfiguration  = "configuration"
)

// NewRootCmd builds the janus command tree with default config loading.
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.LoadOptions{})
}

func newRootCmd(opts config.LoadOptions) *cobra.Command {
	a := &app{loadOpts: opts}

	rootCmd := &cobra.Command{
		Use:   "janus",
		Short: "Manage a plain-text changelog of dated records",
		Long: `janus keeps a changelog of records in a plain-text file.

Each record has an id, a title, a creation date and three bullet sections
(features, bug fixes, maintenance). The file is rewritten in canonical
form, newest record first, on every change.

The changelog defaults to CHANGELOG.md at the root of the current git
repository. Override it with --file or changelog_path in the config.`,
		Example: `  # Create an empty changelog
  janus init

  # Add a record
  janus add --title "Initial setup" --feature "project skeleton"

  # List records mentioning "crash" since March
  janus list --contains crash --since 3/1/2024

  # Rewrite the file in canonical form
  janus fmt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringP("file", "f", "", "Changelog file (default: CHANGELOG.md at the git root)")
	rootCmd.PersistentFlags().String("config", "", "Project config file (default: .janus/config.yml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("plain", false, "Plain output (no colors/icons)")
	rootCmd.PersistentFlags().Bool("lenient", false, "Skip malformed records instead of failing")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: GroupRecords, Title: "Records:"},
		&cobra.Group{ID: GroupMaintenance, Title: "Maintenance:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	addCommand(rootCmd, GroupGettingStarted,
		newInitCmd(a),
		newDoctorCmd(a),
		newVersionCmd(),
	)
	addCommand(rootCmd, GroupRecords,
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	addCommand(rootCmd, GroupMaintenance,
		newCheckCmd(a),
		newFmtCmd(a),
		newWatchCmd(a),
	)
	addCommand(rootCmd, GroupConfiguration,
		newHistoryCmd(a),
		newConfigCmd(a),
	)

	return rootCmd
}

func addCommand(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

// Execute runs the janus command tree against os.Args. Failures are printed
// to stderr with remediation; the returned error maps to an exit code via
// ExitCode.
func Execute() error {
	cmd, err := NewRootCmd().ExecuteC()
	if err == nil {
		return nil
	}

	err = commandError(cmd, err)
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		plain, _ := cmd.Flags().GetBool("plain")
		clierrors.FprintError(os.Stderr, cliErr, plain)
	}
	return err
}

// commandError turns an error from cmd into a CLIError. Errors that are not
// already CLIErrors come from cobra flag and argument parsing. ExitErrors
// pass through unprinted.
func commandError(cmd *cobra.Command, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) || clierrors.IsCLIError(err) {
		return err
	}

	cliErr := clierrors.NewArgumentError(err.Error(), "Run '"+cmd.CommandPath()+" --help' for usage")
	cliErr.Err = err
	return cliErr
}
