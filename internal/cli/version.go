package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/janus/internal/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for janus",
		Example: `  # Show version info
  janus version

  # Plain output (for scripts)
  janus --plain version`,
		Args: cobra.NoArgs,
		// Version needs no config or changelog.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			printVersion(cmd, plain)
		},
	}
}

func printVersion(cmd *cobra.Command, plain bool) {
	out := cmd.OutOrStdout()

	if plain {
		fmt.Fprintf(out, "janus %s\n", version.Version)
		for _, f := range version.Fields()[1:] {
			fmt.Fprintf(out, "%s: %s\n", strings.ToLower(f.Label), f.Value)
		}
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s\n\n", cyan("janus"))
	for _, f := range version.Fields() {
		fmt.Fprintf(out, "  %s    %s\n", yellow(fmt.Sprintf("%10s", f.Label)), white(f.Value))
	}
}
