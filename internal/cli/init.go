package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/ariel-frischer/janus/internal/store"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty changelog file",
		Long: `Create an empty changelog file at the resolved changelog path.

Refuses to overwrite an existing file unless --force is given.

Examples:
  janus init                      # CHANGELOG.md at the git root
  janus init -f docs/CHANGES.md   # A specific file
  janus init --force              # Truncate an existing changelog`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing changelog")
	return cmd
}

func runInit(cmd *cobra.Command, a *app) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := a.changelogPath(cmd)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	if err := a.backend(path).Init(force); err != nil {
		if errors.Is(err, store.ErrExists) {
			return clierrors.NewPrerequisiteError(
				fmt.Sprintf("changelog already exists at %s", path),
				"Use --force to replace it with an empty changelog",
			)
		}
		return clierrors.Classify(err, path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
