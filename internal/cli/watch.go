package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariel-frischer/janus/internal/changelog"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/ariel-frischer/janus/internal/progress"
	"github.com/ariel-frischer/janus/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const clearScreen = "\033[H\033[2J"

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the record listing whenever the changelog changes",
		Long: `Print the record listing, then print it again every time the changelog
file changes on disk. Stops on Ctrl-C.

A malformed file is reported in place of the listing; watching continues
so the listing comes back once the file is fixed.

Examples:
  janus watch              # All records
  janus watch --last 3     # 3 most recent records`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, a)
		},
	}
	cmd.Flags().IntP("last", "n", 0, "Show only the N most recent records (0 = all)")
	cmd.Flags().Duration("debounce", 150*time.Millisecond, "Quiet period before re-rendering")
	return cmd
}

func runWatch(cmd *cobra.Command, a *app) error {
	last, _ := cmd.Flags().GetInt("last")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	path, err := a.changelogPath(cmd)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	w, err := watch.New(path, watch.WithDebounce(debounce), watch.WithLogger(a.log))
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	caps := progress.DetectTerminalCapabilities()
	caps.IsTTY = caps.IsTTY && isTerminal(out)

	sp := progress.NewSpinner(out, caps, " watching for changes (Ctrl-C to stop)")
	defer sp.Stop()

	err = w.Watch(ctx, func() error {
		sp.Stop()
		if caps.IsTTY {
			fmt.Fprint(out, clearScreen)
		}
		renderWatch(cmd, a, out, last)
		fmt.Fprintln(out)
		sp.Start()
		return nil
	})
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}

// renderWatch prints one frame of the watch listing. Load failures are
// printed rather than returned so watching continues.
func renderWatch(cmd *cobra.Command, a *app, out io.Writer, last int) {
	fmt.Fprintf(out, "%s  (updated %s)\n\n", a.path, time.Now().Format("15:04:05"))

	s, path, err := a.openStore(cmd)
	if err != nil {
		clierrors.FprintError(out, clierrors.Classify(err, path), a.plain(cmd))
		return
	}

	records := changelog.GetLastN(s.Sorted(), last)
	if len(records) == 0 {
		fmt.Fprintln(out, "No records.")
		return
	}
	if err := changelog.FormatRecords(records, out, a.formatOptions(cmd)); err != nil {
		a.log.WithError(err).Warn("rendering records failed")
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
