package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ariel-frischer/janus/internal/changelog"
	"github.com/ariel-frischer/janus/internal/config"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/ariel-frischer/janus/internal/git"
	"github.com/ariel-frischer/janus/internal/history"
	"github.com/ariel-frischer/janus/internal/logging"
	"github.com/ariel-frischer/janus/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds the state shared by every command of one invocation.
type app struct {
	// loadOpts is the base for config loading; --config overrides the project path.
	loadOpts config.LoadOptions

	cfg  *config.Configuration
	log  *logrus.Logger
	path string
}

// setup loads configuration and the logger. It runs before every command.
func (a *app) setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	opts := a.loadOpts
	if configPath != "" {
		opts.ProjectConfigPath = configPath
	}

	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return clierrors.InvalidConfig(err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return clierrors.InvalidConfig(err)
	}
	if debug {
		git.SetDebugLogger(log.Debugf)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// changelogPath resolves the changelog file: --file, then changelog_path,
// then CHANGELOG.md at the git root (or the working directory).
func (a *app) changelogPath(cmd *cobra.Command) (string, error) {
	if a.path != "" {
		return a.path, nil
	}

	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = a.cfg.ChangelogPath
	}
	if path == "" {
		var err error
		path, err = git.DefaultChangelogPath("")
		if err != nil {
			return "", fmt.Errorf("locating changelog: %w", err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving changelog path: %w", err)
	}
	a.path = abs
	a.log.WithField("path", abs).Debug("using changelog")
	return abs, nil
}

func (a *app) backend(path string) *store.FileBackend {
	return &store.FileBackend{
		Path:        path,
		Lock:        a.cfg.Lock,
		LockTimeout: a.cfg.LockTimeout,
	}
}

func (a *app) lenient(cmd *cobra.Command) bool {
	lenient, _ := cmd.Flags().GetBool("lenient")
	return lenient || a.cfg.LenientParse
}

func (a *app) plain(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool("plain")
	return plain || a.cfg.Plain
}

// openStore opens the changelog store for the resolved path.
func (a *app) openStore(cmd *cobra.Command) (*store.Store, string, error) {
	path, err := a.changelogPath(cmd)
	if err != nil {
		return nil, "", err
	}

	s, err := store.Open(a.backend(path),
		store.WithLogger(a.log),
		store.WithLenientParse(a.lenient(cmd)),
	)
	if err != nil {
		return nil, path, clierrors.Classify(err, path)
	}
	return s, path, nil
}

// journal records a mutation in the history file.
func (a *app) journal(operation string, rec changelog.Record, path string) {
	w := history.NewWriter(a.cfg.StateDir, a.cfg.MaxHistoryEntries)
	w.Log = a.log
	w.LogMutation(operation, rec, path)
}

func (a *app) formatOptions(cmd *cobra.Command) changelog.FormatOptions {
	return changelog.FormatOptions{Plain: a.plain(cmd)}
}
