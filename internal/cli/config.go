package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ariel-frischer/janus/internal/config"
	clierrors "github.com/ariel-frischer/janus/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage janus configuration",
		Long: `Manage janus configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (JANUS_*)
  2. Project config (.janus/config.yml, or .janus/config.json)
  3. User config (~/.config/janus/config.yml)
  4. Built-in defaults`,
		Example: `  # Show the effective configuration and where each value comes from
  janus config show

  # Set a value in the project config
  janus config set lock_timeout 10s

  # Write a commented config template for the user
  janus config init --user`,
		// show needs a valid config; init, set and keys are how a broken one gets fixed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil && cmd.Name() == "show" {
				return err
			}
			return nil
		},
	}

	configCmd.AddCommand(
		newConfigInitCmd(a),
		newConfigShowCmd(a),
		newConfigSetCmd(a),
		newConfigKeysCmd(),
	)
	return configCmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config template",
		Long: `Write a commented config template listing every key with its default.

Writes the project config (.janus/config.yml) unless --user is given.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetBool("user")
			force, _ := cmd.Flags().GetBool("force")
			return runConfigInit(cmd, a, user, force)
		},
	}
	cmd.Flags().Bool("user", false, "Write the user config instead of the project config")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func runConfigInit(cmd *cobra.Command, a *app, user, force bool) error {
	configPath, err := a.configPath(cmd, user)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration)
	}

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	_, statErr := os.Stat(configPath)
	configExists := statErr == nil
	if configExists && !force {
		fmt.Fprintf(out, "%s Config exists at %s (use --force to overwrite)\n", green("✓"), dim(configPath))
		return nil
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration, "writing config template")
	}

	verb := "created"
	if configExists {
		verb = "overwritten"
	}
	fmt.Fprintf(out, "%s Config %s at %s\n", green("✓"), verb, dim(configPath))
	return nil
}

// writeDefaultConfig writes the default configuration to the given path
func writeDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	template := config.GetDefaultConfigTemplate()
	if err := os.WriteFile(configPath, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newConfigShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "show",
		Short:        "Show the effective configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runConfigShow(cmd, a.cfg, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runConfigShow(cmd *cobra.Command, cfg *config.Configuration, asJSON bool) error {
	out := cmd.OutOrStdout()
	settings := cfg.Settings()

	if asJSON {
		values := make(map[string]string, len(settings))
		for _, s := range settings {
			values[s.Key] = s.Value
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		return nil
	}

	fmt.Fprintln(out, "Configuration Sources:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, s := range settings {
		value := s.Value
		if value == "" {
			value = `""`
		}
		fmt.Fprintf(tw, "  %s:\t%s\t(%s)\n", s.Key, value, s.Source)
	}
	return tw.Flush()
}

func newConfigSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in a config file",
		Long: `Set a value in the project config, or the user config with --user.

The value is checked against the key's type before it is written. Comments
and other keys in the file are kept. List keys with: janus config keys`,
		Example: `  janus config set lock_timeout 10s
  janus config set --user log_level info
  janus config set changelog_path docs/CHANGES.md`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetBool("user")
			return runConfigSet(cmd, a, user, args[0], args[1])
		},
	}
	cmd.Flags().Bool("user", false, "Write the user config instead of the project config")
	return cmd
}

func runConfigSet(cmd *cobra.Command, a *app, user bool, key, value string) error {
	configPath, err := a.configPath(cmd, user)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration)
	}
	if filepath.Ext(configPath) == ".json" {
		return clierrors.NewArgumentError(
			fmt.Sprintf("cannot set values in JSON config %s", configPath),
			"Edit the JSON file by hand, or move its settings to .janus/config.yml",
		)
	}

	if err := config.SetConfigValue(configPath, key, value); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration,
			fmt.Sprintf("setting %s: %v", key, err),
			"List known keys with: janus config keys",
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, configPath)
	return nil
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "keys",
		Short:        "List known configuration keys",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, schema.Type, schema.Description)
			}
			return tw.Flush()
		},
	}
}

// configPath returns the config file that init and set write to.
func (a *app) configPath(cmd *cobra.Command, user bool) (string, error) {
	if user {
		if a.loadOpts.UserConfigPath != "" {
			return a.loadOpts.UserConfigPath, nil
		}
		configPath, err := config.UserConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get user config path: %w", err)
		}
		return configPath, nil
	}

	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		return configPath, nil
	}
	if a.loadOpts.ProjectConfigPath != "" {
		return a.loadOpts.ProjectConfigPath, nil
	}
	return config.ProjectConfigPath(), nil
}
