package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/ariel-frischer/changelogit/internal/config"
	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage changelogit configuration",
	Long: `Manage changelogit configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHANGELOGIT_*, __ separates nesting)
  3. Project config (.changelogit/config.yml, or config.json)
  4. User config (~/.config/changelogit/config.yml, or config.json)
  5. Built-in defaults`,
	Example: `  # Show the effective configuration
  changelogit config show

  # Create a commented project config
  changelogit config init

  # Set a value in the project config
  changelogit config set pull_requests.enabled true`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (secrets masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return changelog.Encode(cmd.OutOrStdout(), cfg.Redacted(), format)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userPath, err := config.UserConfigPath()
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "locating user config")
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "user:    %s%s\n", userPath, existsMarker(userPath))
		projectPath := projectConfigPath(cmd)
		fmt.Fprintf(w, "project: %s%s\n", projectPath, existsMarker(projectPath))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file with all defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := targetConfigPath(cmd)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return clierrors.NewArgumentError(
				fmt.Sprintf("config already exists: %s", path),
				"Use --force to overwrite it",
				"Or change single values with: changelogit config set <key> <value>",
			)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return clierrors.FileNotWritable(path, err)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return clierrors.FileNotWritable(path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Example: `  changelogit config set format yaml
  changelogit config set pull_requests.provider gitea --user`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := targetConfigPath(cmd)
		if err != nil {
			return err
		}
		if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
			return clierrors.Wrap(err, clierrors.Argument, "List valid keys with: changelogit config keys")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			typ := schema.Type.String()
			if schema.Type == config.TypeEnum {
				typ = fmt.Sprintf("%s %v", typ, schema.AllowedValues)
			}
			fmt.Fprintf(w, "%-24s %-22s %s (default %q)\n", key, typ, schema.Description, fmt.Sprint(schema.Default))
		}
		return nil
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a JSON config file to YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		user, _ := cmd.Flags().GetBool("user")

		migrate := config.MigrateProjectConfig
		if user {
			migrate = config.MigrateUserConfig
		}
		result, err := migrate(dryRun)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "migrating config")
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)

		if result.Success && !dryRun {
			if err := config.BackupJSONConfig(result.SourcePath, dryRun); err != nil {
				return clierrors.WrapWithMessage(err, clierrors.Runtime, "backing up JSON config")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s.bak\n", result.SourcePath, result.SourcePath)
		}
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd, configSetCmd, configKeysCmd, configMigrateCmd)

	configShowCmd.Flags().String("format", "yaml", "Output format: yaml or json")

	for _, c := range []*cobra.Command{configInitCmd, configSetCmd, configMigrateCmd} {
		c.Flags().Bool("user", false, "Use the user config instead of the project config")
	}
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configMigrateCmd.Flags().Bool("dry-run", false, "Report what would change without writing")
}

// projectConfigPath honors the --config flag.
func projectConfigPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.ProjectConfigPath()
}

// targetConfigPath returns the user config path with --user, else the project path.
func targetConfigPath(cmd *cobra.Command) (string, error) {
	if user, _ := cmd.Flags().GetBool("user"); user {
		path, err := config.UserConfigPath()
		if err != nil {
			return "", clierrors.WrapWithMessage(err, clierrors.Configuration, "locating user config")
		}
		return path, nil
	}
	return projectConfigPath(cmd), nil
}

func existsMarker(path string) string {
	if _, err := os.Stat(path); err == nil {
		return " (exists)"
	}
	return ""
}
