package cli

import (
	"fmt"

	"github.com/ariel-frischer/changelogit/internal/build"
	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for changelogit",
	Example: `  # Show version info
  changelogit version

  # Machine-readable output
  changelogit version --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "" {
			return changelog.Encode(cmd.OutOrStdout(), build.Current(), format)
		}
		plain, _ := cmd.Flags().GetBool("plain")
		printVersion(cmd, plain)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
	versionCmd.Flags().String("format", "", "Encode as json or yaml")
}

func printVersion(cmd *cobra.Command, plain bool) {
	info := build.Current()
	label := fmt.Sprint
	if !plain {
		label = color.New(color.FgCyan, color.Bold).Sprint
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", label("changelogit"), info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built: %s\n", info.BuildDate)
	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "platform: %s\n", info.Platform)
}
