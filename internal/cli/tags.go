package cli

import (
	"fmt"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	"github.com/ariel-frischer/changelogit/internal/git"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List release tags, newest first",
	Long: `List the tags that changelogit would use as release boundaries, newest
first, with the tagged commit, its date and subject.`,
	Example: `  changelogit tags
  changelogit tags --limit 5 --plain`,
	Args: cobra.NoArgs,
	RunE: runTags,
}

func init() {
	tagsCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().String("dir", "", "Repository directory (default current directory)")
	tagsCmd.Flags().IntP("limit", "n", 0, "Show at most this many tags (0 = all)")
	tagsCmd.Flags().Bool("plain", false, "Plain output without colors")
}

func runTags(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Git.Dir = dir
	}

	dir := repoDir(cfg)
	if err := checkTags(dir, "", ""); err != nil {
		return err
	}

	tags, err := changelog.NewTagLister(git.NewCLIRunner(cfg.Git.Binary, dir)).List(cmd.Context())
	if err != nil {
		return buildError(cfg.Git.Binary, err)
	}

	if len(tags) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
		return nil
	}

	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(tags) {
		tags = tags[:limit]
	}

	plain, _ := cmd.Flags().GetBool("plain")
	return changelog.FormatTags(tags, cmd.OutOrStdout(), changelog.FormatOptions{Plain: plain})
}
