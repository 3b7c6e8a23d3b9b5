package changelog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes v to w in the given format (json or yaml).
// JSON output is indented for readability.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (expected: %s or %s)", format, FormatJSON, FormatYAML)
	}
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

var (
	tagNameColor = color.New(color.FgGreen, color.Bold)
	headColor    = color.New(color.FgYellow, color.Bold)
	shaColor     = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// FormatTags writes one line per tag: name, short SHA, date and message.
// When commit counts are known (after a build) they are shown as well.
func FormatTags(tags []*Tag, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for _, t := range tags {
		if err := writeTagLine(t, w, opts, width); err != nil {
			return fmt.Errorf("formatting tag %s: %w", t.Name, err)
		}
	}

	return nil
}

func writeTagLine(t *Tag, w io.Writer, opts FormatOptions, width int) error {
	sha := shortSHA(t.SHA)
	date := dateOnly(t.Tagger.Date)

	count := ""
	if len(t.CommitSHAs) > 0 {
		count = fmt.Sprintf(" [%d commits]", len(t.CommitSHAs))
	}

	prefix := fmt.Sprintf("%-20s %-7s %-10s ", t.Name, sha, date)
	message := truncateText(t.Message, width-len(prefix)-len(count))

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s%s\n", prefix, message, count)
		return err
	}

	nameColor := tagNameColor
	if t.IsHead() {
		nameColor = headColor
	}

	_, err := fmt.Fprintf(w, "%s %s %s %s%s\n",
		nameColor.Sprintf("%-20s", t.Name),
		shaColor.Sprintf("%-7s", sha),
		dimColor.Sprintf("%-10s", date),
		message,
		dimColor.Sprint(count))
	return err
}

func shortSHA(sha string) string {
	if len(sha) < 7 {
		return sha
	}
	return sha[:7]
}

// dateOnly trims an ISO 8601 timestamp to its YYYY-MM-DD part.
func dateOnly(date string) string {
	if len(date) < 10 {
		return date
	}
	return date[:10]
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 3 || len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
