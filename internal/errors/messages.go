package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the changelogit CLI.
// These templates ensure consistent, actionable error messages.

// NotGitRepository creates an error when dir is not inside a git repository.
func NotGitRepository(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", dir),
		"Run changelogit from inside a repository",
		"Or point it at one: changelogit build --dir <path>",
	)
}

// GitNotFound creates an error when the git executable cannot be started.
func GitNotFound(binary string, err error) *CLIError {
	e := NewPrerequisiteError(
		fmt.Sprintf("git executable %q could not be run", binary),
		"Install git and make sure it is on your PATH",
		"Or set git.binary in .changelogit/config.yml",
	)
	e.Cause = err
	return e
}

// UnknownTag creates an error for a --start or --final tag that does not exist.
func UnknownTag(flag, name string, available []string) *CLIError {
	remediation := []string{"List tags with: changelogit tags"}
	if len(available) > 0 {
		shown := available
		if len(shown) > 5 {
			shown = shown[:5]
		}
		remediation = append(remediation, "Known tags include: "+strings.Join(shown, ", "))
	}
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("tag %q given to --%s does not exist", name, flag),
		"changelogit build [--start <tag>] [--final <tag>]",
		remediation...,
	)
}

// HistoryReadFailed creates an error when git log fails for a release window.
func HistoryReadFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime, "reading commit history failed",
		"Re-run with --debug to see the git commands",
		"Check that the tags are reachable: git log --oneline <tag>",
	)
}

// ConfigParseError creates an error for an unreadable or invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration, "loading configuration failed",
		"Check the file reported above",
		"Show the effective settings with: changelogit config show",
	)
}

// UnlistedTag creates an error for a boundary tag that exists but is not
// listed, because another tag on the same commit is reported instead.
func UnlistedTag(flag, name string, listed []string) *CLIError {
	e := UnknownTag(flag, name, listed)
	e.Message = fmt.Sprintf("tag %q given to --%s shares its commit with another tag and is not listed", name, flag)
	e.Remediation = append([]string{"Use the tag shown for that commit by: changelogit tags"}, e.Remediation[1:]...)
	return e
}

// RemoteNotDetected creates an error when owner/repo cannot be derived from origin.
func RemoteNotDetected(err error) *CLIError {
	e := NewConfigError(
		"could not determine the hosted repository from the origin remote",
		"Set pull_requests.owner and pull_requests.repo in config",
		"Or pass --owner and --repo",
	)
	e.Cause = err
	return e
}

// PullRequestAuthFailed creates an error when the hosting service rejects credentials.
func PullRequestAuthFailed(provider string, err error) *CLIError {
	return WrapWithMessage(err, Configuration, fmt.Sprintf("%s rejected the credentials", provider),
		"Check pull_requests.token (or GITHUB_TOKEN / GITEA_TOKEN)",
		"Tokens need read access to pull requests",
	)
}

// FileNotWritable creates an error for an output file that cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	e := NewRuntimeError(
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions",
		"Ensure the parent directory exists",
	)
	e.Cause = err
	return e
}
