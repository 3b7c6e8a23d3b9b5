// Package health runs the environment checks behind 'changelogit doctor': the
// git executable, the repository and its tags, and, when pull-request
// enrichment is enabled, the hosted repository and its credentials.
package health

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelogit/internal/git"
	"github.com/ariel-frischer/changelogit/internal/pullrequest"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Add appends a check result, failing the report when the check failed.
func (r *HealthReport) Add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Options selects what RunHealthChecks inspects.
type Options struct {
	// GitBinary is the git executable. Empty means git.DefaultBinary.
	GitBinary string
	// Dir is the repository directory.
	Dir string
	// Source is checked only when non-nil.
	Source pullrequest.Source
	// SourceName labels the pull-request checks, e.g. "github".
	SourceName  string
	Credentials pullrequest.Credentials
}

// RunHealthChecks runs all health checks and returns a report. Checks that
// depend on a failed one are skipped.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}

	report.Add(CheckGit(ctx, opts.GitBinary))

	repoCheck := CheckRepository(opts.Dir)
	report.Add(repoCheck)
	if repoCheck.Passed {
		report.Add(CheckTags(opts.Dir))
	}

	if opts.Source != nil {
		report.Add(CheckCredentials(opts.SourceName, opts.Credentials))
		report.Add(CheckPullRequestAccess(ctx, opts.SourceName, opts.Source, opts.Credentials))
	}

	return report
}

// CheckGit runs 'git --version' with the configured binary.
func CheckGit(ctx context.Context, binary string) CheckResult {
	if binary == "" {
		binary = git.DefaultBinary
	}
	out, err := git.NewCLIRunner(binary, "").Run(ctx, "--version")
	if err != nil {
		return CheckResult{
			Name:    "git",
			Passed:  false,
			Message: fmt.Sprintf("%s could not be run: %v", binary, err),
		}
	}
	return CheckResult{
		Name:    "git",
		Passed:  true,
		Message: strings.TrimSpace(out),
	}
}

// CheckRepository verifies that dir is inside a git repository.
func CheckRepository(dir string) CheckResult {
	root, err := git.RepositoryRoot(dir)
	if err != nil {
		return CheckResult{
			Name:    "repository",
			Passed:  false,
			Message: fmt.Sprintf("not a git repository: %s", dir),
		}
	}
	return CheckResult{
		Name:    "repository",
		Passed:  true,
		Message: root,
	}
}

// CheckTags counts the repository's tags. A repository without tags passes:
// its whole history is reported under the head tag.
func CheckTags(dir string) CheckResult {
	names, err := git.TagNames(dir)
	if err != nil {
		return CheckResult{
			Name:    "tags",
			Passed:  false,
			Message: fmt.Sprintf("reading tags: %v", err),
		}
	}
	if len(names) == 0 {
		return CheckResult{
			Name:    "tags",
			Passed:  true,
			Message: "no tags; all commits are listed under the head tag",
		}
	}
	return CheckResult{
		Name:    "tags",
		Passed:  true,
		Message: fmt.Sprintf("%d tags", len(names)),
	}
}

// CheckCredentials reports whether credentials are configured. Anonymous
// access passes, since public repositories need none.
func CheckCredentials(provider string, creds pullrequest.Credentials) CheckResult {
	name := provider + " credentials"
	switch {
	case creds.Token != "":
		return CheckResult{Name: name, Passed: true, Message: "token configured"}
	case creds.Username != "":
		return CheckResult{Name: name, Passed: true, Message: "basic auth for " + creds.Username}
	default:
		return CheckResult{Name: name, Passed: true, Message: "none; anonymous requests are rate limited"}
	}
}

// CheckPullRequestAccess lists the first page of closed pull requests,
// authenticating first when credentials are set.
func CheckPullRequestAccess(ctx context.Context, provider string, source pullrequest.Source, creds pullrequest.Credentials) CheckResult {
	name := provider + " pull requests"

	if !creds.Empty() {
		if err := source.Authenticate(ctx, creds); err != nil {
			return CheckResult{Name: name, Passed: false, Message: accessMessage(err)}
		}
	}

	records, err := source.ListClosed(ctx, 1)
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: accessMessage(err)}
	}
	return CheckResult{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("reachable (%d on the first page)", len(records)),
	}
}

func accessMessage(err error) string {
	var apiErr *pullrequest.HostingAPIError
	if errors.As(err, &apiErr) && apiErr.IsAuth() {
		return "credentials rejected: " + err.Error()
	}
	return err.Error()
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return sb.String()
}
