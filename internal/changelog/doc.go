// Package changelog derives a structured changelog from a repository's tag and commit history.
//
// This package implements:
//   - Parsing of tab-delimited `git log` output into Commit and Tag records
//   - Revision range construction and fetching through a Runner
//   - Tag listing over decorated history
//   - The Builder, which partitions history into per-tag release windows
//
// The package never walks history itself. Every read goes through a Runner,
// which in production is git.CLIRunner executing the git binary.
package changelog
