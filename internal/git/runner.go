package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// ProcessError is returned when git exits with an error or writes anything
// to standard error.
type ProcessError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// CLIRunner runs the git executable. Arguments are passed as an argument
// vector, never through a shell.
type CLIRunner struct {
	// Binary is the executable to run. Empty means DefaultBinary.
	Binary string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra KEY=VALUE entries appended to the process environment.
	Env []string
}

// NewCLIRunner creates a runner for the repository at dir.
func NewCLIRunner(binary, dir string) *CLIRunner {
	return &CLIRunner{Binary: binary, Dir: dir}
}

// Run executes git with args and returns its standard output. Empty output
// is not an error. Any output on standard error fails the call, including
// warnings from a zero exit status.
func (r *CLIRunner) Run(ctx context.Context, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logDebug("[git] running %s %s", binary, strings.Join(args, " "))
	err := cmd.Run()

	if err != nil || stderr.Len() > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
			err = ctxErr
		}
		return "", &ProcessError{Args: args, Stderr: stderr.String(), Err: err}
	}

	return stdout.String(), nil
}
