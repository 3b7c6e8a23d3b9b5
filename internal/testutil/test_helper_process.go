// Package testutil provides test utilities and helpers for changelogit tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// HelperProcessConfig configures the behavior of a helper process standing in for git.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
}

// HelperProcessEnvVars contains the environment variable names used by helper processes.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
	// EnvHelperProcessArgsFile names a file that receives the invocation arguments as JSON.
	EnvHelperProcessArgsFile = "GO_HELPER_PROCESS_ARGS_FILE"
)

// RunHelperProcessIfRequested turns the running test binary into a fake git
// when GO_WANT_HELPER_PROCESS=1 is set. Call it first thing in TestMain.
// It returns normally when the variable is unset.
//
//	func TestMain(m *testing.M) {
//	    testutil.RunHelperProcessIfRequested()
//	    os.Exit(m.Run())
//	}
func RunHelperProcessIfRequested() {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	recordArgs(os.Args[1:])
	runHelperProcess(parseHelperConfig())
}

// parseHelperConfig parses HelperProcessConfig from environment variable.
func parseHelperConfig() HelperProcessConfig {
	config := HelperProcessConfig{}
	configJSON := os.Getenv(EnvHelperProcessConfig)
	if configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}
	return config
}

func recordArgs(args []string) {
	path := os.Getenv(EnvHelperProcessArgsFile)
	if path == "" {
		return
	}
	if data, err := json.Marshal(args); err == nil {
		_ = os.WriteFile(path, data, 0o644)
	}
}

// runHelperProcess executes the helper process behavior and always exits.
func runHelperProcess(config HelperProcessConfig) {
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}

	os.Exit(config.ExitCode)
}

// HelperProcess describes a fake git: the binary to run and the environment
// entries that select its behavior.
type HelperProcess struct {
	Binary   string
	Env      []string
	argsFile string
}

// NewHelperProcess prepares the current test binary to act as git with the
// given behavior. The calling package's TestMain must call
// RunHelperProcessIfRequested.
func NewHelperProcess(t *testing.T, config HelperProcessConfig) *HelperProcess {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}

	argsFile := filepath.Join(t.TempDir(), "args.json")

	return &HelperProcess{
		Binary: testBinary,
		Env: []string{
			EnvWantHelperProcess + "=1",
			EnvHelperProcessConfig + "=" + string(configJSON),
			EnvHelperProcessArgsFile + "=" + argsFile,
		},
		argsFile: argsFile,
	}
}

// Args returns the arguments of the most recent invocation, or nil if the
// helper was never run.
func (h *HelperProcess) Args(t *testing.T) []string {
	t.Helper()

	data, err := os.ReadFile(h.argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading helper args: %v", err)
	}

	var args []string
	if err := json.Unmarshal(data, &args); err != nil {
		t.Fatalf("parsing helper args: %v", err)
	}
	return args
}
