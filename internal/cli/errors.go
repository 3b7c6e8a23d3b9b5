package cli

import (
	"errors"
	"os/exec"

	"github.com/ariel-frischer/changelogit/internal/changelog"
	clierrors "github.com/ariel-frischer/changelogit/internal/errors"
)

// buildError turns a changelog build failure into a CLIError with remediation.
func buildError(binary string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return clierrors.GitNotFound(binary, err)
	}

	var fetchErr *changelog.RangeFetchError
	var tagErr *changelog.TagListError
	if errors.As(err, &fetchErr) || errors.As(err, &tagErr) {
		return clierrors.HistoryReadFailed(err)
	}

	return err
}
