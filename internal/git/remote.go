package git

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	httpsRemoteRe = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/\s]+)$`)
	sshURLRe      = regexp.MustCompile(`^ssh://[^/]+/([^/]+)/([^/\s]+)$`)
	scpRemoteRe   = regexp.MustCompile(`^[^@/]+@[^:]+:([^/]+)/([^/\s]+)$`)
)

// ParseRemoteURL extracts owner and repository name from a remote URL in
// HTTPS, ssh:// or scp-like (git@host:owner/repo) form.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(url), "/"), ".git")

	for _, re := range []*regexp.Regexp{httpsRemoteRe, sshURLRe, scpRemoteRe} {
		if m := re.FindStringSubmatch(trimmed); len(m) == 3 {
			return m[1], m[2], nil
		}
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
