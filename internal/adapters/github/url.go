package github

import (
	"regexp"
	"strings"
)

// repoRefRe matches GitHub-style repository URLs: any host containing
// github.com, an owner/repo path, an optional .git suffix, and the
// SSH-style colon separator (git@github.com:owner/repo)
var repoRefRe = regexp.MustCompile(`github\.com[:/]+([^/:\s]+)/([^/:\s]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts {owner, repo} from a GitHub-style URL.
// A URL that does not match the expected shape is a recoverable validation
// failure: ok is false and the caller decides what to do, nothing panics
func ParseRepoURL(url string) (owner, repo string, ok bool) {
	m := repoRefRe.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
