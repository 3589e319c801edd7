package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	perr "trove/internal/platform/errors"
)

const npmRegistryBase = "https://registry.npmjs.org"

// npmPackageRe matches package pages on the npm registry website
var npmPackageRe = regexp.MustCompile(`npmjs\.(?:com|org)/package/((?:@[^/]+/)?[^/?#]+)`)

// IsRegistryURL reports whether url points at a package-registry page
// rather than a source host
func IsRegistryURL(url string) bool { return npmPackageRe.MatchString(url) }

// ResolveRegistryURL resolves a package-registry URL to the source-host URL
// embedded in the registry's package document, then the caller proceeds with
// the usual owner/repo parse. The document shape follows the public npm
// registry: {"repository": {"url": "..."} } or a bare string
func (c *Client) ResolveRegistryURL(ctx context.Context, url string) (string, error) {
	m := npmPackageRe.FindStringSubmatch(url)
	if m == nil {
		return "", perr.InvalidArgf("not a registry package url: %s", url)
	}
	name := m[1]

	base := c.registryBase
	if base == "" {
		base = npmRegistryBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s", base, name), nil)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "registry new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "registry fetch %s", name)
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	if resp.StatusCode != http.StatusOK {
		return "", perr.Upstreamf("registry fetch %s: status %d", name, resp.StatusCode)
	}

	var doc struct {
		Repository json.RawMessage `json:"repository"`
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "registry read %s", name)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return "", perr.UpstreamParsef("registry decode %s: %v", name, err)
	}

	link := repositoryLink(doc.Repository)
	if link == "" {
		return "", perr.UpstreamParsef("registry document for %s has no repository link", name)
	}
	return link, nil
}

// repositoryLink accepts both the object and bare-string repository forms
func repositoryLink(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return normalizeRepoLink(s)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return normalizeRepoLink(obj.URL)
	}
	return ""
}

func normalizeRepoLink(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "git+")
	if rest, ok := strings.CutPrefix(s, "github:"); ok {
		s = "https://github.com/" + rest
	}
	return strings.TrimSuffix(s, ".git")
}
