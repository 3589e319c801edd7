package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"time"

	"trove/internal/core/scorecard"
	perr "trove/internal/platform/errors"
)

// RepoInfo is the subset of the repository document we score on
type RepoInfo struct {
	FullName        string `json:"full_name"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	OpenIssuesCount int    `json:"open_issues_count"`
	PushedAt        string `json:"pushed_at"`
	License         *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

// Repo fetches the repository document for owner/repo
func (c *Client) Repo(ctx context.Context, owner, repo string) (RepoInfo, error) {
	var out RepoInfo
	err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &out)
	return out, err
}

// Signals gathers everything the scorer needs for one repository.
// The repository document is mandatory; the richer signals (contributors,
// pull requests, issues, dependency pinning) are fetched best-effort and
// degrade to their unknown sentinels when a sub-fetch fails
func (c *Client) Signals(ctx context.Context, owner, repo string) (scorecard.Signals, error) {
	info, err := c.Repo(ctx, owner, repo)
	if err != nil {
		return scorecard.Signals{}, err
	}

	sig := scorecard.Signals{
		Stars:              info.StargazersCount,
		Forks:              info.ForksCount,
		OpenIssues:         info.OpenIssuesCount,
		DaysSincePush:      -1,
		ReviewedPRFraction: -1,
		IssueResponseDays:  -1,
		PinnedDepFraction:  -1,
	}
	if info.License != nil {
		sig.License = info.License.SPDXID
	}
	if t, err := time.Parse(time.RFC3339, info.PushedAt); err == nil {
		sig.DaysSincePush = int(c.now().Sub(t).Hours() / 24)
	}

	if n, err := c.contributorCount(ctx, owner, repo); err == nil {
		sig.Contributors = n
	} else {
		c.log.Debug().Err(err).Msg("contributor fetch failed, scoring without")
	}
	if f, err := c.reviewedPRFraction(ctx, owner, repo); err == nil {
		sig.ReviewedPRFraction = f
	} else {
		c.log.Debug().Err(err).Msg("pull request fetch failed, scoring without")
	}
	if d, err := c.issueResponseDays(ctx, owner, repo); err == nil {
		sig.IssueResponseDays = d
	} else {
		c.log.Debug().Err(err).Msg("issue fetch failed, scoring without")
	}
	if p, err := c.pinnedDepFraction(ctx, owner, repo); err == nil {
		sig.PinnedDepFraction = p
	} else {
		c.log.Debug().Err(err).Msg("dependency manifest fetch failed, scoring without")
	}
	return sig, nil
}

// contributorCount reports distinct committers, capped at one page
func (c *Client) contributorCount(ctx context.Context, owner, repo string) (int, error) {
	var out []struct {
		Login string `json:"login"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/contributors?per_page=30", owner, repo), &out); err != nil {
		return 0, err
	}
	return len(out), nil
}

// reviewedPRFraction samples recent closed pull requests and reports the
// share that landed with at least one review
func (c *Client) reviewedPRFraction(ctx context.Context, owner, repo string) (float64, error) {
	var pulls []struct {
		Number   int    `json:"number"`
		MergedAt string `json:"merged_at"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/pulls?state=closed&per_page=10", owner, repo), &pulls); err != nil {
		return -1, err
	}

	merged, reviewed := 0, 0
	for _, p := range pulls {
		if p.MergedAt == "" {
			continue
		}
		merged++
		var reviews []struct {
			ID int64 `json:"id"`
		}
		path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews?per_page=1", owner, repo, p.Number)
		if err := c.getJSON(ctx, path, &reviews); err != nil {
			continue
		}
		if len(reviews) > 0 {
			reviewed++
		}
	}
	if merged == 0 {
		return -1, nil
	}
	return float64(reviewed) / float64(merged), nil
}

// issueResponseDays reports the median close latency of recent closed issues
func (c *Client) issueResponseDays(ctx context.Context, owner, repo string) (float64, error) {
	var issues []struct {
		CreatedAt   string `json:"created_at"`
		ClosedAt    string `json:"closed_at"`
		PullRequest *struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/issues?state=closed&per_page=20", owner, repo), &issues); err != nil {
		return -1, err
	}

	var days []float64
	for _, is := range issues {
		if is.PullRequest != nil {
			continue // the issues endpoint interleaves PRs
		}
		created, err1 := time.Parse(time.RFC3339, is.CreatedAt)
		closed, err2 := time.Parse(time.RFC3339, is.ClosedAt)
		if err1 != nil || err2 != nil {
			continue
		}
		days = append(days, closed.Sub(created).Hours()/24)
	}
	if len(days) == 0 {
		return -1, nil
	}
	sort.Float64s(days)
	return days[len(days)/2], nil
}

// pinnedRe accepts exact major.minor(.patch) requirements with no range operator
var pinnedRe = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// pinnedDepFraction reads the repository's own dependency manifest and
// reports the share of runtime dependencies pinned to an exact version
func (c *Client) pinnedDepFraction(ctx context.Context, owner, repo string) (float64, error) {
	var out struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/contents/package.json", owner, repo), &out); err != nil {
		return -1, err
	}
	if out.Encoding != "base64" {
		return -1, perr.UpstreamParsef("unexpected contents encoding %q", out.Encoding)
	}
	raw, err := base64.StdEncoding.DecodeString(out.Content)
	if err != nil {
		// GitHub wraps base64 at 60 cols
		raw, err = base64.StdEncoding.DecodeString(stripNewlines(out.Content))
		if err != nil {
			return -1, perr.UpstreamParsef("contents not decodable: %v", err)
		}
	}

	var manifest struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return -1, perr.UpstreamParsef("dependency manifest not parseable: %v", err)
	}
	if len(manifest.Dependencies) == 0 {
		return -1, nil // nothing to pin
	}
	pinned := 0
	for _, req := range manifest.Dependencies {
		if pinnedRe.MatchString(req) {
			pinned++
		}
	}
	return float64(pinned) / float64(len(manifest.Dependencies)), nil
}

func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// getJSON fetches path from the API base and decodes the body into v
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "github read body")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return perr.UpstreamParsef("github decode %s: %v", path, err)
	}
	return nil
}
