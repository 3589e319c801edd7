package github

import "testing"

func TestParseRepoURL(t *testing.T) {
	cases := []struct {
		in          string
		owner, repo string
		ok          bool
	}{
		{"https://github.com/acme/widget", "acme", "widget", true},
		{"https://github.com/acme/widget.git", "acme", "widget", true},
		{"git://github.com/acme/widget.git", "acme", "widget", true},
		{"git@github.com:acme/widget.git", "acme", "widget", true},
		{"https://github.com/acme/widget/", "acme", "widget", true},
		{"https://example.com/acme/widget", "", "", false},
		{"not a url at all", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		owner, repo, ok := ParseRepoURL(tc.in)
		if ok != tc.ok || owner != tc.owner || repo != tc.repo {
			t.Fatalf("ParseRepoURL(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, owner, repo, ok, tc.owner, tc.repo, tc.ok)
		}
	}
}

func TestIsRegistryURL(t *testing.T) {
	if !IsRegistryURL("https://www.npmjs.com/package/left-pad") {
		t.Fatalf("npm package page should be a registry url")
	}
	if !IsRegistryURL("https://npmjs.org/package/@scope/name") {
		t.Fatalf("scoped npm package page should be a registry url")
	}
	if IsRegistryURL("https://github.com/acme/widget") {
		t.Fatalf("source host is not a registry url")
	}
}
