// Package archive extracts package metadata from uploaded zip archives
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"

	perr "trove/internal/platform/errors"
)

// ManifestName is the descriptor file looked for inside uploads
const ManifestName = "package.json"

// maxManifestBytes bounds how much of a manifest entry we are willing to decode
const maxManifestBytes = 1 << 20

// Manifest is the decoded package descriptor
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// Repository is either {"url": "..."} or a bare string; kept raw here
	Repository json.RawMessage `json:"repository"`
}

// manifestLocator is one strategy for finding the manifest entry.
// Tried in order: exact root name first, then any entry path ending in the
// manifest filename (manifests nested one directory down are common).
type manifestLocator func(files []*zip.File) *zip.File

var locators = []manifestLocator{
	func(files []*zip.File) *zip.File {
		for _, f := range files {
			if f.Name == ManifestName {
				return f
			}
		}
		return nil
	},
	func(files []*zip.File) *zip.File {
		for _, f := range files {
			if strings.HasSuffix(f.Name, "/"+ManifestName) {
				return f
			}
		}
		return nil
	},
}

// ReadManifest opens the archive and decodes its manifest
func ReadManifest(data []byte) (*Manifest, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformedArchive, "not a readable zip archive")
	}

	var entry *zip.File
	for _, locate := range locators {
		if entry = locate(zr.File); entry != nil {
			break
		}
	}
	if entry == nil {
		return nil, perr.MalformedArchivef("no %s found in archive", ManifestName)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformedArchive, "open %s", entry.Name)
	}
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(io.LimitReader(rc, maxManifestBytes))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformedArchive, "read %s", entry.Name)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformedArchive, "parse %s", entry.Name)
	}
	return &m, nil
}

// RepoURL extracts the declared source-repository URL from the manifest.
// Accepts both the {"url": ...} object form and a bare string, normalizes a
// github:owner/repo shorthand, and strips a trailing .git suffix
func (m *Manifest) RepoURL() (string, error) {
	if len(m.Repository) == 0 {
		return "", perr.MalformedArchivef("manifest has no repository field")
	}

	var s string
	if err := json.Unmarshal(m.Repository, &s); err != nil {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(m.Repository, &obj); err != nil || obj.URL == "" {
			return "", perr.MalformedArchivef("manifest repository field has no usable url")
		}
		s = obj.URL
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", perr.MalformedArchivef("manifest repository url is empty")
	}
	if rest, ok := strings.CutPrefix(s, "github:"); ok {
		s = "https://github.com/" + rest
	}
	return strings.TrimSuffix(s, ".git"), nil
}
