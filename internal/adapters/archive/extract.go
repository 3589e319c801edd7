package archive

import (
	"github.com/google/uuid"
)

// Metadata identifies one ingested package. ID is generated fresh at
// extraction time and is the durable identity all downstream records hang off
type Metadata struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Extract reads the manifest out of raw archive bytes and mints a new identity.
// Name/version presence is the caller's concern: an upload may legitimately be
// inspected before being rejected for missing fields
func Extract(data []byte) (Metadata, *Manifest, error) {
	m, err := ReadManifest(data)
	if err != nil {
		return Metadata{}, nil, err
	}
	return Metadata{
		ID:      uuid.NewString(),
		Name:    m.Name,
		Version: m.Version,
	}, m, nil
}
