package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	perr "trove/internal/platform/errors"
)

// FS stores objects as files under a root directory.
// Keys are flattened so a hostile key cannot escape the root.
type FS struct {
	root string
}

// NewFS creates the root directory if needed and returns an FS store
func NewFS(root string) (*FS, error) {
	if strings.TrimSpace(root) == "" {
		return nil, perr.InvalidArgf("blob: empty root dir")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "blob: mkdir %s", root)
	}
	return &FS{root: root}, nil
}

// path flattens the key into a single file name under root
func (f *FS) path(key string) string {
	clean := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(f.root, clean)
}

// Put writes data under key, honoring ctx cancellation before the write
func (f *FS) Put(ctx context.Context, key string, data []byte) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if strings.TrimSpace(key) == "" {
		return Receipt{}, perr.InvalidArgf("blob: empty key")
	}
	p := f.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return Receipt{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "blob: write %s", key)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return Receipt{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "blob: rename %s", key)
	}
	return Receipt{Key: key, Size: int64(len(data))}, nil
}

// Get reads the object stored under key
func (f *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFoundf("blob: %s", key)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "blob: read %s", key)
	}
	return b, nil
}
