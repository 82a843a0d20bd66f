package osfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/miragefs/miragefs/pkg/fs"
)

// tempDir tracks one real temporary directory and removes it on Close.
type tempDir struct {
	path string
}

var _ fs.TempDir = (*tempDir)(nil)

// TempDir creates a uniquely named directory under the system temporary
// directory whose name starts with prefix.
func (FS) TempDir(prefix string) (fs.TempDir, error) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrapError(err, dir)
	}
	return &tempDir{path: dir}, nil
}

// Path returns the absolute path of the temporary directory.
func (d *tempDir) Path() string {
	return d.path
}

// Close deletes the temporary directory and all of its contents.
func (d *tempDir) Close() error {
	return os.RemoveAll(d.path)
}
