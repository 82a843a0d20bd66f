package fakefs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/miragefs/miragefs/pkg/fs"
)

// tempBase is where temporary directories live inside a fake filesystem.
const tempBase = "/tmp"

// tempDir tracks one temporary directory inside a fake filesystem and
// removes it, with everything beneath it, on Close. It consumes only
// CreateDirAll and RemoveDirAll.
type tempDir struct {
	fs   *FS
	path string
}

var _ fs.TempDir = (*tempDir)(nil)

// TempDir creates a uniquely named temporary directory whose name starts
// with prefix.
func (f *FS) TempDir(prefix string) (fs.TempDir, error) {
	dir := joinChild(tempBase, fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
	if err := f.CreateDirAll(dir); err != nil {
		return nil, err
	}
	return &tempDir{fs: f, path: dir}, nil
}

// Path returns the absolute path of the temporary directory.
func (d *tempDir) Path() string {
	return d.path
}

// Close deletes the temporary directory and all of its contents.
func (d *tempDir) Close() error {
	return d.fs.RemoveDirAll(d.path)
}
