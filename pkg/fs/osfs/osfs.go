// Package osfs implements the filesystem abstraction as a direct
// pass-through to the operating system: parameter translation over the os
// package, with native failures mapped onto the shared error codes so
// callers can branch on kinds regardless of backend.
//
// Unlike the fake backend, an OS-backed instance shares the process-wide
// working directory.
package osfs

import (
	stderrors "errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/miragefs/miragefs/pkg/fs"
	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// FS is the operating-system-backed filesystem.
type FS struct{}

var (
	_ fs.FileSystem     = FS{}
	_ fs.TempFileSystem = FS{}
)

// New returns an OS-backed filesystem.
func New() FS {
	return FS{}
}

// wrapError maps a native error onto the shared error codes. Failures with
// no code equivalent pass through unchanged.
func wrapError(err error, path string) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, iofs.ErrNotExist):
		return fserrors.NewNotFound(path)
	case stderrors.Is(err, iofs.ErrExist):
		return fserrors.NewAlreadyExists(path)
	case stderrors.Is(err, iofs.ErrPermission):
		return fserrors.NewPermissionDenied(path)
	default:
		return err
	}
}

// Open opens the file at path read-only.
func (FS) Open(path string) (fs.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapError(err, path)
	}
	return &File{f: f}, nil
}

// Create opens the file at path write-only, creating or truncating it.
func (FS) Create(path string) (fs.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, wrapError(err, path)
	}
	return &File{f: f}, nil
}

// OpenWithOptions opens path with the given options. The OS backend passes
// every combination straight through to the operating system; only the fake
// backend restricts the recognized set.
func (FS) OpenWithOptions(path string, options fs.OpenOptions) (fs.File, error) {
	flag := 0
	switch {
	case options.Read && options.Write:
		flag = os.O_RDWR
	case options.Write:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if options.Append {
		flag |= os.O_APPEND
	}
	if options.Create {
		flag |= os.O_CREATE
	}
	if options.CreateNew {
		flag |= os.O_CREATE | os.O_EXCL
	}
	if options.Truncate {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, wrapError(err, path)
	}
	return &File{f: f}, nil
}

// SetPermissions changes the permission bits of the node at path.
func (FS) SetPermissions(path string, perm fs.Permissions) error {
	return wrapError(os.Chmod(path, os.FileMode(perm.Mode())), path)
}

// Metadata stats the node at path.
func (FS) Metadata(path string) (fs.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fs.Metadata{}, wrapError(err, path)
	}
	return metadataFromInfo(info), nil
}

func metadataFromInfo(info iofs.FileInfo) fs.Metadata {
	perm := fs.FromMode(uint32(info.Mode().Perm()))
	return fs.NewMetadata(uint64(info.Size()), info.IsDir(), perm)
}

// CurrentDir returns the process working directory.
func (FS) CurrentDir() (string, error) {
	dir, err := os.Getwd()
	return dir, wrapError(err, "")
}

// SetCurrentDir changes the process working directory.
func (FS) SetCurrentDir(path string) error {
	return wrapError(os.Chdir(path), path)
}

// IsDir reports whether path exists and is a directory.
func (FS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func (FS) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CreateDir creates a new directory at path.
func (FS) CreateDir(path string) error {
	return wrapError(os.Mkdir(path, 0o755), path)
}

// CreateDirAll creates the directory at path along with missing ancestors.
func (FS) CreateDirAll(path string) error {
	return wrapError(os.MkdirAll(path, 0o755), path)
}

// RemoveDir removes the empty directory at path.
func (FS) RemoveDir(path string) error {
	return wrapError(os.Remove(path), path)
}

// RemoveDirAll removes path and everything beneath it.
func (FS) RemoveDirAll(path string) error {
	return wrapError(os.RemoveAll(path), path)
}

// ReadDir lists the immediate children of the directory at path.
func (FS) ReadDir(path string) (*fs.ReadDir, error) {
	children, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapError(err, path)
	}
	entries := make([]fs.DirEntry, 0, len(children))
	for _, child := range children {
		entries = append(entries, fs.NewDirEntry(path, child.Name()))
	}
	return fs.NewReadDir(entries), nil
}

// RemoveFile removes the file at path.
func (FS) RemoveFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapError(err, path)
	}
	if info.IsDir() {
		return fserrors.NewNotFile(path)
	}
	return wrapError(os.Remove(path), path)
}

// CopyFile copies the contents of from to to.
func (f FS) CopyFile(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return wrapError(err, from)
	}
	if info.IsDir() {
		return fserrors.NewInvalidInput("copy source is a directory")
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return wrapError(err, from)
	}
	return f.WriteFile(to, data)
}

// Rename renames a file or directory.
func (FS) Rename(from, to string) error {
	return wrapError(os.Rename(from, to), from)
}

// Canonicalize resolves path to its absolute form with symlinks evaluated.
func (FS) Canonicalize(path string) (string, error) {
	if path == "" {
		return "", fserrors.NewNotFound(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", wrapError(err, path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", wrapError(err, path)
	}
	return resolved, nil
}

// WriteFile writes data to the file at path, creating it if absent.
func (FS) WriteFile(path string, data []byte) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fserrors.NewNotFile(path)
	}
	return wrapError(os.WriteFile(path, data, 0o644), path)
}

// OverwriteFile replaces the contents of the existing file at path.
func (f FS) OverwriteFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapError(err, path)
	}
	if info.IsDir() {
		return fserrors.NewNotFile(path)
	}
	return f.WriteFile(path, data)
}

// ReadFile returns the full contents of the file at path.
func (FS) ReadFile(path string) ([]byte, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fserrors.NewNotFile(path)
	}
	data, err := os.ReadFile(path)
	return data, wrapError(err, path)
}

// ReadFileToString returns the contents of the file at path decoded as
// UTF-8.
func (f FS) ReadFileToString(path string) (string, error) {
	data, err := f.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fserrors.NewInvalidData("file contents are not valid UTF-8")
	}
	return string(data), nil
}
