// Package fakefs implements the in-memory filesystem: a deterministic,
// hermetic test double that reproduces operating-system semantics around
// open handles, permissions and path manipulation without touching the real
// filesystem.
//
// Every FS instance owns its own node store and working directory, so any
// number of independent fake filesystems can coexist in one process, which
// is exactly what isolated tests need. State is process-local and volatile;
// nothing persists.
package fakefs

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/miragefs/miragefs/pkg/fs"
	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// FS is the thread-safe entry point to one fake filesystem. Copies of an FS
// share the same underlying state; use New for an independent instance.
//
// One mutex guards the registry for the duration of exactly one public
// operation, so multi-step operations such as recursive removal or a
// subtree rename appear atomic to concurrent callers. Open handles perform
// no FS-level locking after creation.
type FS struct {
	state *state
}

type state struct {
	mu  sync.Mutex
	reg *registry
}

var (
	_ fs.FileSystem     = (*FS)(nil)
	_ fs.TempFileSystem = (*FS)(nil)
)

// New creates an empty fake filesystem containing only the root directory,
// which is also the initial working directory.
func New() *FS {
	return &FS{state: &state{reg: newRegistry()}}
}

// resolve joins a relative path onto the working directory and normalizes
// the result. Callers must hold the state mutex.
func (f *FS) resolve(p string) string {
	return normalizePath(f.state.reg.cwd, p)
}

// ============================================================================
// Open / Create
// ============================================================================

// Open opens the file at path in read-only mode. The returned handle clones
// the file's content cell and operates independently of the registry for
// its whole lifetime.
func (f *FS) Open(p string) (fs.File, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	n, err := f.state.reg.getFileReadable(f.resolve(p))
	if err != nil {
		return nil, err
	}
	return newFile(n, accessRead), nil
}

// Create opens the file at path in write-only mode, creating it if absent
// and truncating it if present.
func (f *FS) Create(p string) (fs.File, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.createLocked(f.resolve(p))
}

func (f *FS) createLocked(abs string) (fs.File, error) {
	if err := f.state.reg.writeFile(abs, nil); err != nil {
		return nil, err
	}
	n, err := f.state.reg.getFileWritable(abs)
	if err != nil {
		return nil, err
	}
	return newFile(n, accessWrite), nil
}

// openWritable opens an existing file write-only without modifying it; the
// cursor starts at zero and the contents are preserved.
func (f *FS) openWritable(p string) (fs.File, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	n, err := f.state.reg.getFileWritable(f.resolve(p))
	if err != nil {
		return nil, err
	}
	return newFile(n, accessWrite), nil
}

// createNew creates a file write-only, failing AlreadyExists if the path is
// present. Presence is probed in a way that works even without access to
// the node itself.
func (f *FS) createNew(p string) (fs.File, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	abs := f.resolve(p)
	if _, err := f.state.reg.readonly(abs); err == nil {
		return nil, fserrors.NewAlreadyExists(abs)
	}
	return f.createLocked(abs)
}

// overwrite truncates an existing writable file on open; it fails if the
// file does not exist.
func (f *FS) overwrite(p string) (fs.File, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	abs := f.resolve(p)
	if err := f.state.reg.overwriteFile(abs, nil); err != nil {
		return nil, err
	}
	n, err := f.state.reg.getFileWritable(abs)
	if err != nil {
		return nil, err
	}
	return newFile(n, accessWrite), nil
}

// OpenWithOptions opens path with one of the recognized option
// combinations; any other combination fails InvalidInput.
func (f *FS) OpenWithOptions(p string, options fs.OpenOptions) (fs.File, error) {
	switch options {
	case fs.OpenOptions{Create: true, Truncate: true, Write: true}:
		return f.Create(p)
	case fs.OpenOptions{Read: true}:
		return f.Open(p)
	case fs.OpenOptions{Write: true}:
		return f.openWritable(p)
	case fs.OpenOptions{CreateNew: true, Write: true}:
		return f.createNew(p)
	case fs.OpenOptions{Truncate: true, Write: true}:
		return f.overwrite(p)
	default:
		return nil, fserrors.NewInvalidInput("unsupported open option combination")
	}
}

// ============================================================================
// Metadata / Permissions
// ============================================================================

// Dir length reported by metadata snapshots, matching the conventional
// block size real filesystems report for directories.
const dirMetadataLen = 4096

// Metadata returns a detached snapshot for the node at path.
func (f *FS) Metadata(p string) (fs.Metadata, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	abs := f.resolve(p)
	mode, err := f.state.reg.modeOf(abs)
	if err != nil {
		return fs.Metadata{}, err
	}
	if f.state.reg.isFile(abs) {
		n, err := f.state.reg.getFile(abs)
		if err != nil {
			return fs.Metadata{}, err
		}
		return fs.NewMetadata(uint64(n.contents.length()), false, fs.FromMode(mode)), nil
	}
	return fs.NewMetadata(dirMetadataLen, true, fs.FromMode(mode)), nil
}

// SetPermissions replaces the permission word of the node at path.
func (f *FS) SetPermissions(p string, perm fs.Permissions) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.setMode(f.resolve(p), perm.Mode())
}

// ============================================================================
// Working Directory
// ============================================================================

// CurrentDir returns the working directory of this instance.
func (f *FS) CurrentDir() (string, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.currentDir()
}

// SetCurrentDir updates the working directory; the target must exist as a
// directory.
func (f *FS) SetCurrentDir(p string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.setCurrentDir(f.resolve(p))
}

// ============================================================================
// Directory Operations
// ============================================================================

// IsDir reports whether path exists and is a directory.
func (f *FS) IsDir(p string) bool {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.isDir(f.resolve(p))
}

// IsFile reports whether path exists and is a regular file.
func (f *FS) IsFile(p string) bool {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.isFile(f.resolve(p))
}

// CreateDir creates a new directory at path; the parent must exist as a
// writable directory.
func (f *FS) CreateDir(p string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.createDir(f.resolve(p))
}

// CreateDirAll creates the directory at path along with any missing
// ancestors.
func (f *FS) CreateDirAll(p string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.createDirAll(f.resolve(p))
}

// RemoveDir removes the empty directory at path.
func (f *FS) RemoveDir(p string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.removeDir(f.resolve(p))
}

// RemoveDirAll removes the directory at path with everything beneath it,
// all-or-nothing.
func (f *FS) RemoveDirAll(p string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.removeDirAll(f.resolve(p))
}

// ReadDir lists the immediate children of the directory at path. Entry
// paths are built from the path as given, so a relative path yields
// relative entry paths.
func (f *FS) ReadDir(p string) (*fs.ReadDir, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	children, err := f.state.reg.readDir(f.resolve(p))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(children))
	for _, child := range children {
		entries = append(entries, fs.NewDirEntry(p, baseName(child)))
	}
	return fs.NewReadDir(entries), nil
}

// ============================================================================
// File Operations
// ============================================================================

// RemoveFile removes the file at path. Handles already open on the file
// keep their cloned content cell.
func (f *FS) RemoveFile(p string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.removeFile(f.resolve(p))
}

// CopyFile copies the contents of from to to.
func (f *FS) CopyFile(from, to string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.copyFile(f.resolve(from), f.resolve(to))
}

// Rename renames a file or directory, carrying all descendants on a
// directory move.
func (f *FS) Rename(from, to string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.rename(f.resolve(from), f.resolve(to))
}

// WriteFile writes data to the file at path, creating it if absent.
func (f *FS) WriteFile(p string, data []byte) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.writeFile(f.resolve(p), data)
}

// OverwriteFile replaces the contents of the existing writable file at
// path.
func (f *FS) OverwriteFile(p string, data []byte) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.overwriteFile(f.resolve(p), data)
}

// ReadFile returns a detached copy of the contents of the readable file at
// path.
func (f *FS) ReadFile(p string) ([]byte, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	return f.state.reg.readFile(f.resolve(p))
}

// ReadFileToString returns the contents of the file at path decoded as
// UTF-8.
func (f *FS) ReadFileToString(p string) (string, error) {
	data, err := f.ReadFile(p)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fserrors.NewInvalidData("file contents are not valid UTF-8")
	}
	return string(data), nil
}

// ============================================================================
// Canonicalization
// ============================================================================

// Canonicalize resolves path component by component against the registry,
// verifying existence at every step. The empty path always fails NotFound
// regardless of state.
func (f *FS) Canonicalize(p string) (string, error) {
	if p == "" {
		return "", fserrors.NewNotFound(p)
	}

	f.state.mu.Lock()
	defer f.state.mu.Unlock()

	// The raw join keeps ".." components intact: collapsing them lexically
	// would skip the existence check on the popped directory.
	abs := p
	if !strings.HasPrefix(p, "/") {
		abs = f.state.reg.cwd + "/" + p
	}
	return f.state.reg.canonicalizePath(abs)
}

// ============================================================================
// Path Normalization
// ============================================================================

// normalizePath joins p onto cwd when relative and normalizes the result to
// a clean absolute slash path.
func normalizePath(cwd, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = cwd + "/" + p
	}
	return cleanPath(p)
}

// cleanPath normalizes an absolute slash path: duplicate separators and "."
// components are dropped and ".." components collapse, clamped at the root.
func cleanPath(p string) string {
	result := rootPath
	for _, component := range strings.Split(p, "/") {
		switch component {
		case "", ".":
		case "..":
			result = parentPath(result)
		default:
			result = joinChild(result, component)
		}
	}
	return result
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
