package fakefs

import (
	"path"
	"sort"
	"strings"

	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// registry is the path-addressed node store: the algorithmic heart of the
// fake filesystem. It owns the working-directory pointer and the map from
// absolute, normalized slash paths to nodes.
//
// The registry itself is not safe for concurrent use; the FakeFS facade
// guards it with one mutex held for the duration of exactly one public
// operation, so multi-step operations (recursive removal, subtree rename)
// appear atomic to other callers. Every method expects absolute paths; the
// facade resolves relative paths against the working directory first.
//
// Invariants: the root path always exists as a Dir and is never removable;
// every non-root entry's parent, if present, is a Dir (enforced at insert
// time).
type registry struct {
	cwd   string
	nodes map[string]*node
}

const rootPath = "/"

func newRegistry() *registry {
	return &registry{
		cwd: rootPath,
		nodes: map[string]*node{
			rootPath: newDirNode(),
		},
	}
}

// ============================================================================
// Working Directory
// ============================================================================

func (r *registry) currentDir() (string, error) {
	if _, err := r.getDir(r.cwd); err != nil {
		return "", err
	}
	return r.cwd, nil
}

func (r *registry) setCurrentDir(cwd string) error {
	if _, err := r.getDir(cwd); err != nil {
		return err
	}
	r.cwd = cwd
	return nil
}

// ============================================================================
// Existence Checks
// ============================================================================

func (r *registry) isDir(p string) bool {
	n, ok := r.nodes[p]
	return ok && n.isDir()
}

func (r *registry) isFile(p string) bool {
	n, ok := r.nodes[p]
	return ok && n.isFile()
}

// ============================================================================
// Directory Operations
// ============================================================================

func (r *registry) createDir(p string) error {
	return r.insert(p, newDirNode())
}

// createDirAll ensures every component of p exists as a directory, walking
// the ancestor chain root-first as an explicit worklist. Components that
// already exist as directories are tolerated; an existing file anywhere in
// the chain is a non-directory obstruction.
func (r *registry) createDirAll(p string) error {
	if p == "" {
		return nil
	}

	chain := ancestorChain(p)
	for i, prefix := range chain {
		if n, ok := r.nodes[prefix]; ok {
			if n.isDir() {
				continue
			}
			if i == len(chain)-1 {
				return fserrors.NewAlreadyExists(prefix)
			}
			return fserrors.NewNotDirectory(prefix)
		}
		if err := r.createDir(prefix); err != nil {
			return err
		}
	}
	return nil
}

// removeDir removes the empty directory at p. Removal is strictly
// non-recursive: any descendant entry, direct or indirect, fails it.
func (r *registry) removeDir(p string) error {
	if p == rootPath {
		return fserrors.NewPermissionDenied(p)
	}
	if _, err := r.getDir(p); err != nil {
		return err
	}
	if len(r.descendants(p)) > 0 {
		return fserrors.NewNotEmpty(p)
	}
	_, err := r.remove(p)
	return err
}

// removeDirAll removes the directory at p and every descendant. The target
// must be writable, and every descendant at any depth must be readable; the
// full readability pre-check completes before anything is deleted, so a
// permission failure leaves the tree untouched.
func (r *registry) removeDirAll(p string) error {
	if p == rootPath {
		return fserrors.NewPermissionDenied(p)
	}
	if _, err := r.getDirWritable(p); err != nil {
		return err
	}

	descendants := r.descendants(p)
	for _, d := range descendants {
		if r.nodes[d].mode.get()&readMask == 0 {
			return fserrors.NewPermissionDenied(d)
		}
	}

	for _, d := range descendants {
		delete(r.nodes, d)
	}
	delete(r.nodes, p)
	return nil
}

// readDir returns the immediate children of the directory at p, sorted by
// path for deterministic listings.
func (r *registry) readDir(p string) ([]string, error) {
	if _, err := r.getDir(p); err != nil {
		return nil, err
	}
	return r.children(p), nil
}

// ============================================================================
// File Operations
// ============================================================================

// createFile inserts a brand-new file node, minting a fresh contents cell.
// Handles that were open on a previously removed file at the same path keep
// their old cell.
func (r *registry) createFile(p string, data []byte) error {
	return r.insert(p, newFileNode(data))
}

// writeFile creates-or-replaces: create semantics if the path is absent,
// full in-place content replacement (same cell, observed by open handles)
// if present and writable.
func (r *registry) writeFile(p string, data []byte) error {
	n, err := r.getFileWritable(p)
	if err != nil {
		if fserrors.IsNotFound(err) {
			return r.createFile(p, data)
		}
		return err
	}
	n.contents.replace(data)
	return nil
}

// overwriteFile replaces the contents of an existing writable file; unlike
// writeFile it propagates NotFound.
func (r *registry) overwriteFile(p string, data []byte) error {
	n, err := r.getFileWritable(p)
	if err != nil {
		return err
	}
	n.contents.replace(data)
	return nil
}

func (r *registry) readFile(p string) ([]byte, error) {
	n, err := r.getFileReadable(p)
	if err != nil {
		return nil, err
	}
	return n.contents.snapshot(), nil
}

func (r *registry) removeFile(p string) error {
	if _, err := r.getFile(p); err != nil {
		return err
	}
	_, err := r.remove(p)
	return err
}

// copyFile snapshots from and writes the snapshot to to. A directory as the
// copy source surfaces InvalidInput, while a directory as the destination
// keeps the generic not-a-file kind; the asymmetry matches the copy
// contract and is deliberate.
func (r *registry) copyFile(from, to string) error {
	data, err := r.readFile(from)
	if err != nil {
		if fserrors.IsUnsupported(err) {
			return fserrors.NewInvalidInput("copy source is a directory")
		}
		return err
	}
	return r.writeFile(to, data)
}

// ============================================================================
// Rename
// ============================================================================

// rename moves a file or directory by case analysis on the variant pair.
// Files replace existing files; directories replace existing empty
// directories and carry their whole subtree; every other pairing is a
// type-mismatch or non-empty failure.
func (r *registry) rename(from, to string) error {
	fromNode, err := r.get(from)
	if err != nil {
		return err
	}
	// Renaming an entry onto itself is a successful no-op, as on POSIX.
	if from == to {
		return nil
	}
	toNode, toErr := r.get(to)
	if toErr != nil && !fserrors.IsNotFound(toErr) {
		return toErr
	}
	toAbsent := toErr != nil

	switch {
	case fromNode.isFile() && toAbsent:
		return r.rekey(from, to)

	case fromNode.isFile() && toNode.isFile():
		// The destination is replaced by remove-then-rekey, so every
		// precondition of the rekey is verified before the removal.
		// A failure after the removal would leave the tree mutated.
		if _, err := r.getDirWritable(parentPath(to)); err != nil {
			return err
		}
		if err := r.removeFile(to); err != nil {
			return err
		}
		return r.rekey(from, to)

	case fromNode.isDir() && toAbsent:
		return r.moveDir(from, to)

	case fromNode.isDir() && toNode.isDir() && len(r.descendants(to)) == 0:
		// Same all-or-nothing discipline: the moveDir preconditions are
		// verified before the empty destination is removed.
		if from == rootPath {
			return fserrors.NewPermissionDenied(from)
		}
		if isDescendantPath(to, from) {
			return fserrors.NewInvalidInput("cannot move a directory into itself")
		}
		if _, err := r.getDirWritable(parentPath(to)); err != nil {
			return err
		}
		if _, err := r.remove(to); err != nil {
			return err
		}
		return r.moveDir(from, to)

	default:
		// file <-> dir in either direction, or dir -> non-empty dir.
		return fserrors.NewUnsupported("rename: incompatible source and destination")
	}
}

// rekey moves one entry to a new key. The insert preconditions are checked
// before the entry is removed so that a failure leaves the map untouched.
func (r *registry) rekey(from, to string) error {
	if err := r.checkInsert(to); err != nil {
		return err
	}
	n, err := r.remove(from)
	if err != nil {
		return err
	}
	r.nodes[to] = n
	return nil
}

// moveDir re-keys a whole subtree by prefix substitution: one map re-key
// per descendant, order-independent, with no per-descendant permission
// checks. The descendant list is snapshotted before the first mutation.
func (r *registry) moveDir(from, to string) error {
	if from == rootPath {
		return fserrors.NewPermissionDenied(from)
	}
	if isDescendantPath(to, from) {
		return fserrors.NewInvalidInput("cannot move a directory into itself")
	}

	descendants := r.descendants(from)
	if err := r.rekey(from, to); err != nil {
		return err
	}
	for _, child := range descendants {
		moved := to + strings.TrimPrefix(child, from)
		r.nodes[moved] = r.nodes[child]
		delete(r.nodes, child)
	}
	return nil
}

// ============================================================================
// Permissions
// ============================================================================

func (r *registry) readonly(p string) (bool, error) {
	n, err := r.get(p)
	if err != nil {
		return false, err
	}
	return !n.mode.canWrite(), nil
}

func (r *registry) setReadonly(p string, readonly bool) error {
	n, err := r.get(p)
	if err != nil {
		return err
	}
	n.mode.setReadonly(readonly)
	return nil
}

func (r *registry) modeOf(p string) (uint32, error) {
	n, err := r.get(p)
	if err != nil {
		return 0, err
	}
	return n.mode.get(), nil
}

func (r *registry) setMode(p string, mode uint32) error {
	n, err := r.get(p)
	if err != nil {
		return err
	}
	n.mode.set(mode)
	return nil
}

// ============================================================================
// Canonicalization
// ============================================================================

// canonicalizePath walks p component by component from the root, popping on
// ".." (clamped at the root, whose parent is itself) and pushing otherwise.
// Every intermediate accumulated path must resolve to an existing
// directory; the final one must resolve to an existing entry of any kind.
func (r *registry) canonicalizePath(p string) (string, error) {
	components := splitComponents(p)
	if len(components) == 0 {
		if _, err := r.get(rootPath); err != nil {
			return "", err
		}
		return rootPath, nil
	}

	sane := rootPath
	for i, component := range components {
		if component == ".." {
			sane = parentPath(sane)
		} else {
			sane = joinChild(sane, component)
		}
		if i == len(components)-1 {
			if _, err := r.get(sane); err != nil {
				return "", err
			}
		} else {
			if _, err := r.getDir(sane); err != nil {
				return "", err
			}
		}
	}
	return sane, nil
}

// ============================================================================
// Node Accessors
// ============================================================================

func (r *registry) get(p string) (*node, error) {
	n, ok := r.nodes[p]
	if !ok {
		return nil, fserrors.NewNotFound(p)
	}
	return n, nil
}

func (r *registry) getDir(p string) (*node, error) {
	n, err := r.get(p)
	if err != nil {
		return nil, err
	}
	if !n.isDir() {
		return nil, fserrors.NewNotDirectory(p)
	}
	return n, nil
}

func (r *registry) getDirWritable(p string) (*node, error) {
	n, err := r.getDir(p)
	if err != nil {
		return nil, err
	}
	if !n.mode.canWrite() {
		return nil, fserrors.NewPermissionDenied(p)
	}
	return n, nil
}

func (r *registry) getFile(p string) (*node, error) {
	n, err := r.get(p)
	if err != nil {
		return nil, err
	}
	if !n.isFile() {
		return nil, fserrors.NewNotFile(p)
	}
	return n, nil
}

func (r *registry) getFileReadable(p string) (*node, error) {
	n, err := r.getFile(p)
	if err != nil {
		return nil, err
	}
	if !n.mode.canRead() {
		return nil, fserrors.NewPermissionDenied(p)
	}
	return n, nil
}

func (r *registry) getFileWritable(p string) (*node, error) {
	n, err := r.getFile(p)
	if err != nil {
		return nil, err
	}
	if !n.mode.canWrite() {
		return nil, fserrors.NewPermissionDenied(p)
	}
	return n, nil
}

// ============================================================================
// Map Primitives
// ============================================================================

// checkInsert validates the insert preconditions for p without mutating:
// the key must be absent and the parent, which must be present, must be a
// writable directory.
func (r *registry) checkInsert(p string) error {
	if _, ok := r.nodes[p]; ok {
		return fserrors.NewAlreadyExists(p)
	}
	if p != rootPath {
		if _, err := r.getDirWritable(parentPath(p)); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) insert(p string, n *node) error {
	if err := r.checkInsert(p); err != nil {
		return err
	}
	r.nodes[p] = n
	return nil
}

func (r *registry) remove(p string) (*node, error) {
	n, ok := r.nodes[p]
	if !ok {
		return nil, fserrors.NewNotFound(p)
	}
	delete(r.nodes, p)
	return n, nil
}

// descendants returns every entry strictly below p, at any depth, sorted.
func (r *registry) descendants(p string) []string {
	var result []string
	for key := range r.nodes {
		if key != p && isDescendantPath(key, p) {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}

// children returns the direct children of p, sorted.
func (r *registry) children(p string) []string {
	var result []string
	for key := range r.nodes {
		if key != rootPath && parentPath(key) == p {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}

// ============================================================================
// Path Helpers
// ============================================================================

// parentPath returns the parent of an absolute slash path; the root is its
// own parent.
func parentPath(p string) string {
	return path.Dir(p)
}

// joinChild appends one component to an absolute path.
func joinChild(p, name string) string {
	if p == rootPath {
		return rootPath + name
	}
	return p + "/" + name
}

// isDescendantPath reports whether p lies strictly inside ancestor,
// comparing whole components.
func isDescendantPath(p, ancestor string) bool {
	if ancestor == rootPath {
		return p != rootPath && strings.HasPrefix(p, rootPath)
	}
	return strings.HasPrefix(p, ancestor+"/")
}

// splitComponents breaks a slash path into its components, dropping empty
// and "." components the way component iteration does.
func splitComponents(p string) []string {
	var components []string
	for _, component := range strings.Split(p, "/") {
		if component == "" || component == "." {
			continue
		}
		components = append(components, component)
	}
	return components
}

// ancestorChain returns every prefix of p from the first component below
// the root down to p itself: "/a/b/c" yields "/a", "/a/b", "/a/b/c".
func ancestorChain(p string) []string {
	components := splitComponents(p)
	chain := make([]string, 0, len(components))
	current := rootPath
	for _, component := range components {
		if component == ".." {
			current = parentPath(current)
			continue
		}
		current = joinChild(current, component)
		chain = append(chain, current)
	}
	return chain
}

// sanity check used by tests; a present entry whose parent is missing would
// violate the insert-time invariant.
func (r *registry) orphaned() []string {
	var orphans []string
	for key := range r.nodes {
		if key == rootPath {
			continue
		}
		if _, ok := r.nodes[parentPath(key)]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	return orphans
}
