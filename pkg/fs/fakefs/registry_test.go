package fakefs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserrors "github.com/miragefs/miragefs/pkg/fs/errors"
)

// ============================================================================
// Path Helpers
// ============================================================================

func TestSplitComponents(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"root", "/", nil},
		{"empty", "", nil},
		{"simple", "/a/b", []string{"a", "b"}},
		{"doubled separators", "/a//b", []string{"a", "b"}},
		{"current dir dropped", "/a/./b", []string{"a", "b"}},
		{"parent kept", "/a/../b", []string{"a", "..", "b"}},
		{"trailing slash", "/a/b/", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitComponents(tt.path))
		})
	}
}

func TestParentPath(t *testing.T) {
	assert.Equal(t, "/a", parentPath("/a/b"))
	assert.Equal(t, "/", parentPath("/a"))
	assert.Equal(t, "/", parentPath("/"))
}

func TestJoinChild(t *testing.T) {
	assert.Equal(t, "/a", joinChild("/", "a"))
	assert.Equal(t, "/a/b", joinChild("/a", "b"))
}

func TestIsDescendantPath(t *testing.T) {
	assert.True(t, isDescendantPath("/a/b", "/a"))
	assert.True(t, isDescendantPath("/a/b/c", "/a"))
	assert.True(t, isDescendantPath("/a", "/"))
	assert.False(t, isDescendantPath("/", "/"))
	assert.False(t, isDescendantPath("/a", "/a"))
	// Sibling with a shared name prefix is not a descendant.
	assert.False(t, isDescendantPath("/ab", "/a"))
}

func TestAncestorChain(t *testing.T) {
	assert.Equal(t, []string{"/a", "/a/b", "/a/b/c"}, ancestorChain("/a/b/c"))
	assert.Equal(t, []string{"/a"}, ancestorChain("/a"))
	assert.Empty(t, ancestorChain("/"))
}

// ============================================================================
// Map Invariants
// ============================================================================

func TestRegistryStartsAtRoot(t *testing.T) {
	reg := newRegistry()

	cwd, err := reg.currentDir()
	require.NoError(t, err)
	assert.Equal(t, rootPath, cwd)
	assert.True(t, reg.isDir(rootPath))
}

func TestRegistryInsertRequiresParentDir(t *testing.T) {
	reg := newRegistry()

	err := reg.createDir("/missing/child")
	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))

	require.NoError(t, reg.createFile("/obstruction", nil))
	err = reg.createDir("/obstruction/child")
	require.Error(t, err)
	assert.True(t, fserrors.IsUnsupported(err))
}

func TestRegistryNoOrphansAfterWorkout(t *testing.T) {
	reg := newRegistry()

	require.NoError(t, reg.createDirAll("/a/b/c"))
	require.NoError(t, reg.createFile("/a/b/file.txt", []byte("x")))
	require.NoError(t, reg.rename("/a/b", "/a/moved"))
	require.NoError(t, reg.copyFile("/a/moved/file.txt", "/a/copy.txt"))
	require.NoError(t, reg.removeDirAll("/a/moved"))
	require.NoError(t, reg.removeFile("/a/copy.txt"))

	assert.Empty(t, reg.orphaned())
}

func TestRekeyFailurePreservesSource(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/from.txt", []byte("x")))
	require.NoError(t, reg.createFile("/to.txt", []byte("y")))

	err := reg.rekey("/from.txt", "/to.txt")

	require.Error(t, err)
	assert.True(t, fserrors.IsAlreadyExists(err))
	// The failed move touched nothing.
	assert.True(t, reg.isFile("/from.txt"))
	assert.True(t, reg.isFile("/to.txt"))
}

func TestDescendantsAndChildrenSorted(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/a/sub"))
	require.NoError(t, reg.createFile("/a/zeta.txt", nil))
	require.NoError(t, reg.createFile("/a/alpha.txt", nil))
	require.NoError(t, reg.createFile("/a/sub/deep.txt", nil))

	wantChildren := []string{"/a/alpha.txt", "/a/sub", "/a/zeta.txt"}
	if diff := cmp.Diff(wantChildren, reg.children("/a")); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	wantDescendants := []string{"/a/alpha.txt", "/a/sub", "/a/sub/deep.txt", "/a/zeta.txt"}
	if diff := cmp.Diff(wantDescendants, reg.descendants("/a")); diff != "" {
		t.Errorf("descendants mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Error Kinds
// ============================================================================

func TestRemoveDirKinds(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDir("/dir"))
	require.NoError(t, reg.createFile("/dir/child.txt", nil))
	require.NoError(t, reg.createFile("/file.txt", nil))

	assert.True(t, fserrors.IsPermissionDenied(reg.removeDir(rootPath)))
	assert.True(t, fserrors.IsNotFound(reg.removeDir("/missing")))
	assert.True(t, fserrors.IsUnsupported(reg.removeDir("/file.txt")))
	assert.True(t, fserrors.IsUnsupported(reg.removeDir("/dir")))
}

func TestRemoveDirAllKinds(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", nil))

	assert.True(t, fserrors.IsPermissionDenied(reg.removeDirAll(rootPath)))
	assert.True(t, fserrors.IsNotFound(reg.removeDirAll("/missing")))
	assert.True(t, fserrors.IsUnsupported(reg.removeDirAll("/file.txt")))
}

func TestRemoveDirAllIsAllOrNothing(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/tree/sub"))
	require.NoError(t, reg.createFile("/tree/keep.txt", nil))
	require.NoError(t, reg.createFile("/tree/sub/locked.txt", nil))
	require.NoError(t, reg.setMode("/tree/sub/locked.txt", 0o200))

	err := reg.removeDirAll("/tree")

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
	// The unreadable descendant failed the whole removal before anything
	// was deleted.
	assert.True(t, reg.isDir("/tree"))
	assert.True(t, reg.isDir("/tree/sub"))
	assert.True(t, reg.isFile("/tree/keep.txt"))
	assert.True(t, reg.isFile("/tree/sub/locked.txt"))
}

func TestCreateDirAllKinds(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", nil))

	// A file as the final component is AlreadyExists; a file in the
	// middle of the chain is a non-directory obstruction.
	assert.True(t, fserrors.IsAlreadyExists(reg.createDirAll("/file.txt")))
	assert.True(t, fserrors.IsUnsupported(reg.createDirAll("/file.txt/below")))
}

func TestRenameKinds(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", nil))
	require.NoError(t, reg.createDir("/dir"))
	require.NoError(t, reg.createDir("/full"))
	require.NoError(t, reg.createFile("/full/occupant.txt", nil))

	assert.True(t, fserrors.IsNotFound(reg.rename("/missing", "/anywhere")))
	assert.True(t, fserrors.IsUnsupported(reg.rename("/file.txt", "/dir")))
	assert.True(t, fserrors.IsUnsupported(reg.rename("/dir", "/file.txt")))
	assert.True(t, fserrors.IsUnsupported(reg.rename("/dir", "/full")))
}

func TestRenameSamePathIsNoOp(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", []byte("precious")))
	require.NoError(t, reg.createDir("/dir"))

	require.NoError(t, reg.rename("/file.txt", "/file.txt"))
	require.NoError(t, reg.rename("/dir", "/dir"))

	data, err := reg.readFile("/file.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("precious"), data)
	assert.True(t, reg.isDir("/dir"))

	assert.True(t, fserrors.IsNotFound(reg.rename("/missing", "/missing")))
}

func TestRenameOntoFileFailureLeavesDestination(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDir("/locked"))
	require.NoError(t, reg.createFile("/locked/dest.txt", []byte("kept")))
	require.NoError(t, reg.createFile("/src.txt", []byte("src")))
	require.NoError(t, reg.setMode("/locked", 0o555))

	err := reg.rename("/src.txt", "/locked/dest.txt")

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
	// The failed replacement touched neither side.
	n, err := reg.getFile("/locked/dest.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), n.contents.snapshot())
	assert.True(t, reg.isFile("/src.txt"))
}

func TestRenameOntoEmptyDirFailureLeavesDestination(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/locked/dest"))
	require.NoError(t, reg.createDir("/src"))
	require.NoError(t, reg.setMode("/locked", 0o555))

	err := reg.rename("/src", "/locked/dest")

	require.Error(t, err)
	assert.True(t, fserrors.IsPermissionDenied(err))
	assert.True(t, reg.isDir("/locked/dest"))
	assert.True(t, reg.isDir("/src"))
}

func TestRenameDirOntoOwnEmptyChildLeavesChild(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/a/b"))

	err := reg.rename("/a", "/a/b")

	require.Error(t, err)
	assert.True(t, fserrors.IsInvalidInput(err))
	assert.True(t, reg.isDir("/a"))
	assert.True(t, reg.isDir("/a/b"))
}

func TestMoveDirGuards(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/a/b"))

	err := reg.moveDir("/a", "/a/b/inside")
	require.Error(t, err)
	assert.True(t, fserrors.IsInvalidInput(err))
	assert.True(t, reg.isDir("/a"))
	assert.True(t, reg.isDir("/a/b"))

	assert.True(t, fserrors.IsPermissionDenied(reg.moveDir(rootPath, "/elsewhere")))
}

func TestMoveDirRekeysWholeSubtree(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/from/a/b"))
	require.NoError(t, reg.createFile("/from/a/file.txt", []byte("x")))

	require.NoError(t, reg.moveDir("/from", "/to"))

	assert.False(t, reg.isDir("/from"))
	assert.True(t, reg.isDir("/to/a/b"))
	assert.True(t, reg.isFile("/to/a/file.txt"))
	assert.Empty(t, reg.orphaned())
}

// ============================================================================
// Cell Identity
// ============================================================================

func TestWriteFileKeepsCellIdentity(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", []byte("one")))
	before, err := reg.getFile("/file.txt")
	require.NoError(t, err)

	require.NoError(t, reg.writeFile("/file.txt", []byte("two")))

	after, err := reg.getFile("/file.txt")
	require.NoError(t, err)
	assert.Same(t, before.contents, after.contents)
}

func TestRecreateMintsNewCell(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", []byte("one")))
	before, err := reg.getFile("/file.txt")
	require.NoError(t, err)

	require.NoError(t, reg.removeFile("/file.txt"))
	require.NoError(t, reg.writeFile("/file.txt", []byte("two")))

	after, err := reg.getFile("/file.txt")
	require.NoError(t, err)
	assert.NotSame(t, before.contents, after.contents)
	// The detached cell still holds the old bytes.
	assert.Equal(t, []byte("one"), before.contents.snapshot())
}

// ============================================================================
// Mode Accessors
// ============================================================================

func TestModeAccessors(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createFile("/file.txt", nil))

	mode, err := reg.modeOf("/file.txt")
	require.NoError(t, err)
	assert.Equal(t, uint32(0o644), mode)

	ro, err := reg.readonly("/file.txt")
	require.NoError(t, err)
	assert.False(t, ro)

	require.NoError(t, reg.setReadonly("/file.txt", true))
	mode, err = reg.modeOf("/file.txt")
	require.NoError(t, err)
	assert.Equal(t, uint32(0o444), mode)
	ro, err = reg.readonly("/file.txt")
	require.NoError(t, err)
	assert.True(t, ro)

	// Clearing readonly restores every write bit.
	require.NoError(t, reg.setReadonly("/file.txt", false))
	mode, err = reg.modeOf("/file.txt")
	require.NoError(t, err)
	assert.Equal(t, uint32(0o666), mode)
}

func TestModeAccessorsMissingPath(t *testing.T) {
	reg := newRegistry()

	_, err := reg.readonly("/missing")
	assert.True(t, fserrors.IsNotFound(err))
	assert.True(t, fserrors.IsNotFound(reg.setReadonly("/missing", true)))
	_, err = reg.modeOf("/missing")
	assert.True(t, fserrors.IsNotFound(err))
}

// ============================================================================
// Canonicalization
// ============================================================================

func TestCanonicalizePath(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDirAll("/a/b"))
	require.NoError(t, reg.createFile("/a/b/file.txt", nil))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"root", "/", "/"},
		{"plain", "/a/b", "/a/b"},
		{"file", "/a/b/file.txt", "/a/b/file.txt"},
		{"dot segments", "/a/./b/.", "/a/b"},
		{"parent segment", "/a/b/../b", "/a/b"},
		{"parent above root clamps", "/../../a", "/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.canonicalizePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizePathFailures(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.createDir("/a"))

	// Every intermediate component must exist as a directory even when a
	// later ".." would pop it back off.
	_, err := reg.canonicalizePath("/a/missing/../also-missing/..")
	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))

	_, err = reg.canonicalizePath("/missing")
	require.Error(t, err)
	assert.True(t, fserrors.IsNotFound(err))
}
