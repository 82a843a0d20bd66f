// Package fstest provides a conformance test suite for validating
// filesystem implementations against the fs.FileSystem contract.
//
// The suite is imported and executed by backend packages to verify they
// honor the shared contract: path-level operations, byte-level handle I/O,
// permission enforcement, and the handle-survives-path-mutation semantics
// that distinguish a faithful filesystem from a naive map of paths.
//
// Example usage:
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuite(t, func() fstest.Backend {
//	        return fakefs.New()
//	    })
//	}
//
// Backends with known environmental differences (for example permission
// enforcement when running as root) can skip individual tests by name with
// TestSuiteWithSkip.
package fstest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miragefs/miragefs/pkg/fs"
)

// Backend is the combination of interfaces every conformance target
// implements. The temp-dir side is consumed only to give each test an
// isolated working area.
type Backend interface {
	fs.FileSystem
	fs.TempFileSystem
}

// Factory returns a filesystem for one test. Backends with shared state
// (the OS) may return the same instance every time; hermetic backends
// should return a fresh one.
type Factory func() Backend

// TestSuite runs every conformance test against the filesystems produced
// by newFS.
func TestSuite(t *testing.T, newFS Factory) {
	TestSuiteWithSkip(t, newFS, nil)
}

// TestSuiteWithSkip runs the conformance tests, skipping the named tests.
func TestSuiteWithSkip(t *testing.T, newFS Factory, skipTests []string) {
	shouldSkip := func(name string) bool {
		for _, skip := range skipTests {
			if skip == name {
				return true
			}
		}
		return false
	}

	run := func(name string, test func(*testing.T, Backend, string)) {
		t.Run(name, func(t *testing.T) {
			if shouldSkip(name) {
				t.Skip("skipped by backend configuration")
			}
			fsys := newFS()
			tmp, err := fsys.TempDir("fstest")
			require.NoError(t, err)
			defer tmp.Close()
			test(t, fsys, tmp.Path())
		})
	}

	// Directory operations.
	run("CreateDir", testCreateDir)
	run("CreateDirAlreadyExists", testCreateDirAlreadyExists)
	run("CreateDirMissingParent", testCreateDirMissingParent)
	run("CreateDirAll", testCreateDirAll)
	run("RemoveDir", testRemoveDir)
	run("RemoveDirMissing", testRemoveDirMissing)
	run("RemoveDirOfFile", testRemoveDirOfFile)
	run("RemoveDirNotEmpty", testRemoveDirNotEmpty)
	run("RemoveDirAll", testRemoveDirAll)
	run("RemoveDirAllOfFile", testRemoveDirAllOfFile)
	run("RemoveDirAllUnreadableDescendant", testRemoveDirAllUnreadableDescendant)
	run("ReadDir", testReadDir)
	run("ReadDirMissing", testReadDirMissing)
	run("ReadDirOfFile", testReadDirOfFile)

	// File content operations.
	run("WriteFileRoundTrip", testWriteFileRoundTrip)
	run("WriteFileOverwrites", testWriteFileOverwrites)
	run("WriteFileReadonly", testWriteFileReadonly)
	run("WriteFileOnDir", testWriteFileOnDir)
	run("OverwriteFile", testOverwriteFile)
	run("OverwriteFileMissing", testOverwriteFileMissing)
	run("OverwriteFileReadonly", testOverwriteFileReadonly)
	run("ReadFileMissing", testReadFileMissing)
	run("ReadFileToStringInvalidUTF8", testReadFileToStringInvalidUTF8)
	run("RemoveFile", testRemoveFile)
	run("RemoveFileMissing", testRemoveFileMissing)
	run("RemoveFileOnDir", testRemoveFileOnDir)
	run("CopyFile", testCopyFile)
	run("CopyFileOverwrites", testCopyFileOverwrites)
	run("CopyFileMissingSource", testCopyFileMissingSource)
	run("CopyFileSourceIsDir", testCopyFileSourceIsDir)
	run("CopyFileReadonlyDest", testCopyFileReadonlyDest)
	run("RenameFile", testRenameFile)
	run("RenameFileReplacesDest", testRenameFileReplacesDest)
	run("RenameDirCarriesDescendants", testRenameDirCarriesDescendants)
	run("RenameDirToEmptyDir", testRenameDirToEmptyDir)
	run("RenameToSamePath", testRenameToSamePath)
	run("RenameMissingSource", testRenameMissingSource)
	run("RenameTypeMismatch", testRenameTypeMismatch)
	run("RenameDirToNonEmptyDir", testRenameDirToNonEmptyDir)
	run("MetadataFile", testMetadataFile)
	run("MetadataDir", testMetadataDir)
	run("MetadataMissing", testMetadataMissing)
	run("SetPermissionsReadonlyToggle", testSetPermissionsReadonlyToggle)
	run("IsDirIsFile", testIsDirIsFile)

	// Handle I/O.
	run("OpenMissing", testOpenMissing)
	run("OpenDir", testOpenDir)
	run("OpenReadsContent", testOpenReadsContent)
	run("OpenIndependentCursors", testOpenIndependentCursors)
	run("OpenChunkedReads", testOpenChunkedReads)
	run("ReadPastEOF", testReadPastEOF)
	run("HandleSurvivesDelete", testHandleSurvivesDelete)
	run("HandleSurvivesRecreate", testHandleSurvivesRecreate)
	run("HandleSurvivesParentDirRemoval", testHandleSurvivesParentDirRemoval)
	run("HandleSurvivesRename", testHandleSurvivesRename)
	run("HandleSeesInPlaceUpdate", testHandleSeesInPlaceUpdate)
	run("HandleToleratesShrink", testHandleToleratesShrink)
	run("SeekFromStart", testSeekFromStart)
	run("SeekFromCurrent", testSeekFromCurrent)
	run("SeekFromEnd", testSeekFromEnd)
	run("SeekNegativeFails", testSeekNegativeFails)
	run("SeekBeyondEOFThenWrite", testSeekBeyondEOFThenWrite)
	run("WriteOverlapThenAppend", testWriteOverlapThenAppend)
	run("WriterIndependentCursors", testWriterIndependentCursors)
	run("SetLenTruncates", testSetLenTruncates)
	run("SetLenExtends", testSetLenExtends)
	run("SetLenKeepsCursor", testSetLenKeepsCursor)
	run("HandleMetadataDetached", testHandleMetadataDetached)
	run("CreateTruncates", testCreateTruncates)
	run("CreateReadonly", testCreateReadonly)
	run("CreateOnDir", testCreateOnDir)
	run("OpenWriteOnlyPreservesContent", testOpenWriteOnlyPreservesContent)
	run("OpenWriteOnlyMissing", testOpenWriteOnlyMissing)
	run("CreateNewFailsIfExists", testCreateNewFailsIfExists)
	run("TruncateWriteRequiresExistence", testTruncateWriteRequiresExistence)
	run("ReadOnWriteHandle", testReadOnWriteHandle)
	run("WriteOnReadHandle", testWriteOnReadHandle)
	run("SyncIsHarmless", testSyncIsHarmless)

	// Temporary directories.
	run("TempDirCreatesAndCloses", testTempDirCreatesAndCloses)
	run("TempDirUnique", testTempDirUnique)
}

// PermissionTests lists the suite tests that rely on permission bits being
// enforced. OS-backed runs skip them when the process is privileged enough
// to bypass permission checks.
func PermissionTests() []string {
	return []string{
		"RemoveDirAllUnreadableDescendant",
		"WriteFileReadonly",
		"OverwriteFileReadonly",
		"CopyFileReadonlyDest",
		"CreateReadonly",
	}
}
