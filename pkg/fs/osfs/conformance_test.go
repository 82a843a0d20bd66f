package osfs_test

import (
	"os"
	"testing"

	"github.com/miragefs/miragefs/pkg/fs/fstest"
	"github.com/miragefs/miragefs/pkg/fs/osfs"
)

func TestConformance(t *testing.T) {
	// Root bypasses permission bits, so the tests that depend on the OS
	// denying access cannot run in privileged environments.
	var skip []string
	if os.Geteuid() == 0 {
		skip = fstest.PermissionTests()
	}

	fstest.TestSuiteWithSkip(t, func() fstest.Backend {
		return osfs.New()
	}, skip)
}
