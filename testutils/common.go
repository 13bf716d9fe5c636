package testutils

import (
	"path"
)

// The following sub-dirs are relative to module root:
const (
	TESTDATA_SUBDIR = "testdata"
	// Sample procfs roots, one sub-dir per scenario, each w/ a net/ sub-dir:
	TESTDATA_PROCFS_SUBDIR = TESTDATA_SUBDIR + "/procfs"
)

// Sample procfs root for a scenario, relative to a package dir right below the
// module root:
func TestdataProcfsRoot(scenario string) string {
	return path.Join("..", TESTDATA_PROCFS_SUBDIR, scenario)
}
