// Definitions common to all tests:

package procfs

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/emypar/linux-sockstat-reporter/testutils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var (
	basicProcfsRoot     = testutils.TestdataProcfsRoot("basic")
	fullProcfsRoot      = testutils.TestdataProcfsRoot("full")
	kvProcfsRoot        = testutils.TestdataProcfsRoot("kv")
	malformedProcfsRoot = testutils.TestdataProcfsRoot("malformed")
)

func netPath(procfsRoot, name string) string {
	return path.Join(procfsRoot, "net", name)
}

// Write a temporary source file and return its path:
func writeTempSource(t *testing.T, name, content string) string {
	filePath := path.Join(t.TempDir(), name)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filePath
}

// Create a FIFO source fed w/ content and return its path. Like the actual
// /proc files, it stats as size 0, so only the streaming size ceiling applies.
// The content should fit the pipe buffer.
func writeFifoSource(t *testing.T, dir, name, content string) string {
	filePath := path.Join(dir, name)
	if err := unix.Mkfifo(filePath, 0o644); err != nil {
		t.Fatal(err)
	}
	go func() {
		f, err := os.OpenFile(filePath, os.O_WRONLY, 0)
		if err != nil {
			return
		}
		defer f.Close()
		f.WriteString(content)
	}()
	// Release the writer if the source was never opened for reading:
	t.Cleanup(func() {
		if f, err := os.OpenFile(filePath, os.O_RDONLY|unix.O_NONBLOCK, 0); err == nil {
			f.Close()
		}
	})
	return filePath
}

// Feed a FIFO source w/ the content of a testdata file:
func writeFifoSourceFrom(t *testing.T, dir, name, procfsRoot string) string {
	content, err := os.ReadFile(netPath(procfsRoot, name))
	if err != nil {
		t.Fatal(err)
	}
	return writeFifoSource(t, dir, name, string(content))
}

// Cancel a context on the 1st log entry of a given level, used for
// interrupting a scan between lines:
type cancelOnLevelHook struct {
	level  logrus.Level
	cancel context.CancelFunc
}

func (hook *cancelOnLevelHook) Levels() []logrus.Level {
	return []logrus.Level{hook.level}
}

func (hook *cancelOnLevelHook) Fire(*logrus.Entry) error {
	hook.cancel()
	return nil
}
