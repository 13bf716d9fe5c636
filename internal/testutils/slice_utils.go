package testutils

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func CompareSlices[T comparable](want, got []T, name string, errBuf *bytes.Buffer) bool {
	if len(want) != len(got) {
		fmt.Fprintf(
			errBuf,
			"\nlen(%s): want: %d, got: %d",
			name, len(want), len(got),
		)
		return false
	}

	ok := true
	for i, wantVal := range want {
		gotVal := got[i]
		if wantVal != gotVal {
			fmt.Fprintf(
				errBuf,
				"\n%s[%d]: want: %v, got: %v",
				name, i, wantVal, gotVal,
			)
			ok = false
		}
	}

	return ok
}

// A logger w/ a hook recording all entries, for checking diagnostics:
func NewDiagLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

// Count the recorded entries at a given level:
func CountLogLevel(hook *test.Hook, level logrus.Level) int {
	n := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == level {
			n++
		}
	}
	return n
}
