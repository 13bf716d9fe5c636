// Misc OS related info

package utils

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	// Used whenever the information cannot be determined:
	UNKNOWN_OS_INFO = "unknown"
)

var (
	osRelease     string
	osReleaseOnce sync.Once
)

func zeroSuffixBufToString(buf []byte) string {
	i := bytes.IndexByte(buf, 0)
	if i < 0 {
		i = len(buf)
	}
	return string(buf[:i])
}

func loadUname() {
	uname := unix.Utsname{}
	if err := unix.Uname(&uname); err != nil {
		osRelease = UNKNOWN_OS_INFO
		return
	}
	osRelease = zeroSuffixBufToString(uname.Release[:])
	if osRelease == "" {
		osRelease = UNKNOWN_OS_INFO
	}
}

// The kernel release, e.g. "6.1.0-18-amd64":
func KernelRelease() string {
	osReleaseOnce.Do(loadUname)
	return osRelease
}

// Page size in bytes; kernel memory counters (e.g. TCP: mem) are expressed in
// pages:
func PageSize() int64 {
	pageSize, err := getPageSize()
	if err != nil || pageSize <= 0 {
		return int64(os.Getpagesize())
	}
	return pageSize
}

// The hostname, optionally stripped of its domain, or UNKNOWN_OS_INFO if it
// cannot be determined:
func Hostname(short bool) string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return UNKNOWN_OS_INFO
	}
	if short {
		if i := strings.Index(hostname, "."); i > 0 {
			hostname = hostname[:i]
		}
	}
	return hostname
}
