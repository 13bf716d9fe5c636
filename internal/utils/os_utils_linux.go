// Misc Linux OS related info

//go:build linux

package utils

import (
	"github.com/tklauser/go-sysconf"
)

func getPageSize() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_PAGESIZE)
}
