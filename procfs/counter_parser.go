// Integer parser for kernel counters

package procfs

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// Kernel statistics files vary across versions, so a single corrupt counter
// must not abort the whole snapshot. Invalid tokens (not a base 10
// non-negative integer, or one that overflows uint64) are mapped to 0 and a
// warning is logged.
func ParseCounter(token string, log logrus.FieldLogger) uint64 {
	value, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		log.Warnf("%q: invalid counter, using 0", token)
		return 0
	}
	return value
}
