// Parser for /proc/net/sockstat6

package procfs

import (
	"context"
	"strings"

	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/sirupsen/logrus"
)

// TCP6: inuse 3
// UDP6: inuse 2
// UDPLITE6: inuse 0
// RAW6: inuse 1
// FRAG6: inuse 0 memory 0
//
// Some hosts (and some tools writing this file for containers) also carry a
// UNIX: inuse N dynamic N inode N line, which is the only source for the UNIX
// domain counters.

var Sockstat6Sections = map[string]*SockstatSection{
	"TCP6:":     {datamodels.TCP6_BUCKET, TcpFieldMapping, true},
	"UDP6:":     {datamodels.UDP6_BUCKET, UdpFieldMapping, true},
	"UDPLITE6:": {datamodels.UDP_LITE6_BUCKET, InUseFieldMapping, true},
	"RAW6:":     {datamodels.RAW6_BUCKET, InUseFieldMapping, true},
	"FRAG6:":    {datamodels.FRAG6_BUCKET, FragFieldMapping, true},
	"UNIX:":     {datamodels.UNIX_BUCKET, UnixFieldMapping, true},
}

// Auxiliary source; errors are returned for logging only. The lines are
// applied to a copy of the affected buckets, which replaces the original ones
// only if the whole source was read.
func ParseSockstat6(
	ctx context.Context,
	filePath string,
	snap *datamodels.Snapshot,
	maxSize int64,
	log logrus.FieldLogger,
) error {
	scratch := &datamodels.Snapshot{
		Buckets: make(map[string]*datamodels.Counters, len(Sockstat6Sections)),
	}
	for _, section := range Sockstat6Sections {
		if counters := snap.Bucket(section.Bucket); counters != nil {
			scratch.Buckets[section.Bucket] = counters.Clone()
		}
	}

	_, err := scanSourceLines(ctx, filePath, maxSize, func(lineNum int, line string) bool {
		fields := splitLine(line)
		if len(fields) == 0 {
			return true
		}
		if fields[0] == SOCKSTAT_SOCKETS_LABEL {
			log.Debugf("%s#%d: %q: unexpected section, ignored", filePath, lineNum, strings.TrimSpace(line))
			return true
		}
		dispatchSectionLine(fields, scratch, Sockstat6Sections, true, log)
		return true
	})
	if err != nil {
		return err
	}
	for name, counters := range scratch.Buckets {
		snap.Buckets[name] = counters
	}
	return nil
}
