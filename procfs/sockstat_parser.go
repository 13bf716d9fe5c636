// Parser for /proc/net/sockstat

package procfs

import (
	"context"
	"strings"

	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/sirupsen/logrus"
)

// sockets: used 229
// TCP: inuse 9 orphan 0 tw 4 alloc 13 mem 2
// UDP: inuse 6 mem 4
// UDPLITE: inuse 0
// RAW: inuse 0
// FRAG: inuse 0 memory 0

// References:
//  https://github.com/torvalds/linux/blob/master/net/ipv4/proc.c (sockstat_seq_show)
//  https://github.com/torvalds/linux/blob/master/net/ipv6/proc.c (sockstat6_seq_show)

// The first word of a line, the section label, selects the destination bucket
// and the field mapping:
type SockstatSection struct {
	Bucket  string
	Mapping FieldMapping
	// Whether the section is recognized only in extended mode:
	Extended bool
}

const (
	SOCKSTAT_SOCKETS_LABEL = "sockets:"
)

var SockstatSections = map[string]*SockstatSection{
	"TCP:":     {datamodels.TCP_BUCKET, TcpFieldMapping, false},
	"UDP:":     {datamodels.UDP_BUCKET, UdpFieldMapping, false},
	"UDPLITE:": {datamodels.UDP_LITE_BUCKET, InUseFieldMapping, false},
	"RAW:":     {datamodels.RAW_BUCKET, InUseFieldMapping, false},
	"FRAG:":    {datamodels.FRAG_BUCKET, FragFieldMapping, false},
	"TCP6:":    {datamodels.TCP6_BUCKET, TcpFieldMapping, true},
	"UDP6:":    {datamodels.UDP6_BUCKET, UdpFieldMapping, true},
}

// Dispatch a line, already split into words, to the section parser based on
// the table. Unknown sections are ignored, since newer kernels may add them.
func dispatchSectionLine(
	fields []string,
	snap *datamodels.Snapshot,
	sections map[string]*SockstatSection,
	extended bool,
	log logrus.FieldLogger,
) {
	if len(fields) < 2 {
		log.Debugf("%q: malformed line, ignored", strings.Join(fields, " "))
		return
	}

	label := fields[0]
	if label == SOCKSTAT_SOCKETS_LABEL {
		if len(fields) < 3 {
			log.Debugf("%q: malformed line, ignored", strings.Join(fields, " "))
			return
		}
		snap.SocketsUsed = ParseCounter(fields[2], log)
		return
	}

	section := sections[label]
	if section == nil || (section.Extended && !extended) {
		if isSectionLabel(label) {
			log.Debugf("%q: unknown section, ignored", label)
		} else {
			log.Debugf("%q: not a section label, line ignored", label)
		}
		return
	}
	counters := snap.Bucket(section.Bucket)
	if counters == nil {
		log.Debugf("%q: no %q bucket, ignored", label, section.Bucket)
		return
	}
	ParseSection(fields, counters, section.Mapping, log)
}

// Parse the primary source into the snapshot. Any error opening or reading the
// file is returned, the caller should treat it as fatal. The number of lines
// processed is returned for diagnostic purposes.
func ParseSockstat(
	ctx context.Context,
	filePath string,
	snap *datamodels.Snapshot,
	extended bool,
	maxSize int64,
	log logrus.FieldLogger,
) (int, error) {
	numProcessed := 0
	_, err := scanSourceLines(ctx, filePath, maxSize, func(lineNum int, line string) bool {
		line = strings.TrimSpace(line)
		if line == "" {
			return true
		}
		numProcessed++
		dispatchSectionLine(splitLine(line), snap, SockstatSections, extended, log)
		return true
	})
	return numProcessed, err
}
