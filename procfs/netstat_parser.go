// Parser for the TcpExt section of /proc/net/netstat

package procfs

import (
	"context"

	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/sirupsen/logrus"
)

// Two layouts are accepted. Key value pairs on a single line:
//
// TcpExt: SyncookiesSent 0 SyncookiesRecv 0 SyncookiesFailed 0
//
// and the kernel's heading + values line pair:
//
// TcpExt: SyncookiesSent SyncookiesRecv SyncookiesFailed ...
// TcpExt: 0 0 0 ...
//
// The layout is decided by the 1st TcpExt: line. The section is open-ended, every counter name is kept verbatim, in the
// order found.

const (
	NETSTAT_TCP_EXT_LABEL = "TcpExt:"
)

// Whether the words following the label are key value pairs, based on the
// 2nd word being a number:
func isNetstatKvLine(fields []string) bool {
	if len(fields) < 3 {
		return false
	}
	for _, c := range []byte(fields[2]) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Return the TcpExt counters or nil if the section was not found:
func ParseNetstatTcpExt(
	ctx context.Context,
	filePath string,
	maxSize int64,
	log logrus.FieldLogger,
) (*datamodels.Counters, error) {
	var (
		tcpExt  *datamodels.Counters
		heading []string
	)
	_, err := scanSourceLines(ctx, filePath, maxSize, func(lineNum int, line string) bool {
		fields := splitLine(line)
		if heading == nil {
			if len(fields) == 0 || fields[0] != NETSTAT_TCP_EXT_LABEL {
				return true
			}
			// The 1st key value line wins, any TcpExt: line after it is ignored:
			if isNetstatKvLine(fields) {
				tcpExt = datamodels.NewCounters()
				ParseSection(fields, tcpExt, VerbatimFieldMapping, log)
				return false
			}
			heading = fields
			return true
		}

		values := stripSectionLabel(fields, NETSTAT_TCP_EXT_LABEL)
		if values == nil {
			log.Debugf("%s#%d: %s heading w/o value line", filePath, lineNum, NETSTAT_TCP_EXT_LABEL)
			return false
		}
		tcpExt = datamodels.NewCounters()
		names := heading[1:]
		if len(names) != len(values) {
			log.Warnf(
				"%s#%d: %s mismatched number of values: want: %d, got: %d",
				filePath, lineNum, NETSTAT_TCP_EXT_LABEL, len(names), len(values),
			)
		}
		for i, name := range names {
			if i >= len(values) {
				break
			}
			tcpExt.Set(name, ParseCounter(values[i], log))
		}
		return false
	})
	return tcpExt, err
}

func loadNetstatTcpExt(
	ctx context.Context,
	filePath string,
	snap *datamodels.Snapshot,
	maxSize int64,
	log logrus.FieldLogger,
) error {
	tcpExt, err := ParseNetstatTcpExt(ctx, filePath, maxSize, log)
	if err == nil && tcpExt != nil {
		snap.TcpExt = tcpExt
	}
	return err
}
