// Parser for list-per-line sources: /proc/net/netlink, /proc/net/packet

package procfs

import (
	"context"

	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/sirupsen/logrus"
)

// sk               Eth Pid        Groups   Rmem     Wmem     Dump  Locks    Drops    Inode
// 0000000000000000 0   1          00000550 0        0        0     2        0        17862
// 0000000000000000 0   0          00000000 0        0        0     2        0        15
//
// sk               RefCnt Type Proto  Iface R Rmem   User   Inode
// 0000000000000000 3      3    0003   2     1 0      0      28113

const (
	NET_LIST_RMEM_COLUMN = "Rmem"
)

type NetListStats struct {
	// Number of non-blank lines after the heading, i.e. the number of sockets:
	NumEntries uint64
	// Sum of the Rmem column, if the heading has one:
	Rmem    uint64
	HasRmem bool
}

// Parse a list-per-line source: discard the heading and count the remaining,
// non-blank lines. The Rmem column, if present, is summed up.
func ParseNetList(
	ctx context.Context,
	filePath string,
	maxSize int64,
	log logrus.FieldLogger,
) (*NetListStats, error) {
	stats := &NetListStats{}
	rmemIndex := -1
	_, err := scanSourceLines(ctx, filePath, maxSize, func(lineNum int, line string) bool {
		fields := splitLine(line)
		if lineNum == 1 {
			for i, col := range fields {
				if col == NET_LIST_RMEM_COLUMN {
					rmemIndex = i
					stats.HasRmem = true
					break
				}
			}
			return true
		}
		if len(fields) == 0 {
			return true
		}
		stats.NumEntries++
		if rmemIndex >= 0 {
			if rmemIndex < len(fields) {
				stats.Rmem += ParseCounter(fields[rmemIndex], log)
			} else {
				log.Debugf("%s#%d: missing %s column", filePath, lineNum, NET_LIST_RMEM_COLUMN)
			}
		}
		return true
	})
	return stats, err
}

// The list loaders update the snapshot only if the whole source was read:
func loadNetlink(
	ctx context.Context,
	filePath string,
	snap *datamodels.Snapshot,
	maxSize int64,
	log logrus.FieldLogger,
) error {
	stats, err := ParseNetList(ctx, filePath, maxSize, log)
	if err != nil {
		return err
	}
	if counters := snap.Bucket(datamodels.NETLINK_BUCKET); counters != nil {
		counters.Set(datamodels.IN_USE_FIELD, stats.NumEntries)
	}
	return nil
}

func loadPacket(
	ctx context.Context,
	filePath string,
	snap *datamodels.Snapshot,
	maxSize int64,
	log logrus.FieldLogger,
) error {
	stats, err := ParseNetList(ctx, filePath, maxSize, log)
	if err != nil {
		return err
	}
	if counters := snap.Bucket(datamodels.PACKET_BUCKET); counters != nil {
		counters.Set(datamodels.IN_USE_FIELD, stats.NumEntries)
		if stats.HasRmem {
			counters.Set(datamodels.MEMORY_FIELD, stats.Rmem)
		}
	}
	return nil
}
