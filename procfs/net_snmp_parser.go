// Parser for the ICMP sections of /proc/net/snmp and /proc/net/snmp6

package procfs

import (
	"context"

	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/sirupsen/logrus"
)

// References:
// 	https://datatracker.ietf.org/doc/html/rfc1213
//  https://github.com/torvalds/linux/tree/master/include/uapi/linux/snmp.h

// /proc/net/snmp comes in line pairs, heading and values:
//
// Icmp: InMsgs InErrors InCsumErrors InDestUnreachs ...
// Icmp: 45 1 0 45 ...
//
// The first value following the heading (InMsgs) is reported as icmp.in_use.
// The value line normally repeats the label, in which case it is skipped; a
// bare value line is accepted as well. The same applies to Icmp6:, though the
// kernel actually exposes the IPv6 counters in /proc/net/snmp6 as one name value
// pair per line:
//
// Icmp6InMsgs                     	12
// Icmp6InErrors                   	0

const (
	NET_SNMP_ICMP_LABEL   = "Icmp:"
	NET_SNMP_ICMP6_LABEL  = "Icmp6:"
	NET_SNMP6_ICMP6_COUNT = "Icmp6InMsgs"
)

var netSnmpIcmpBuckets = map[string]string{
	NET_SNMP_ICMP_LABEL:  datamodels.ICMP_BUCKET,
	NET_SNMP_ICMP6_LABEL: datamodels.ICMP6_BUCKET,
}

type NetSnmpIcmp struct {
	// The counts for each label, found ones only:
	InUse map[string]uint64
}

// Scan /proc/net/snmp for the Icmp: and Icmp6: sections; only the 1st
// occurrence of each counts.
func ParseNetSnmpIcmp(
	ctx context.Context,
	filePath string,
	maxSize int64,
	log logrus.FieldLogger,
) (*NetSnmpIcmp, error) {
	netSnmpIcmp := &NetSnmpIcmp{InUse: make(map[string]uint64)}
	pendingLabel := ""
	_, err := scanSourceLines(ctx, filePath, maxSize, func(lineNum int, line string) bool {
		fields := splitLine(line)
		if pendingLabel != "" {
			label := pendingLabel
			pendingLabel = ""
			values := fields
			if len(values) > 0 {
				if values[0] == label {
					values = values[1:]
				} else if _, ok := netSnmpIcmpBuckets[values[0]]; ok {
					// Another heading, re-checked below:
					values = nil
				}
			}
			if len(values) == 0 {
				log.Debugf("%s#%d: %s no value line", filePath, lineNum, label)
			} else {
				netSnmpIcmp.InUse[label] = ParseCounter(values[0], log)
				return len(netSnmpIcmp.InUse) < len(netSnmpIcmpBuckets)
			}
		}
		if len(fields) == 0 {
			return true
		}
		label := fields[0]
		if _, ok := netSnmpIcmpBuckets[label]; ok {
			if _, found := netSnmpIcmp.InUse[label]; !found {
				pendingLabel = label
			}
		}
		return true
	})
	return netSnmpIcmp, err
}

// Scan /proc/net/snmp6 for the Icmp6InMsgs NNN line:
func ParseNetSnmp6Icmp6(
	ctx context.Context,
	filePath string,
	maxSize int64,
	log logrus.FieldLogger,
) (uint64, bool, error) {
	value, found := uint64(0), false
	_, err := scanSourceLines(ctx, filePath, maxSize, func(lineNum int, line string) bool {
		fields := splitLine(line)
		if len(fields) < 2 || fields[0] != NET_SNMP6_ICMP6_COUNT {
			return true
		}
		value, found = ParseCounter(fields[1], log), true
		return false
	})
	return value, found, err
}

// Icmp6 falls back to snmp6 if snmp has no such section or if it cannot be
// read in full. Each source is applied only if it was read w/o error.
func loadNetSnmpIcmp(
	ctx context.Context,
	snmpPath, snmp6Path string,
	snap *datamodels.Snapshot,
	maxSize int64,
	log logrus.FieldLogger,
) error {
	var snmpErr error
	netSnmpIcmp := &NetSnmpIcmp{InUse: map[string]uint64{}}
	if err := CheckSourceFile(snmpPath, maxSize); err != nil {
		snmpErr = err
	} else {
		netSnmpIcmp, snmpErr = ParseNetSnmpIcmp(ctx, snmpPath, maxSize, log)
	}
	if snmpErr == nil {
		for label, bucket := range netSnmpIcmpBuckets {
			if inUse, ok := netSnmpIcmp.InUse[label]; ok {
				if counters := snap.Bucket(bucket); counters != nil {
					counters.Set(datamodels.IN_USE_FIELD, inUse)
				}
			}
		}
		if _, ok := netSnmpIcmp.InUse[NET_SNMP_ICMP6_LABEL]; ok {
			return nil
		}
	}

	if snmp6Path == "" || ctx.Err() != nil {
		return snmpErr
	}
	if err := CheckSourceFile(snmp6Path, maxSize); err != nil {
		log.Debugf("icmp6 fallback skipped: %v", err)
		return snmpErr
	}
	inUse, found, err := ParseNetSnmp6Icmp6(ctx, snmp6Path, maxSize, log)
	if err != nil {
		log.Debugf("icmp6 fallback: %v", err)
	} else if found {
		if counters := snap.Bucket(datamodels.ICMP6_BUCKET); counters != nil {
			counters.Set(datamodels.IN_USE_FIELD, inUse)
		}
	}
	return snmpErr
}
