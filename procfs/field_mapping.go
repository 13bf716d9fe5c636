// Kernel field token -> canonical counter name mappings

package procfs

import (
	"github.com/emypar/linux-sockstat-reporter/datamodels"
)

// A field mapping translates the kernel short tokens (inuse, tw, ...) into the
// canonical names used in the snapshot (in_use, time_wait, ...). The mappings
// are fixed and they should not be modified at runtime.
//
// The nil mapping is special in that it accepts every key verbatim; it is used
// for open-ended sections such as TcpExt.
type FieldMapping map[string]string

var VerbatimFieldMapping FieldMapping = nil

// Return the canonical name for a kernel token and whether it is known or not:
func (fm FieldMapping) Canonical(key string) (string, bool) {
	if fm == nil {
		return key, true
	}
	name, ok := fm[key]
	return name, ok
}

var (
	TcpFieldMapping = FieldMapping{
		"inuse":  datamodels.IN_USE_FIELD,
		"orphan": datamodels.ORPHAN_FIELD,
		"tw":     datamodels.TIME_WAIT_FIELD,
		"alloc":  datamodels.ALLOCATED_FIELD,
		"mem":    datamodels.MEMORY_FIELD,
	}

	UdpFieldMapping = FieldMapping{
		"inuse": datamodels.IN_USE_FIELD,
		"mem":   datamodels.MEMORY_FIELD,
	}

	InUseFieldMapping = FieldMapping{
		"inuse": datamodels.IN_USE_FIELD,
	}

	// FRAG: inuse 0 memory 0, though some older tools expect mem:
	FragFieldMapping = FieldMapping{
		"inuse":  datamodels.IN_USE_FIELD,
		"memory": datamodels.MEMORY_FIELD,
		"mem":    datamodels.MEMORY_FIELD,
	}

	UnixFieldMapping = FieldMapping{
		"inuse":   datamodels.IN_USE_FIELD,
		"dynamic": datamodels.DYNAMIC_FIELD,
		"inode":   datamodels.INODE_FIELD,
	}
)
