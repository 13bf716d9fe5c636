// Generic key value section parser

package procfs

import (
	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/sirupsen/logrus"
)

// Parse a section line of the form:
//
//	LABEL: key1 val1 key2 val2 ...
//
// into counters, using the mapping to translate the keys. The label, fields[0],
// is ignored. A trailing key w/o value ends the parsing, w/ the preceding pairs
// applied. Unknown keys are ignored.
//
// The same function serves every protocol section of every source, the
// behavior is entirely driven by the mapping.
func ParseSection(
	fields []string,
	counters *datamodels.Counters,
	mapping FieldMapping,
	log logrus.FieldLogger,
) {
	for i := 1; i+1 < len(fields); i += 2 {
		key := fields[i]
		name, ok := mapping.Canonical(key)
		if !ok {
			log.Debugf("%s %q: unknown field, ignored", fields[0], key)
			continue
		}
		counters.Set(name, ParseCounter(fields[i+1], log))
	}
}
