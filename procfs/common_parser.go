// Common definitions for all parsers

package procfs

import (
	"strings"
)

// All sources are line oriented text files, consisting of words delimited by
// white spaces. Most lines start w/ a section label, PROTO:, followed by either
// key value pairs:
//
//	TCP: inuse 9 orphan 0 tw 4 alloc 13 mem 2
//
// or by a list of values whose names are given by a preceding heading line
// w/ the same label:
//
//	Icmp: InMsgs InErrors InCsumErrors ...
//	Icmp: 45 1 0 ...

// Split a line into words; the result is nil for blank lines:
func splitLine(line string) []string {
	return strings.Fields(line)
}

// Whether a word is a section label, PROTO:, that is:
func isSectionLabel(word string) bool {
	return len(word) >= 2 && word[len(word)-1] == ':'
}

// Strip the label from a line whose 1st word matches it; the remaining words are
// returned, or nil if the label doesn't match:
func stripSectionLabel(fields []string, label string) []string {
	if len(fields) == 0 || fields[0] != label {
		return nil
	}
	return fields[1:]
}
