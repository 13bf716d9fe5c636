// Copyright 2023 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datamodels

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/go-yaml/yaml"
)

// A data model is an abstract for the information returned by parsers. Rather
// than using a specialized structure for each protocol, the counters of a
// protocol are packed in a slice of values paired with a slice of
// corresponding names. The names are the canonical ones (in_use, time_wait,
// ...), not the kernel's short tokens; the translation is the parser's job.

// The same container serves both for the fixed per-protocol buckets, whose
// names are known upfront and are pre-populated with 0, and for the
// open-ended ones (e.g. TcpExt), whose names are discovered while parsing and
// are appended in the order they were found.

// e.g. /proc/net/sockstat:
//
// sockets: used 229
// TCP: inuse 9 orphan 0 tw 4 alloc 13 mem 2
// UDP: inuse 6 mem 4
// UDPLITE: inuse 0
// RAW: inuse 0
// FRAG: inuse 0 memory 0
//
// TCP: is stored as:
//  Names:  [in_use orphan time_wait allocated memory]
//  Values: [9      0      4         13        2]

type Counters struct {
	// The unique names for the values, as a parallel array: Names[i] is the
	// name for Values[i]:
	Names []string
	// All the values:
	Values []uint64
	// Name to index map, for Get/Set by name. It will be populated at the 1st
	// use (JIT, that is):
	nameToIndex map[string]int
}

func NewCounters(names ...string) *Counters {
	counters := &Counters{
		Names:  make([]string, len(names)),
		Values: make([]uint64, len(names)),
	}
	copy(counters.Names, names)
	return counters
}

func (counters *Counters) index() map[string]int {
	nameToIndex := counters.nameToIndex
	if nameToIndex == nil || len(nameToIndex) != len(counters.Names) {
		nameToIndex = make(map[string]int, len(counters.Names))
		for i, name := range counters.Names {
			nameToIndex[name] = i
		}
		counters.nameToIndex = nameToIndex
	}
	return nameToIndex
}

func (counters *Counters) Len() int {
	return len(counters.Names)
}

// Value by name:
func (counters *Counters) Get(name string) (uint64, bool) {
	index, ok := counters.index()[name]
	if ok {
		return counters.Values[index], true
	}
	return 0, false
}

// Update the value for name; a name not yet in the list is appended:
func (counters *Counters) Set(name string, value uint64) {
	nameToIndex := counters.index()
	if index, ok := nameToIndex[name]; ok {
		counters.Values[index] = value
		return
	}
	nameToIndex[name] = len(counters.Names)
	counters.Names = append(counters.Names, name)
	counters.Values = append(counters.Values, value)
}

func (counters *Counters) Clone() *Counters {
	newCounters := NewCounters(counters.Names...)
	copy(newCounters.Values, counters.Values)
	return newCounters
}

// The rendered form is an object w/ the keys in Names order, which the
// standard map marshaling cannot guarantee:
func (counters *Counters) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, name := range counters.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatUint(counters.Values[i], 10))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (counters *Counters) MarshalYAML() (interface{}, error) {
	mapSlice := make(yaml.MapSlice, len(counters.Names))
	for i, name := range counters.Names {
		mapSlice[i] = yaml.MapItem{Key: name, Value: counters.Values[i]}
	}
	return mapSlice, nil
}
