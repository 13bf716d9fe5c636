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

// The snapshot is the complete, point-in-time record produced by one run. It is
// built once, it is read-only after assembly and it is handed over to a
// renderer.

// Bucket names, as they appear in the rendered snapshot:
const (
	TCP_BUCKET       = "tcp"
	UDP_BUCKET       = "udp"
	UDP_LITE_BUCKET  = "udp_lite"
	RAW_BUCKET       = "raw"
	FRAG_BUCKET      = "frag"
	TCP6_BUCKET      = "tcp6"
	UDP6_BUCKET      = "udp6"
	UDP_LITE6_BUCKET = "udp_lite6"
	RAW6_BUCKET      = "raw6"
	FRAG6_BUCKET     = "frag6"
	UNIX_BUCKET      = "unix"
	ICMP_BUCKET      = "icmp"
	ICMP6_BUCKET     = "icmp6"
	NETLINK_BUCKET   = "netlink"
	PACKET_BUCKET    = "packet"
)

// Canonical counter names:
const (
	IN_USE_FIELD    = "in_use"
	ORPHAN_FIELD    = "orphan"
	TIME_WAIT_FIELD = "time_wait"
	ALLOCATED_FIELD = "allocated"
	MEMORY_FIELD    = "memory"
	DYNAMIC_FIELD   = "dynamic"
	INODE_FIELD     = "inode"
)

// Other top level keys:
const (
	METADATA_KEY     = "metadata"
	SOCKETS_USED_KEY = "sockets_used"
	TCP_EXT_KEY      = "tcp_ext"
)

// The layout of a bucket, i.e. its counters in render order:
type BucketLayout struct {
	Name   string
	Fields []string
}

var (
	tcpFields  = []string{IN_USE_FIELD, ORPHAN_FIELD, TIME_WAIT_FIELD, ALLOCATED_FIELD, MEMORY_FIELD}
	udpFields  = []string{IN_USE_FIELD, MEMORY_FIELD}
	fragFields = []string{IN_USE_FIELD, MEMORY_FIELD}
	inUseOnly  = []string{IN_USE_FIELD}
)

// Always present:
var BaseBucketLayouts = []*BucketLayout{
	{TCP_BUCKET, tcpFields},
	{UDP_BUCKET, udpFields},
	{UDP_LITE_BUCKET, inUseOnly},
	{RAW_BUCKET, inUseOnly},
	{FRAG_BUCKET, fragFields},
}

// Present in extended mode only:
var ExtendedBucketLayouts = []*BucketLayout{
	{TCP6_BUCKET, tcpFields},
	{UDP6_BUCKET, udpFields},
	{UDP_LITE6_BUCKET, inUseOnly},
	{RAW6_BUCKET, inUseOnly},
	{FRAG6_BUCKET, fragFields},
	{UNIX_BUCKET, []string{IN_USE_FIELD, DYNAMIC_FIELD, INODE_FIELD}},
	{ICMP_BUCKET, inUseOnly},
	{ICMP6_BUCKET, inUseOnly},
	{NETLINK_BUCKET, inUseOnly},
	{PACKET_BUCKET, []string{IN_USE_FIELD, MEMORY_FIELD}},
}

type Metadata struct {
	Source        string `json:"source" yaml:"source"`
	GeneratedAt   string `json:"generated_at" yaml:"generated_at"`
	Hostname      string `json:"hostname" yaml:"hostname"`
	KernelRelease string `json:"kernel_release" yaml:"kernel_release"`
	PageSize      int64  `json:"page_size" yaml:"page_size"`
	Extended      bool   `json:"extended" yaml:"extended"`
}

type Snapshot struct {
	Metadata    *Metadata
	SocketsUsed uint64
	// Protocol buckets by name:
	Buckets map[string]*Counters
	// Open-ended TcpExt counters, nil if no TcpExt: line was found:
	TcpExt *Counters
	// Render order for the buckets:
	bucketNames []string
}

// Build the zero-valued snapshot; the extended buckets are created only if
// requested, regardless of whether their sources will be readable or not:
func NewSnapshot(extended bool) *Snapshot {
	layouts := BaseBucketLayouts
	if extended {
		layouts = append(layouts[:len(layouts):len(layouts)], ExtendedBucketLayouts...)
	}
	snap := &Snapshot{
		Metadata:    &Metadata{Extended: extended},
		Buckets:     make(map[string]*Counters, len(layouts)),
		bucketNames: make([]string, len(layouts)),
	}
	for i, layout := range layouts {
		snap.Buckets[layout.Name] = NewCounters(layout.Fields...)
		snap.bucketNames[i] = layout.Name
	}
	return snap
}

// Return the bucket by name or nil if it doesn't exist (e.g. an extended bucket
// in non-extended mode):
func (snap *Snapshot) Bucket(name string) *Counters {
	return snap.Buckets[name]
}

func (snap *Snapshot) BucketNames() []string {
	return snap.bucketNames
}

func (snap *Snapshot) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	writeKey := func(key string) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(key)
		buf.WriteString(`":`)
	}

	buf.WriteByte('{')
	if snap.Metadata != nil {
		metadata, err := json.Marshal(snap.Metadata)
		if err != nil {
			return nil, err
		}
		writeKey(METADATA_KEY)
		buf.Write(metadata)
	}
	writeKey(SOCKETS_USED_KEY)
	buf.WriteString(strconv.FormatUint(snap.SocketsUsed, 10))
	for _, name := range snap.bucketNames {
		counters, err := snap.Buckets[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		writeKey(name)
		buf.Write(counters)
	}
	if snap.TcpExt != nil {
		counters, err := snap.TcpExt.MarshalJSON()
		if err != nil {
			return nil, err
		}
		writeKey(TCP_EXT_KEY)
		buf.Write(counters)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (snap *Snapshot) MarshalYAML() (interface{}, error) {
	mapSlice := make(yaml.MapSlice, 0, len(snap.bucketNames)+3)
	if snap.Metadata != nil {
		mapSlice = append(mapSlice, yaml.MapItem{Key: METADATA_KEY, Value: snap.Metadata})
	}
	mapSlice = append(mapSlice, yaml.MapItem{Key: SOCKETS_USED_KEY, Value: snap.SocketsUsed})
	for _, name := range snap.bucketNames {
		mapSlice = append(mapSlice, yaml.MapItem{Key: name, Value: snap.Buckets[name]})
	}
	if snap.TcpExt != nil {
		mapSlice = append(mapSlice, yaml.MapItem{Key: TCP_EXT_KEY, Value: snap.TcpExt})
	}
	return mapSlice, nil
}
