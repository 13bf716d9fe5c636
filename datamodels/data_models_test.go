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
	"fmt"
	"strings"
	"testing"

	"github.com/emypar/linux-sockstat-reporter/internal/testutils"
	"github.com/go-yaml/yaml"
)

func (gotCounters *Counters) Compare(wantCounters *Counters) string {
	if len(wantCounters.Values) != len(wantCounters.Names) {
		return fmt.Sprintf("inconsistent reference: len(Values) %d != %d len(Names)", len(wantCounters.Values), len(wantCounters.Names))
	}
	buf := &bytes.Buffer{}
	testutils.CompareSlices(wantCounters.Names, gotCounters.Names, "Names", buf)
	testutils.CompareSlices(wantCounters.Values, gotCounters.Values, "Values", buf)
	return buf.String()
}

type CountersSetTestCase struct {
	name         string
	names        []string
	set          [][2]any
	wantCounters *Counters
}

func testCountersSet(tc *CountersSetTestCase, t *testing.T) {
	counters := NewCounters(tc.names...)
	for _, nameValue := range tc.set {
		counters.Set(nameValue[0].(string), nameValue[1].(uint64))
	}
	if diff := counters.Compare(tc.wantCounters); diff != "" {
		t.Fatal(diff)
	}
	for i, name := range tc.wantCounters.Names {
		gotValue, ok := counters.Get(name)
		if !ok || gotValue != tc.wantCounters.Values[i] {
			t.Fatalf("Get(%q): want: %d, true, got: %d, %v", name, tc.wantCounters.Values[i], gotValue, ok)
		}
	}
	if _, ok := counters.Get("no_such_counter"); ok {
		t.Fatal("Get(no_such_counter): want: false, got: true")
	}
}

func TestCountersSet(t *testing.T) {
	for _, tc := range []*CountersSetTestCase{
		{
			name:  "zero",
			names: []string{IN_USE_FIELD, MEMORY_FIELD},
			wantCounters: &Counters{
				Names:  []string{IN_USE_FIELD, MEMORY_FIELD},
				Values: []uint64{0, 0},
			},
		},
		{
			name:  "update",
			names: []string{IN_USE_FIELD, MEMORY_FIELD},
			set:   [][2]any{{MEMORY_FIELD, uint64(7)}, {IN_USE_FIELD, uint64(3)}, {MEMORY_FIELD, uint64(8)}},
			wantCounters: &Counters{
				Names:  []string{IN_USE_FIELD, MEMORY_FIELD},
				Values: []uint64{3, 8},
			},
		},
		{
			name: "open_ended",
			set:  [][2]any{{"SyncookiesSent", uint64(1)}, {"SyncookiesRecv", uint64(2)}, {"SyncookiesSent", uint64(5)}},
			wantCounters: &Counters{
				Names:  []string{"SyncookiesSent", "SyncookiesRecv"},
				Values: []uint64{5, 2},
			},
		},
	} {
		t.Run(
			fmt.Sprintf("name=%s", tc.name),
			func(t *testing.T) { testCountersSet(tc, t) },
		)
	}
}

func TestCountersMarshalOrder(t *testing.T) {
	counters := NewCounters("zeta", "alpha", "mid")
	counters.Set("alpha", 2)
	counters.Set("zeta", 1)

	gotJson, err := json.Marshal(counters)
	if err != nil {
		t.Fatal(err)
	}
	wantJson := `{"zeta":1,"alpha":2,"mid":0}`
	if string(gotJson) != wantJson {
		t.Fatalf("json: want: %s, got: %s", wantJson, gotJson)
	}

	gotYaml, err := yaml.Marshal(counters)
	if err != nil {
		t.Fatal(err)
	}
	wantYaml := "zeta: 1\nalpha: 2\nmid: 0\n"
	if string(gotYaml) != wantYaml {
		t.Fatalf("yaml: want: %q, got: %q", wantYaml, gotYaml)
	}
}

func TestCountersClone(t *testing.T) {
	counters := NewCounters(IN_USE_FIELD)
	counters.Set(IN_USE_FIELD, 4)
	clone := counters.Clone()
	clone.Set(IN_USE_FIELD, 5)
	if got, _ := counters.Get(IN_USE_FIELD); got != 4 {
		t.Fatalf("original modified by clone: want: 4, got: %d", got)
	}
}

type NewSnapshotTestCase struct {
	extended        bool
	wantBucketNames []string
}

func testNewSnapshot(tc *NewSnapshotTestCase, t *testing.T) {
	snap := NewSnapshot(tc.extended)

	gotBucketNames := snap.BucketNames()
	if strings.Join(tc.wantBucketNames, ",") != strings.Join(gotBucketNames, ",") {
		t.Fatalf("BucketNames(): want: %v, got: %v", tc.wantBucketNames, gotBucketNames)
	}
	if len(snap.Buckets) != len(tc.wantBucketNames) {
		t.Fatalf("len(Buckets): want: %d, got: %d", len(tc.wantBucketNames), len(snap.Buckets))
	}
	for _, name := range gotBucketNames {
		counters := snap.Bucket(name)
		if counters == nil {
			t.Fatalf("Bucket(%q): missing", name)
		}
		for i, value := range counters.Values {
			if value != 0 {
				t.Fatalf("Bucket(%q).%s: want: 0, got: %d", name, counters.Names[i], value)
			}
		}
	}
	if snap.TcpExt != nil {
		t.Fatal("TcpExt: want: nil, got: non-nil")
	}
	if snap.Metadata.Extended != tc.extended {
		t.Fatalf("Metadata.Extended: want: %v, got: %v", tc.extended, snap.Metadata.Extended)
	}
}

func TestNewSnapshot(t *testing.T) {
	for _, tc := range []*NewSnapshotTestCase{
		{
			extended:        false,
			wantBucketNames: []string{"tcp", "udp", "udp_lite", "raw", "frag"},
		},
		{
			extended: true,
			wantBucketNames: []string{
				"tcp", "udp", "udp_lite", "raw", "frag",
				"tcp6", "udp6", "udp_lite6", "raw6", "frag6",
				"unix", "icmp", "icmp6", "netlink", "packet",
			},
		},
	} {
		t.Run(
			fmt.Sprintf("extended=%v", tc.extended),
			func(t *testing.T) { testNewSnapshot(tc, t) },
		)
	}
}

func TestNewSnapshotDoesNotShareLayouts(t *testing.T) {
	NewSnapshot(true)
	if len(BaseBucketLayouts) != 5 {
		t.Fatalf("len(BaseBucketLayouts): want: 5, got: %d", len(BaseBucketLayouts))
	}
	snap1, snap2 := NewSnapshot(false), NewSnapshot(false)
	snap1.Bucket(TCP_BUCKET).Set(IN_USE_FIELD, 10)
	if got, _ := snap2.Bucket(TCP_BUCKET).Get(IN_USE_FIELD); got != 0 {
		t.Fatalf("snapshots share buckets: want: 0, got: %d", got)
	}
}

func TestSnapshotMarshalJSON(t *testing.T) {
	snap := NewSnapshot(false)
	snap.Metadata.Source = "/proc/net/sockstat"
	snap.Metadata.GeneratedAt = "2024-01-02T03:04:05Z"
	snap.Metadata.Hostname = "host"
	snap.Metadata.KernelRelease = "6.1.0"
	snap.Metadata.PageSize = 4096
	snap.SocketsUsed = 128
	snap.Bucket(TCP_BUCKET).Set(IN_USE_FIELD, 10)

	got, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"metadata":{"source":"/proc/net/sockstat","generated_at":"2024-01-02T03:04:05Z","hostname":"host","kernel_release":"6.1.0","page_size":4096,"extended":false},` +
		`"sockets_used":128,` +
		`"tcp":{"in_use":10,"orphan":0,"time_wait":0,"allocated":0,"memory":0},` +
		`"udp":{"in_use":0,"memory":0},` +
		`"udp_lite":{"in_use":0},` +
		`"raw":{"in_use":0},` +
		`"frag":{"in_use":0,"memory":0}}`
	if string(got) != want {
		t.Fatalf("\nwant: %s\n got: %s", want, got)
	}

	snap.TcpExt = NewCounters()
	snap.TcpExt.Set("TCPTimeouts", 3)
	got, err = json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(got), `"frag":{"in_use":0,"memory":0},"tcp_ext":{"TCPTimeouts":3}}`) {
		t.Fatalf("tcp_ext not rendered last: %s", got)
	}
}

func TestSnapshotMarshalYAML(t *testing.T) {
	snap := NewSnapshot(false)
	snap.Metadata = nil
	snap.SocketsUsed = 7

	got, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	want := `sockets_used: 7
tcp:
  in_use: 0
  orphan: 0
  time_wait: 0
  allocated: 0
  memory: 0
udp:
  in_use: 0
  memory: 0
udp_lite:
  in_use: 0
raw:
  in_use: 0
frag:
  in_use: 0
  memory: 0
`
	if string(got) != want {
		t.Fatalf("\nwant:\n%s\ngot:\n%s", want, got)
	}
}
