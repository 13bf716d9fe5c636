package lssr

import (
	"flag"
	"fmt"
	"io"
	"testing"
)

type FormatFlagUsageWidthTestCase struct {
	usage string
	width int
	want  string
}

func testFormatFlagUsageWidth(tc *FormatFlagUsageWidthTestCase, t *testing.T) {
	if got := FormatFlagUsageWidth(tc.usage, tc.width); got != tc.want {
		t.Fatalf("want: %q, got: %q", tc.want, got)
	}
}

func TestFormatFlagUsageWidth(t *testing.T) {
	for _, tc := range []*FormatFlagUsageWidthTestCase{
		{"one two three", 20, "one two three"},
		{"one two three", 7, "one two\nthree"},
		{`
		Size ceiling for every
		source
		`, 11, "Size\nceiling for\nevery\nsource"},
		{"", 10, ""},
	} {
		t.Run(
			fmt.Sprintf("usage=%q,width=%d", tc.usage, tc.width),
			func(t *testing.T) { testFormatFlagUsageWidth(tc, t) },
		)
	}
}

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestBoolFlagCheckUsed(t *testing.T) {
	for _, tc := range []struct {
		args      []string
		wantUsed  bool
		wantValue bool
	}{
		{nil, false, false},
		{[]string{"-x"}, true, true},
		{[]string{"-x=false"}, true, false},
		{[]string{"-x=true"}, true, true},
	} {
		t.Run(fmt.Sprintf("args=%q", tc.args), func(t *testing.T) {
			fs := newTestFlagSet()
			arg := NewBoolFlagCheckUsed(fs, "x", "test flag")
			if err := fs.Parse(tc.args); err != nil {
				t.Fatal(err)
			}
			if arg.Used != tc.wantUsed || arg.Value != tc.wantValue {
				t.Fatalf(
					"Used, Value: want: %v, %v, got: %v, %v",
					tc.wantUsed, tc.wantValue, arg.Used, arg.Value,
				)
			}
		})
	}
}

func TestStringFlagCheckUsedChoices(t *testing.T) {
	fs := newTestFlagSet()
	arg := NewStringFlagCheckUsed(fs, "format", "text", "output format", "text", "json")
	if err := fs.Parse([]string{"-format", "xml"}); err == nil {
		t.Fatal("want error, got nil")
	}
	if arg.Used || arg.Value != "text" {
		t.Fatalf("Used, Value: want: false, text, got: %v, %s", arg.Used, arg.Value)
	}

	fs = newTestFlagSet()
	arg = NewStringFlagCheckUsed(fs, "format", "text", "output format", "text", "json")
	if err := fs.Parse([]string{"-format", "json"}); err != nil {
		t.Fatal(err)
	}
	if !arg.Used || arg.Value != "json" {
		t.Fatalf("Used, Value: want: true, json, got: %v, %s", arg.Used, arg.Value)
	}
}
