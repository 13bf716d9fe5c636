package lssr

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLogSortFieldKeys(t *testing.T) {
	keys := []string{"msg", "zeta", "file", "alpha", "level", "comp", "time"}
	LogSortFieldKeys(keys)
	want := "time level comp file alpha zeta msg"
	if got := strings.Join(keys, " "); got != want {
		t.Fatalf("want: %q, got: %q", want, got)
	}
}

func TestSetLogger(t *testing.T) {
	savedLevel, savedFormatter := Log.Level, Log.Formatter
	defer func() {
		Log.SetLevel(savedLevel)
		Log.SetFormatter(savedFormatter)
	}()

	if err := SetLogger(&LoggerConfig{Level: "debug", UseJson: true}); err != nil {
		t.Fatal(err)
	}
	if Log.Level != logrus.DebugLevel {
		t.Fatalf("level: want: %s, got: %s", logrus.DebugLevel, Log.Level)
	}
	if Log.Formatter != LogJsonFormatter {
		t.Fatal("formatter: want: JSON")
	}

	if err := SetLogger(&LoggerConfig{Level: "chatty"}); err == nil {
		t.Fatal("want error for invalid level, got nil")
	}
}

func TestCompLoggerJson(t *testing.T) {
	buf := &bytes.Buffer{}
	savedOut, savedFormatter := Log.Out, Log.Formatter
	Log.SetOutput(buf)
	Log.SetFormatter(LogJsonFormatter)
	defer func() {
		Log.SetOutput(savedOut)
		Log.SetFormatter(savedFormatter)
	}()

	NewCompLogger("engine").Info("hello")

	entry := map[string]any{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("%v: %s", err, buf.String())
	}
	if entry[LOGGER_COMPONENT_FIELD_NAME] != "engine" || entry["msg"] != "hello" {
		t.Fatalf("unexpected entry: %s", buf.String())
	}
	if file, _ := entry["file"].(string); !strings.HasPrefix(file, "lssr/logger_test.go:") {
		t.Fatalf("file: want: lssr/logger_test.go:N, got: %q", file)
	}
}
