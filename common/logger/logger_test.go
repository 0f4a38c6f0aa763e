package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Disable()

	Debugf("dbg %d", 1)
	Infof("inf %s", "x")
	Warnf("wrn")
	Errorf("err")

	out := buf.String()
	for _, want := range []string{"dbg 1", "inf x", "wrn", "err"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Disable()

	Debugf("hidden-debug")
	Infof("hidden-info")
	Warnf("visible-warn")

	out := buf.String()
	if strings.Contains(out, "hidden-debug") || strings.Contains(out, "hidden-info") {
		t.Errorf("below-threshold messages leaked:\n%s", out)
	}
	if !strings.Contains(out, "visible-warn") {
		t.Errorf("warn message missing:\n%s", out)
	}
}
