package monitoring

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestUseZap_WritesToWriter(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	flush := UseZap(NewZapLogger(&buf, false))
	Logf("found %d tips on body %s", 7, "12345")
	flush()

	out := buf.String()
	if !strings.Contains(out, "found 7 tips on body 12345") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("log output missing level: %q", out)
	}
}

func TestProgress(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	Progress(false)("hidden %d", 1)
	Progress(true)("shown %d", 2)

	if len(lines) != 1 || lines[0] != "shown 2" {
		t.Errorf("got %v, want [shown 2]", lines)
	}
}
