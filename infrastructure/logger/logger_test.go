package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type bufferCloser struct {
	sync.Mutex
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Write(p []byte) (int, error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *bufferCloser) Close() error {
	b.Lock()
	defer b.Unlock()
	b.closed = true
	return nil
}

func TestBackendWritesByLevel(t *testing.T) {
	backend := NewBackendWithFlags(0)
	all := &bufferCloser{}
	warnings := &bufferCloser{}
	if err := backend.AddLogWriter(all, LevelTrace); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}
	if err := backend.AddLogWriter(warnings, LevelWarn); err != nil {
		t.Fatalf("AddLogWriter: %+v", err)
	}

	log := backend.Logger("TEST")
	log.Infof("dropped before the backend runs")

	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %+v", err)
	}
	if err := backend.Run(); err == nil {
		t.Fatalf("Run: expected an error when running twice")
	}
	if err := backend.AddLogWriter(&bufferCloser{}, LevelInfo); err == nil {
		t.Fatalf("AddLogWriter: expected an error on a running backend")
	}

	log.Debugf("filtered by the logger level")
	log.Infof("digest %d", 1)
	log.Warnf("digest %d", 2)
	log.SetLevel(LevelDebug)
	log.Debugf("visible at debug")
	backend.Close()

	allOutput := all.String()
	if strings.Contains(allOutput, "dropped") || strings.Contains(allOutput, "filtered") {
		t.Fatalf("unexpected entries in output:\n%s", allOutput)
	}
	for _, want := range []string{"[INF] TEST: digest 1\n", "[WRN] TEST: digest 2\n", "[DBG] TEST: visible at debug\n"} {
		if !strings.Contains(allOutput, want) {
			t.Fatalf("output is missing %q:\n%s", want, allOutput)
		}
	}
	if strings.Contains(warnings.String(), "digest 1") || !strings.Contains(warnings.String(), "digest 2") {
		t.Fatalf("warnings writer got unexpected output:\n%s", warnings.String())
	}
	if !all.closed || !warnings.closed {
		t.Fatalf("Close did not close the writers")
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in    string
		level Level
		ok    bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"wrn", LevelWarn, true},
		{"error", LevelError, true},
		{"critical", LevelCritical, true},
		{"off", LevelOff, true},
		{"verbose", LevelInfo, false},
	}
	for _, test := range tests {
		level, ok := LevelFromString(test.in)
		if level != test.level || ok != test.ok {
			t.Errorf("LevelFromString(%q): got %s %t, want %s %t", test.in, level, ok, test.level, test.ok)
		}
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	defer SetLogLevels("info")

	if err := ParseAndSetLogLevels("debug"); err != nil {
		t.Fatalf("ParseAndSetLogLevels: %+v", err)
	}
	for _, tag := range SupportedSubsystems() {
		logger, _ := Get(tag)
		if logger.Level() != LevelDebug {
			t.Fatalf("%s: got level %s, want %s", tag, logger.Level(), LevelDebug)
		}
	}

	if err := ParseAndSetLogLevels("HASH=trace,PBAS=warn"); err != nil {
		t.Fatalf("ParseAndSetLogLevels: %+v", err)
	}
	hashLog, _ := Get(SubsystemTags.HASH)
	pbaasLog, _ := Get(SubsystemTags.PBAS)
	if hashLog.Level() != LevelTrace || pbaasLog.Level() != LevelWarn {
		t.Fatalf("got levels %s and %s", hashLog.Level(), pbaasLog.Level())
	}

	for _, invalid := range []string{"loud", "HASH", "NOPE=info", "HASH=loud"} {
		if err := ParseAndSetLogLevels(invalid); err == nil {
			t.Errorf("ParseAndSetLogLevels(%q): expected an error", invalid)
		}
	}
}
