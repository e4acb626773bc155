package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsGoToTheirWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Info("server up")
	l.Warnf("slow tick: %dms", 250)
	l.Errorf("save failed: %v", "disk full")

	assert.Contains(t, out.String(), "[CLICKER-INFO] ")
	assert.Contains(t, out.String(), "server up")
	assert.Contains(t, out.String(), "[CLICKER-WARN] ")
	assert.Contains(t, out.String(), "slow tick: 250ms")
	assert.NotContains(t, out.String(), "disk full")

	assert.Contains(t, errOut.String(), "[CLICKER-ERROR] ")
	assert.Contains(t, errOut.String(), "save failed: disk full")
	assert.NotContains(t, errOut.String(), "server up")
}

func TestBuffersAreNotColored(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out)
	l.Event("PRESTIGE", "", "gain=3")

	line := out.String()
	assert.False(t, strings.Contains(line, "\x1b["), "no escape codes outside a terminal")
	assert.Contains(t, line, "[EVENT:PRESTIGE] Target:- | gain=3")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("dropped")
	l.Error("dropped")
}
