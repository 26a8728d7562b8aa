package diag_test

import (
	"sync"
	"testing"

	"github.com/on-the-ground/traph_go/diag"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNotifier_WarnOnceDeduplicates(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := diag.New(zap.New(core))

	assert.True(t, n.WarnOnce("disk almost full", zap.Int("pct", 91)))
	assert.False(t, n.WarnOnce("disk almost full", zap.Int("pct", 99)))
	assert.True(t, n.WarnOnce("another message"))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "disk almost full", entries[0].Message)
		assert.Equal(t, int64(91), entries[0].ContextMap()["pct"])
		assert.Equal(t, "another message", entries[1].Message)
	}
}

func TestNotifier_IndependentInstances(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := diag.New(zap.New(core))
	b := diag.New(zap.New(core))

	a.WarnOnce("same text")
	b.WarnOnce("same text")

	assert.Equal(t, 2, logs.FilterMessage("same text").Len())
}

func TestNotifier_Concurrent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := diag.New(zap.New(core))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.WarnOnce("racy warning")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, logs.Len())
}

func TestNotifier_NilLogger(t *testing.T) {
	n := diag.New(nil)
	assert.True(t, n.WarnOnce("dropped"))
	assert.False(t, n.WarnOnce("dropped"))
}

func TestDefault_IsProcessWide(t *testing.T) {
	assert.Same(t, diag.Default(), diag.Default())

	first := diag.WarnOnce("diag_test: process wide warning")
	second := diag.WarnOnce("diag_test: process wide warning")
	assert.True(t, first)
	assert.False(t, second)
}
