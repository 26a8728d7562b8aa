package input_test

import (
	"errors"
	"testing"

	"github.com/on-the-ground/traph_go/diag"
	"github.com/on-the-ground/traph_go/input"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// opaque only offers Get, so it cannot be guarded.
type opaque struct{ v map[string]any }

func (o opaque) Get(key string) any { return o.v[key] }

func TestMap_AbsentKeyIsNil(t *testing.T) {
	m := input.Map{"a": 1}

	assert.Equal(t, 1, m.Get("a"))
	assert.Nil(t, m.Get("missing"))

	_, ok := m.Lookup("missing")
	assert.False(t, ok)
}

func TestGuard_PanicsOnMissingKey(t *testing.T) {
	g := input.Guard(input.Map{"a": 1, "n": nil}, diag.New(nil))
	require.True(t, input.IsGuarded(g))

	assert.Equal(t, 1, g.Get("a"))
	assert.Nil(t, g.Get("n"), "a present nil value is not missing")

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)

		var missing *input.MissingKeyError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "missingField", missing.Key)
		assert.ErrorIs(t, err, input.ErrMissingKey)
		assert.Contains(t, err.Error(), "missingField")
	}()
	g.Get("missingField")
}

func TestGuard_LookupPassesThrough(t *testing.T) {
	g := input.Guard(input.Map{"a": 1}, nil)
	l, ok := g.(input.Lookuper)
	require.True(t, ok)

	_, found := l.Lookup("b")
	assert.False(t, found)
}

func TestGuard_Idempotent(t *testing.T) {
	g := input.Guard(input.Map{"a": 1}, nil)
	assert.Equal(t, g, input.Guard(g, nil))
}

func TestGuard_NilInput(t *testing.T) {
	g := input.Guard(nil, nil)
	assert.True(t, input.IsGuarded(g))
	assert.Panics(t, func() { g.Get("x") })
}

func TestGuard_FallbackWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := diag.New(zap.New(core))
	raw := opaque{v: map[string]any{"a": 1}}

	first := input.Guard(raw, n)
	second := input.Guard(raw, n)

	assert.False(t, input.IsGuarded(first))
	assert.Equal(t, raw, first)
	assert.Equal(t, raw, second)
	assert.Nil(t, first.Get("missing"))
	assert.Equal(t, 1, logs.FilterMessage(input.UnguardableWarning).Len())
}
