// Package input defines the read contract of input records and the
// development-time guard that rejects reads of undeclared keys.
package input

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/traph_go/diag"
	"go.uber.org/zap"
)

// Input is a read-only record. Get returns nil for keys the record does not hold.
type Input interface {
	Get(key string) any
}

// Lookuper is an Input that can tell a missing key from a nil value.
// Only a Lookuper can be guarded.
type Lookuper interface {
	Input
	Lookup(key string) (any, bool)
}

// Map is the plain map-backed Input.
type Map map[string]any

func (m Map) Get(key string) any {
	return m[key]
}

func (m Map) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// ErrMissingKey is wrapped by every MissingKeyError.
var ErrMissingKey = errors.New("missing key")

// MissingKeyError reports a guarded read of a key the input record lacks.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("input record is missing key %q", e.Key)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrMissingKey
}

// UnguardableWarning is emitted once per notifier when Guard receives an input
// it cannot validate.
const UnguardableWarning = "traph: can't validate input record, it does not report key membership"

// Guard wraps in so that Get panics with *MissingKeyError for absent keys.
// The panic is meant to be recovered by the evaluator driving the read.
//
// If in is not a Lookuper the guard cannot be installed: in is returned as is
// and a warning is emitted once through n.
func Guard(in Input, n *diag.Notifier) Input {
	switch in := in.(type) {
	case nil:
		return guarded{Lookuper: Map{}}
	case guarded:
		return in
	case Lookuper:
		return guarded{Lookuper: in}
	default:
		if n != nil {
			n.WarnOnce(UnguardableWarning, zap.String("input_type", fmt.Sprintf("%T", in)))
		}
		return in
	}
}

// IsGuarded reports whether in was produced by Guard.
func IsGuarded(in Input) bool {
	_, ok := in.(guarded)
	return ok
}

type guarded struct {
	Lookuper
}

func (g guarded) Get(key string) any {
	v, ok := g.Lookuper.Lookup(key)
	if !ok {
		panic(&MissingKeyError{Key: key})
	}
	return v
}
