// Package pure holds small helpers that are pure functions of their inputs.
//
// Nothing in this package keeps state between calls, so every helper is safe to
// call from any goroutine.
package pure
