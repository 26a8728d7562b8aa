package traph

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidTemplate is wrapped by every error New and Compile return.
	ErrInvalidTemplate = errors.New("invalid derivation template")

	// ErrUnknownField is returned when reading a field the template does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrCyclicDependency is wrapped by every CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrDerivationPanicked is cached for a field whose derivation panicked.
	ErrDerivationPanicked = errors.New("derivation panicked")
)

// CyclicDependencyError is returned when a field is read while its own
// derivation is still computing.
type CyclicDependencyError struct {
	// Path lists the fields of the read chain, ending with the field read again.
	Path []string
}

func newCyclicDependencyError(path []string, key string) *CyclicDependencyError {
	return &CyclicDependencyError{Path: append(append([]string{}, path...), key)}
}

func (e *CyclicDependencyError) Error() string {
	return ErrCyclicDependency.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}

// raised carries an error out of Output.Get up to the evaluator that ran the
// derivation.
type raised struct {
	err error
}
