package traph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/on-the-ground/traph_go/input"
	"github.com/on-the-ground/traph_go/pure"
	"go.uber.org/multierr"
)

// DerivationFunc computes one output field from the input record and the
// sibling fields reachable through out. It must be pure and synchronous.
type DerivationFunc func(in input.Input, out Output) (any, error)

// Template maps output field names to their derivations.
type Template map[string]DerivationFunc

type field struct {
	name   string
	derive DerivationFunc
}

// Spec is a compiled Template. It is immutable and shared by every Record
// bound from it.
type Spec struct {
	fields map[string]field
	order  []string
}

// Compile validates tmpl and builds its Spec. All validation problems are
// reported together.
func Compile(tmpl Template) (*Spec, error) {
	order := slices.Sorted(maps.Keys(tmpl))

	var errs error
	for _, name := range order {
		if name == "" {
			errs = multierr.Append(errs, errors.New("empty field name"))
		}
		if tmpl[name] == nil {
			errs = multierr.Append(errs, fmt.Errorf("field %q: nil derivation", name))
		}
	}
	if errs != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, errs)
	}

	return &Spec{
		fields: pure.MapValues(tmpl, func(name string, fn DerivationFunc) field {
			return field{name: name, derive: fn}
		}),
		order: order,
	}, nil
}

// Fields returns the declared field names in materialization order.
func (s *Spec) Fields() []string {
	return slices.Clone(s.order)
}
