package traph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/on-the-ground/traph_go/input"
	"github.com/on-the-ground/traph_go/pure"
)

// State is the evaluation state of one field of a Record.
type State uint8

const (
	Unresolved State = iota
	Computing
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Computing:
		return "computing"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

type cell struct {
	field field
	state State
	owner *reader
	done  chan struct{}
	value any
	err   error
}

// reader identifies one top-level read together with the sibling reads its
// derivations trigger.
type reader struct {
	root string
}

// Record is an output record bound to one input. Each field is derived on
// first read and cached; its derivation runs at most once per Record, even
// when it fails. Records are safe for concurrent reads: concurrent first
// readers of a field wait for the in-flight derivation.
type Record struct {
	id    string
	spec  *Spec
	input input.Input

	mu    sync.Mutex
	cells map[string]*cell
	waits map[*reader]string
}

func newRecord(spec *Spec, in input.Input) *Record {
	return &Record{
		id:    uuid.New().String(),
		spec:  spec,
		input: in,
		cells: pure.MapValues(spec.fields, func(_ string, f field) *cell {
			return &cell{field: f}
		}),
		waits: make(map[*reader]string),
	}
}

// ID returns the unique id of the record.
func (r *Record) ID() string { return r.id }

// Input returns the effective input, guarded when the record was bound in
// development mode.
func (r *Record) Input() input.Input { return r.input }

// Fields returns the declared field names in materialization order.
func (r *Record) Fields() []string { return r.spec.Fields() }

// Get returns the value of field key, deriving it first if needed.
func (r *Record) Get(key string) (any, error) {
	return r.resolve(key, &reader{root: key}, nil)
}

// State returns the evaluation state of field key.
// ok is false if the template does not declare key.
func (r *Record) State(key string) (s State, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cells[key]
	if !ok {
		return Unresolved, false
	}
	return c.state, true
}

// Values returns a snapshot of the fields resolved without error so far.
// It never triggers a derivation.
func (r *Record) Values() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := make(map[string]any, len(r.cells))
	for k, c := range r.cells {
		if c.state == Resolved && c.err == nil {
			values[k] = c.value
		}
	}
	return values
}

func (r *Record) peek(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cells[key]
	if !ok || c.state != Resolved || c.err != nil {
		return nil, false
	}
	return c.value, true
}

func (r *Record) resolve(key string, rd *reader, path []string) (any, error) {
	r.mu.Lock()
	c, ok := r.cells[key]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}

	switch c.state {
	case Resolved:
		r.mu.Unlock()
		return c.value, c.err

	case Computing:
		if r.blockedBy(c.owner, rd) {
			r.mu.Unlock()
			return nil, newCyclicDependencyError(path, key)
		}
		r.waits[rd] = key
		done := c.done
		r.mu.Unlock()

		<-done

		r.mu.Lock()
		delete(r.waits, rd)
		value, err := c.value, c.err
		r.mu.Unlock()
		return value, err
	}

	c.state, c.owner, c.done = Computing, rd, make(chan struct{})
	r.mu.Unlock()

	return r.evaluate(c, rd, append(slices.Clip(path), key))
}

// blockedBy reports whether owner is rd, or is waiting (directly or through
// other readers) on a field rd is computing. Caller holds r.mu.
func (r *Record) blockedBy(owner, rd *reader) bool {
	for range len(r.cells) + 1 {
		if owner == rd {
			return true
		}
		key, ok := r.waits[owner]
		if !ok {
			return false
		}
		c := r.cells[key]
		if c.state != Computing {
			return false
		}
		owner = c.owner
	}
	return false
}

func (r *Record) evaluate(c *cell, rd *reader, path []string) (value any, err error) {
	name := c.field.name
	defer func() {
		switch p := recover().(type) {
		case nil:
		case raised:
			value, err = nil, fmt.Errorf("field %q: %w", name, p.err)
		case *input.MissingKeyError:
			value, err = nil, fmt.Errorf("field %q: %w", name, p)
		default:
			r.finish(c, nil, fmt.Errorf("%w: field %q: %v", ErrDerivationPanicked, name, p))
			panic(p)
		}
		r.finish(c, value, err)
	}()

	value, err = c.field.derive(r.input, Output{rec: r, reader: rd, path: path})
	if err != nil {
		value, err = nil, fmt.Errorf("field %q: %w", name, err)
	}
	return value, err
}

func (r *Record) finish(c *cell, value any, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.value, c.err = value, err
	c.state, c.owner = Resolved, nil
	close(c.done)
}

// Output is the view of a Record handed to a derivation. Reads through it
// resolve sibling fields as part of the same read chain, which is how cycles
// are detected. An Output must not be used from other goroutines or after the
// derivation returns.
type Output struct {
	rec    *Record
	reader *reader
	path   []string
}

// Lookup returns the value of sibling field key, deriving it first if needed.
func (o Output) Lookup(key string) (any, error) {
	return o.rec.resolve(key, o.reader, o.path)
}

// Get is like Lookup but aborts the calling derivation on error. The error
// becomes the result of the derivation.
func (o Output) Get(key string) any {
	v, err := o.Lookup(key)
	if err != nil {
		panic(raised{err: err})
	}
	return v
}

// Input returns the effective input of the record.
func (o Output) Input() input.Input {
	return o.rec.input
}

// Materialize reads every field of r in materialization order and returns r.
// It stops at the first failing field and returns its error; r is returned
// either way.
func Materialize(r *Record) (*Record, error) {
	for _, key := range r.spec.order {
		if _, err := r.Get(key); err != nil {
			return r, err
		}
	}
	return r, nil
}
