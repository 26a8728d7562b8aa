// Package traph builds derived-attribute records.
//
// A Template maps field names to derivation functions of the form
// (input, output) -> value. New compiles it once; every input bound through the
// resulting Transform gets its own Record whose fields are computed on first
// read and cached. A derivation may read sibling fields through its Output,
// which evaluates them on demand, so the dependency graph is discovered while
// reading rather than declared upfront.
//
// Apply resolves every field before returning. Lazy resolves nothing until a
// field is read:
//
//	t := traph.MustNew(traph.Template{
//	    "double": func(in input.Input, _ traph.Output) (any, error) {
//	        return in.Get("x").(int) * 2, nil
//	    },
//	    "quadruple": func(_ input.Input, out traph.Output) (any, error) {
//	        return traph.Field[int](out, "double") * 2, nil
//	    },
//	})
//	rec, err := t.Apply(input.Map{"x": 5})
//
// Reading a field while its own derivation is still running is reported as a
// CyclicDependencyError. In development mode (TRAPH_ENV=development or
// WithMode(config.Development)) the input is guarded, and reading a key the
// input lacks fails with input.MissingKeyError.
package traph
